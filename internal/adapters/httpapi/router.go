// Package httpapi exposes the reclamation and notification services over REST.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/reclam/internal/logging"
	"github.com/example/reclam/internal/metrics"
	"github.com/example/reclam/internal/ports/primary"
)

// RequestTimeout bounds a single request, identity calls included.
const RequestTimeout = 30 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router serves.
type Deps struct {
	Reclamations  primary.ReclamationService
	Notifications primary.NotificationService
	Dispatcher    primary.NotificationDispatcher // optional; enables POST /api/notifications
	Logs          primary.LogService             // optional
	Health        Pinger
	Metrics       *metrics.Metrics
	MetricsOutput http.Handler // defaults to promhttp.Handler()
	Logger        *slog.Logger
}

// Handler serves the REST surface.
type Handler struct {
	reclamations  primary.ReclamationService
	notifications primary.NotificationService
	dispatcher    primary.NotificationDispatcher
	logs          primary.LogService
	health        Pinger
	logger        *slog.Logger
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "http")

	h := &Handler{
		reclamations:  deps.Reclamations,
		notifications: deps.Notifications,
		dispatcher:    deps.Dispatcher,
		logs:          deps.Logs,
		health:        deps.Health,
		logger:        logger,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(actorMiddleware)
	r.Use(observe(logger, deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Route("/api/reclamations", func(r chi.Router) {
		r.Post("/", h.createReclamation)
		r.Get("/", h.listReclamations)
		r.Get("/user/{userId}", h.listReclamationsByUser)
		r.Get("/status/{status}", h.listReclamationsByStatus)
		r.Get("/statut/{status}", h.listReclamationsByStatus)
		r.Get("/{id}", h.getReclamation)
		r.Put("/{id}", h.updateReclamation)
		r.Put("/{id}/status", h.setStatus)
		r.Put("/{id}/statut", h.setStatus)
		r.Patch("/{id}/take-in-charge", h.takeInCharge)
		r.Patch("/{id}/prendre-en-charge", h.takeInCharge)
		r.Patch("/{id}/process", h.process)
		r.Patch("/{id}/traiter", h.process)
		r.Delete("/{id}", h.deleteReclamation)
	})

	r.Route("/api/notifications", func(r chi.Router) {
		if h.dispatcher != nil {
			r.Post("/", h.createNotification)
		}
		r.Get("/", h.listNotifications)
		r.Get("/reclamation/{reclamationId}", h.listNotificationsByReclamation)
		r.Get("/user/{userId}", h.listNotificationsByUser)
		r.Get("/{id}", h.getNotification)
	})

	if h.logs != nil {
		r.Get("/api/logs", h.listLogs)
	}

	// Health & metrics
	r.Get("/healthz", h.healthz)
	metricsOutput := deps.MetricsOutput
	if metricsOutput == nil {
		metricsOutput = promhttp.Handler()
	}
	r.Handle("/metrics", metricsOutput)

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
