package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/sentinel"
)

// lifecycleEventBody is the payload other services post when a reclamation
// changes; actionCode is accepted as an alias of action.
type lifecycleEventBody struct {
	ReclamationID    flexibleID `json:"reclamationId"`
	ReclamationTitle string     `json:"reclamationTitle"`
	UserID           flexibleID `json:"userId"`
	UserName         string     `json:"userName"`
	UserEmail        string     `json:"userEmail"`
	Action           string     `json:"action"`
	ActionCode       string     `json:"actionCode"`
	PreviousStatus   string     `json:"previousStatus"`
	NewStatus        string     `json:"newStatus"`
}

func (b lifecycleEventBody) action() string {
	if b.Action != "" {
		return b.Action
	}
	return b.ActionCode
}

func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var body lifecycleEventBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	switch {
	case strings.TrimSpace(string(body.ReclamationID)) == "":
		writeError(w, fmt.Errorf("reclamationId is required: %w", sentinel.ErrValidation))
		return
	case strings.TrimSpace(string(body.UserID)) == "":
		writeError(w, fmt.Errorf("userId is required: %w", sentinel.ErrValidation))
		return
	}

	n, err := h.dispatcher.Dispatch(r.Context(), primary.LifecycleEvent{
		ReclamationID:    string(body.ReclamationID),
		ReclamationTitle: body.ReclamationTitle,
		UserID:           string(body.UserID),
		UserEmail:        body.UserEmail,
		UserName:         body.UserName,
		ActionCode:       body.action(),
		PreviousStatus:   body.PreviousStatus,
		NewStatus:        body.NewStatus,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeNotifications(w, r, primary.NotificationFilters{
		ReclamationID: q.Get("reclamationId"),
		UserID:        q.Get("userId"),
		Status:        q.Get("status"),
	})
}

func (h *Handler) listNotificationsByReclamation(w http.ResponseWriter, r *http.Request) {
	h.writeNotifications(w, r, primary.NotificationFilters{ReclamationID: chi.URLParam(r, "reclamationId")})
}

func (h *Handler) listNotificationsByUser(w http.ResponseWriter, r *http.Request) {
	h.writeNotifications(w, r, primary.NotificationFilters{UserID: chi.URLParam(r, "userId")})
}

func (h *Handler) writeNotifications(w http.ResponseWriter, r *http.Request, filters primary.NotificationFilters) {
	notifs, err := h.notifications.ListNotifications(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifs == nil {
		notifs = []*primary.Notification{}
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (h *Handler) getNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.GetNotification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.LogFilters{
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		ActorID:    q.Get("actor"),
		Action:     q.Get("action"),
		Limit:      100,
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, fmt.Errorf("limit must be a positive integer: %w", sentinel.ErrValidation))
			return
		}
		filters.Limit = limit
	}

	entries, err := h.logs.ListLogs(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*primary.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
