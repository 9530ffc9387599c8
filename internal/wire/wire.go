// Package wire provides dependency injection for the reclam application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cliadapter "github.com/example/reclam/internal/adapters/cli"
	"github.com/example/reclam/internal/adapters/httpapi"
	"github.com/example/reclam/internal/adapters/identity"
	"github.com/example/reclam/internal/adapters/mail"
	"github.com/example/reclam/internal/adapters/sqlite"
	"github.com/example/reclam/internal/app"
	"github.com/example/reclam/internal/config"
	"github.com/example/reclam/internal/db"
	"github.com/example/reclam/internal/logging"
	"github.com/example/reclam/internal/metrics"
	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/telemetry"
)

var (
	configDir string

	cfg          *config.Config
	logger       *slog.Logger
	database     *sql.DB
	appMetrics   *metrics.Metrics
	otelShutdown func(context.Context) error

	reclamationRepo     *sqlite.ReclamationRepository
	dispatcher          *app.NotificationDispatcherImpl
	reclamationService  primary.ReclamationService
	notificationService primary.NotificationService
	logService          primary.LogService

	once    sync.Once
	initErr error
)

// SetConfigDir selects the directory whose .reclam/config.json is loaded.
// It must be called before the first service is requested; the default is the
// working directory.
func SetConfigDir(dir string) {
	configDir = dir
}

// Init builds every singleton. Accessors call it implicitly; commands call it
// up front so configuration errors surface as normal command errors.
func Init() error {
	once.Do(initServices)
	return initErr
}

func mustInit() {
	if err := Init(); err != nil {
		log.Fatalf("failed to initialize reclam: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	initErr = buildServices()
}

func buildServices() error {
	dir := configDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	var err error
	cfg, err = config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err = logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}

	otelShutdown, err = telemetry.Setup(context.Background(), cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	appMetrics = metrics.New(prometheus.DefaultRegisterer)

	database, err = db.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	reclamationRepo = sqlite.NewReclamationRepository(database)
	notificationRepo := sqlite.NewNotificationRepository(database)
	activityLogRepo := sqlite.NewActivityLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(activityLogRepo)

	gate, err := newIdentityGate(cfg, logger)
	if err != nil {
		return err
	}
	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}

	// Create services (primary ports implementation)
	dispatcher = app.NewNotificationDispatcher(notificationRepo, mailer, cfg.DeliveryWorkers, appMetrics, logger)
	reclamationService = app.NewReclamationService(reclamationRepo, gate, dispatcher, logWriter, appMetrics, logger)
	notificationService = app.NewNotificationService(notificationRepo)
	logService = app.NewLogService(activityLogRepo)
	return nil
}

// newIdentityGate prefers the remote identity service; without one it serves
// users from the local directory file.
func newIdentityGate(cfg *config.Config, logger *slog.Logger) (secondary.IdentityGate, error) {
	if cfg.IdentityURL != "" {
		logger.Debug("using remote identity service", "url", cfg.IdentityURL)
		return identity.NewClient(cfg.IdentityURL, cfg.IdentityTimeout.Std()), nil
	}

	dir, err := identity.LoadDirectory(cfg.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load users file: %w", err)
	}
	if dir.Len() == 0 {
		logger.Warn("no identity service configured and no users loaded; every owner will be rejected")
	}
	return dir, nil
}

func newMailer(cfg *config.Config, logger *slog.Logger) (secondary.Mailer, error) {
	if strings.EqualFold(cfg.MailMode, config.MailModeSMTP) {
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Addr:     cfg.SMTPAddr,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	return mail.NewLogMailer(cfg.MailFrom, logger), nil
}

// Config returns the effective configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mustInit()
	return logger
}

// ReclamationService returns the singleton ReclamationService instance.
func ReclamationService() primary.ReclamationService {
	mustInit()
	return reclamationService
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	mustInit()
	return notificationService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	mustInit()
	return logService
}

// HTTPHandler returns the REST router over the singleton services.
func HTTPHandler() http.Handler {
	mustInit()
	return httpapi.NewRouter(httpapi.Deps{
		Reclamations:  reclamationService,
		Notifications: notificationService,
		Dispatcher:    dispatcher,
		Logs:          logService,
		Health:        reclamationRepo,
		Metrics:       appMetrics,
		MetricsOutput: promhttp.Handler(),
		Logger:        logger,
	})
}

// Shutdown waits for in-flight deliveries (bounded by the configured drain
// timeout), flushes spans and closes the database. It is a no-op when nothing
// was initialized. When the drain does not finish the database is left open so
// abandoned deliveries can still record their outcome before the process exits.
func Shutdown(ctx context.Context) error {
	if database == nil {
		return nil
	}

	var errs []error
	drained := true
	if dispatcher != nil {
		drainCtx, cancel := context.WithTimeout(ctx, cfg.DrainTimeout.Std())
		err := dispatcher.Shutdown(drainCtx)
		cancel()
		if err != nil {
			drained = false
			errs = append(errs, fmt.Errorf("notification drain: %w", err))
		}
	}
	if otelShutdown != nil {
		if err := otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}
	if !drained {
		logger.Warn("notification drain incomplete; leaving database open", "abandoned", dispatcher.InFlight())
		return errors.Join(errs...)
	}
	if err := database.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	database = nil
	return errors.Join(errs...)
}

// ReclamationAdapter returns a new ReclamationAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ReclamationAdapter() *cliadapter.ReclamationAdapter {
	return ReclamationAdapterWithOutput(os.Stdout)
}

// ReclamationAdapterWithOutput returns a new ReclamationAdapter writing to the given output.
func ReclamationAdapterWithOutput(out io.Writer) *cliadapter.ReclamationAdapter {
	mustInit()
	return cliadapter.NewReclamationAdapter(reclamationService, notificationService, out)
}

// NotificationAdapter returns a new NotificationAdapter writing to stdout.
func NotificationAdapter() *cliadapter.NotificationAdapter {
	mustInit()
	return cliadapter.NewNotificationAdapter(notificationService, os.Stdout)
}

// LogAdapter returns a new LogAdapter writing to stdout.
func LogAdapter() *cliadapter.LogAdapter {
	mustInit()
	return cliadapter.NewLogAdapter(logService, os.Stdout)
}
