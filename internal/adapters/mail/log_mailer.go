package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/reclam/internal/logging"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// LogMailer implements secondary.Mailer by writing each message to the log.
// It is the default transport for local runs.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	if from == "" {
		from = DefaultFrom
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &LogMailer{from: from, logger: logger.With("component", "mail")}
}

// Send logs the message. Only a missing recipient fails.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient address: %w", sentinel.ErrValidation)
	}
	m.logger.InfoContext(ctx, "mail delivered",
		"from", m.from,
		"to", to,
		"subject", subject,
		"body_bytes", len(body),
	)
	return nil
}

// Ensure LogMailer implements the interface
var _ secondary.Mailer = (*LogMailer)(nil)
