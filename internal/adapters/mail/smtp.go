// Package mail contains Mailer adapters: SMTP delivery and a log-only mailer.
package mail

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// DefaultFrom is the sender used when none is configured.
const DefaultFrom = "noreply@reclamation-service.com"

// DefaultTimeout bounds one SMTP conversation.
const DefaultTimeout = 30 * time.Second

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Addr     string // host:port
	Username string // empty disables AUTH
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer implements secondary.Mailer over an SMTP relay.
// STARTTLS is used when the relay offers it.
type SMTPMailer struct {
	cfg  SMTPConfig
	host string
	opts []gomail.Option
}

// NewSMTPMailer creates a mailer for the relay at cfg.Addr.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	host, rawPort, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP address %q: %v: %w", cfg.Addr, err, sentinel.ErrValidation)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", rawPort, sentinel.ErrValidation)
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	if err := gomail.NewMsg().From(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %v: %w", cfg.From, err, sentinel.ErrValidation)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []gomail.Option{
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithPort(port),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	return &SMTPMailer{cfg: cfg, host: host, opts: opts}, nil
}

// Send delivers one plain-text message to a single recipient.
// Each call uses its own client so concurrent deliveries never share a connection.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient address: %w", sentinel.ErrValidation)
	}

	msg, err := m.message(to, subject, body)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("smtp client for %s: %v: %w", m.cfg.Addr, err, sentinel.ErrUpstreamUnavailable)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s via %s: %v: %w", to, m.cfg.Addr, err, sentinel.ErrUpstreamUnavailable)
	}
	return nil
}

// message builds an 8bit UTF-8 plain-text message.
func (m *SMTPMailer) message(to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg(gomail.WithEncoding(gomail.NoEncoding))
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %v: %w", m.cfg.From, err, sentinel.ErrValidation)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %v: %w", to, err, sentinel.ErrValidation)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

// Ensure SMTPMailer implements the interface
var _ secondary.Mailer = (*SMTPMailer)(nil)
