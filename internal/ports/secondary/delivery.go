package secondary

import "context"

// Mailer defines the secondary port for message transport.
type Mailer interface {
	// Send delivers one message. A non-nil error is the failure detail recorded
	// on the notification.
	Send(ctx context.Context, to, subject, body string) error
}
