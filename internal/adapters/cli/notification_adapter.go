package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/reclam/internal/ports/primary"
)

// NotificationAdapter translates CLI operations to NotificationService calls.
type NotificationAdapter struct {
	service primary.NotificationService
	out     io.Writer
}

// NewNotificationAdapter creates a new NotificationAdapter.
func NewNotificationAdapter(service primary.NotificationService, out io.Writer) *NotificationAdapter {
	return &NotificationAdapter{service: service, out: out}
}

// List lists notifications, newest first.
func (a *NotificationAdapter) List(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	notifs, err := a.service.ListNotifications(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	if len(notifs) == 0 {
		fmt.Fprintln(a.out, "No notifications found.")
		return notifs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tRECLAMATION\tUSER\tTYPE\tSTATUS\tCREATED")
	fmt.Fprintln(w, "--\t-----------\t----\t----\t------\t-------")
	for _, n := range notifs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.ID,
			n.ReclamationID,
			n.UserID,
			n.Type,
			colorStatus(n.Status),
			formatTime(n.CreatedAt),
		)
	}
	w.Flush()
	return notifs, nil
}

// Show displays a notification including its rendered message.
func (a *NotificationAdapter) Show(ctx context.Context, id string) (*primary.Notification, error) {
	n, err := a.service.GetNotification(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	fmt.Fprintf(a.out, "\nNotification: %s\n", n.ID)
	fmt.Fprintf(a.out, "Reclamation:  %s\n", n.ReclamationID)
	fmt.Fprintf(a.out, "Type:         %s (%s)\n", n.Type, n.ActionCode)
	fmt.Fprintf(a.out, "Recipient:    %s <%s>\n", orDash(n.RecipientName), orDash(n.RecipientEmail))
	fmt.Fprintf(a.out, "Status:       %s\n", colorStatus(n.Status))
	fmt.Fprintf(a.out, "Created:      %s\n", formatTime(n.CreatedAt))
	if n.SentAt != nil {
		fmt.Fprintf(a.out, "Sent:         %s\n", formatTime(*n.SentAt))
	}
	if n.ErrorMessage != "" {
		fmt.Fprintf(a.out, "Error:        %s\n", n.ErrorMessage)
	}
	fmt.Fprintf(a.out, "\nSubject: %s\n\n%s\n\n", n.Subject, n.Body)

	return n, nil
}
