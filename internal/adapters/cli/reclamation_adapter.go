// Package cli contains output adapters that translate CLI operations into
// primary port calls and print human-readable results.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/reclam/internal/ports/primary"
)

// ReclamationAdapter is a thin adapter that translates CLI operations to ReclamationService calls.
// Notifications are optional and only used by Show.
type ReclamationAdapter struct {
	service       primary.ReclamationService
	notifications primary.NotificationService
	out           io.Writer
}

// NewReclamationAdapter creates a new ReclamationAdapter.
func NewReclamationAdapter(service primary.ReclamationService, notifications primary.NotificationService, out io.Writer) *ReclamationAdapter {
	return &ReclamationAdapter{
		service:       service,
		notifications: notifications,
		out:           out,
	}
}

// Create files a new reclamation.
func (a *ReclamationAdapter) Create(ctx context.Context, userID, title, description string) (*primary.Reclamation, error) {
	rec, err := a.service.CreateReclamation(ctx, primary.CreateReclamationRequest{
		Title:       title,
		Description: description,
		UserID:      userID,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created reclamation %s: %s\n", rec.ID, rec.Title)
	fmt.Fprintf(a.out, "  Owner:  %s\n", rec.UserID)
	fmt.Fprintf(a.out, "  Status: %s\n", colorStatus(rec.Status))
	return rec, nil
}

// List lists reclamations with optional owner and status filters.
func (a *ReclamationAdapter) List(ctx context.Context, userID, status string) ([]*primary.Reclamation, error) {
	recs, err := a.service.ListReclamations(ctx, primary.ReclamationFilters{UserID: userID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}

	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No reclamations found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "File one with:")
		fmt.Fprintln(a.out, `  reclam reclamation create --user 42 --title "Late delivery" --description "..."`)
		return recs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tSTATUS\tTITLE\tUPDATED")
	fmt.Fprintln(w, "--\t----\t------\t-----\t-------")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.UserID,
			colorStatus(r.Status),
			truncate(r.Title, 40),
			formatTime(r.UpdatedAt),
		)
	}
	w.Flush()
	return recs, nil
}

// Show displays one reclamation and, when available, its notifications.
func (a *ReclamationAdapter) Show(ctx context.Context, id string) (*primary.Reclamation, error) {
	rec, err := a.service.GetReclamation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reclamation: %w", err)
	}

	fmt.Fprintf(a.out, "\nReclamation: %s\n", rec.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", rec.Title)
	fmt.Fprintf(a.out, "Description: %s\n", rec.Description)
	fmt.Fprintf(a.out, "Owner:       %s\n", rec.UserID)
	fmt.Fprintf(a.out, "Status:      %s\n", colorStatus(rec.Status))
	fmt.Fprintf(a.out, "Created:     %s\n", formatTime(rec.CreatedAt))
	fmt.Fprintf(a.out, "Updated:     %s\n", formatTime(rec.UpdatedAt))

	if a.notifications != nil {
		notifs, err := a.notifications.ListNotifications(ctx, primary.NotificationFilters{ReclamationID: rec.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}
		fmt.Fprintf(a.out, "\nNotifications (%d):\n", len(notifs))
		for _, n := range notifs {
			fmt.Fprintf(a.out, "  %s  %-28s %s\n", n.ID, n.Type, colorStatus(n.Status))
			if n.ErrorMessage != "" {
				fmt.Fprintf(a.out, "      %s\n", faint.Sprint(n.ErrorMessage))
			}
		}
	}
	fmt.Fprintln(a.out)

	return rec, nil
}

// Update replaces title, description and owner.
func (a *ReclamationAdapter) Update(ctx context.Context, req primary.UpdateReclamationRequest) (*primary.Reclamation, error) {
	rec, err := a.service.UpdateReclamation(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Reclamation %s updated\n", rec.ID)
	return rec, nil
}

// TakeInCharge moves a reclamation to IN_PROGRESS.
func (a *ReclamationAdapter) TakeInCharge(ctx context.Context, id string) (*primary.Reclamation, error) {
	rec, err := a.service.TakeInCharge(ctx, id)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Reclamation %s taken in charge\n", rec.ID)
	fmt.Fprintf(a.out, "  Status: %s\n", colorStatus(rec.Status))
	return rec, nil
}

// Process moves a reclamation to PROCESSED.
func (a *ReclamationAdapter) Process(ctx context.Context, id string) (*primary.Reclamation, error) {
	rec, err := a.service.Process(ctx, id)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Reclamation %s processed\n", rec.ID)
	fmt.Fprintf(a.out, "  Status: %s\n", colorStatus(rec.Status))
	return rec, nil
}

// SetStatus overwrites the status without lifecycle guards.
func (a *ReclamationAdapter) SetStatus(ctx context.Context, id, status string) (*primary.Reclamation, error) {
	before, err := a.service.GetReclamation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reclamation: %w", err)
	}

	rec, err := a.service.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Reclamation %s status set\n", rec.ID)
	fmt.Fprintf(a.out, "  %s → %s\n", colorStatus(before.Status), colorStatus(rec.Status))
	return rec, nil
}

// Delete removes a reclamation. Its notifications are kept.
func (a *ReclamationAdapter) Delete(ctx context.Context, id string) error {
	rec, err := a.service.GetReclamation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get reclamation: %w", err)
	}

	if err := a.service.DeleteReclamation(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted reclamation %s: %s\n", rec.ID, rec.Title)
	return nil
}
