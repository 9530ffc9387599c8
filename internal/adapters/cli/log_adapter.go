package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/reclam/internal/ports/primary"
)

// LogAdapter translates CLI operations to LogService calls.
type LogAdapter struct {
	service primary.LogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter.
func NewLogAdapter(service primary.LogService, out io.Writer) *LogAdapter {
	return &LogAdapter{service: service, out: out}
}

// Tail prints the most recent entries, oldest first.
func (a *LogAdapter) Tail(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	entries, err := a.service.ListLogs(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No log entries found.")
		return entries, nil
	}

	fmt.Fprintf(a.out, "Found %d log entries:\n\n", len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		a.printEntry(entries[i])
	}
	return entries, nil
}

// Follow polls for entries newer than the last one seen until ctx is done.
func (a *LogAdapter) Follow(ctx context.Context, filters primary.LogFilters, interval time.Duration) error {
	entries, err := a.Tail(ctx, filters)
	if err != nil {
		return err
	}

	var last time.Time
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.ID] = true
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		fresh, err := a.service.ListLogs(ctx, filters)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(a.out, "Error fetching logs: %v\n", err)
			continue
		}
		for i := len(fresh) - 1; i >= 0; i-- {
			e := fresh[i]
			if seen[e.ID] || e.Timestamp.Before(last) {
				continue
			}
			seen[e.ID] = true
			last = e.Timestamp
			a.printEntry(e)
		}
	}
}

// Prune deletes entries older than days.
func (a *LogAdapter) Prune(ctx context.Context, days int) (int, error) {
	count, err := a.service.PruneLogs(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune logs: %w", err)
	}

	if count == 0 {
		fmt.Fprintf(a.out, "No log entries older than %d days found.\n", days)
	} else {
		fmt.Fprintf(a.out, "✓ Pruned %d log entries older than %d days.\n", count, days)
	}
	return count, nil
}

// printEntry writes: timestamp | actor | action | entity_type/entity_id | field change
func (a *LogAdapter) printEntry(entry *primary.LogEntry) {
	fmt.Fprintf(a.out, "%s | %-12s | %s %s | %s/%s",
		formatTime(entry.Timestamp),
		orDash(entry.ActorID),
		actionIcon(entry.Action),
		entry.Action,
		entry.EntityType,
		entry.EntityID,
	)
	if entry.Action == "update" && entry.FieldName != "" {
		fmt.Fprintf(a.out, " | %s: %s -> %s", entry.FieldName, entry.OldValue, entry.NewValue)
	}
	fmt.Fprintln(a.out)
}

func actionIcon(action string) string {
	switch action {
	case "create":
		return "+"
	case "update":
		return "~"
	case "delete":
		return "-"
	default:
		return "?"
	}
}
