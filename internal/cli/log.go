package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the activity log",
		Long:  "View and manage the activity log (audit trail of reclamation changes)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := Bootstrap(cmd, args); err != nil {
				return err
			}
			return services()
		},
	}

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent activity",
		Long:  "Show recent activity log entries (default 50)",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := logFiltersFromFlags(cmd)
			if filters.Limit <= 0 {
				filters.Limit = 50
			}

			ctx := NewContext(cmd)
			if follow, _ := cmd.Flags().GetBool("follow"); follow {
				return wire.LogAdapter().Follow(ctx, filters, time.Second)
			}
			_, err := wire.LogAdapter().Tail(ctx, filters)
			return err
		},
	}
	tail.Flags().IntP("limit", "n", 50, "Number of entries")
	tail.Flags().String("by", "", "Filter by actor")
	tail.Flags().String("type", "", "Filter by entity type")
	tail.Flags().String("action", "", "Filter by action (create, update, delete)")
	tail.Flags().BoolP("follow", "f", false, "Poll for new entries until interrupted")

	show := &cobra.Command{
		Use:   "show [entity-id]",
		Short: "Show activity for a specific entity",
		Long:  "Show activity history for a specific entity (e.g., REC-…)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := logFiltersFromFlags(cmd)
			if len(args) > 0 {
				filters.EntityID = args[0]
			}
			_, err := wire.LogAdapter().Tail(NewContext(cmd), filters)
			return err
		},
	}
	show.Flags().IntP("limit", "n", 0, "Number of entries (0 = all)")
	show.Flags().String("by", "", "Filter by actor")

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old log entries",
		Long:  "Delete log entries older than the specified number of days (default 30)",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				days = 30
			}
			_, err := wire.LogAdapter().Prune(NewContext(cmd), days)
			return err
		},
	}
	prune.Flags().Int("days", 30, "Delete entries older than this many days")

	cmd.AddCommand(tail, show, prune)
	return cmd
}

func logFiltersFromFlags(cmd *cobra.Command) primary.LogFilters {
	var filters primary.LogFilters
	filters.Limit, _ = cmd.Flags().GetInt("limit")
	filters.ActorID, _ = cmd.Flags().GetString("by")
	if cmd.Flags().Lookup("type") != nil {
		filters.EntityType, _ = cmd.Flags().GetString("type")
	}
	if cmd.Flags().Lookup("action") != nil {
		filters.Action, _ = cmd.Flags().GetString("action")
	}
	return filters
}
