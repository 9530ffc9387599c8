package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/wire"
)

// NotificationCmd returns the notification command
func NotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notif"},
		Short:   "Inspect notifications sent to reclamation owners",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := Bootstrap(cmd, args); err != nil {
				return err
			}
			return services()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			reclamationID, _ := cmd.Flags().GetString("reclamation")
			userID, _ := cmd.Flags().GetString("user")
			status, _ := cmd.Flags().GetString("status")

			_, err := wire.NotificationAdapter().List(NewContext(cmd), primary.NotificationFilters{
				ReclamationID: reclamationID,
				UserID:        userID,
				Status:        status,
			})
			return err
		},
	}
	list.Flags().StringP("reclamation", "r", "", "Filter by reclamation id")
	list.Flags().StringP("user", "u", "", "Filter by owner user id")
	list.Flags().StringP("status", "s", "", "Filter by status (PENDING, SENT, FAILED)")

	show := &cobra.Command{
		Use:   "show [notification-id]",
		Short: "Show a notification with its rendered message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.NotificationAdapter().Show(NewContext(cmd), args[0])
			return err
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
