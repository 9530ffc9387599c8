package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/wire"
)

// ReclamationCmd returns the reclamation command
func ReclamationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reclamation",
		Aliases: []string{"rec"},
		Short:   "Manage reclamations (customer complaints)",
		Long: `Create, list and move reclamations through their lifecycle:

  RECEIVED → IN_PROGRESS → PROCESSED

Every status change records a notification for the owner.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := Bootstrap(cmd, args); err != nil {
				return err
			}
			return services()
		},
	}

	cmd.AddCommand(reclamationCreateCmd())
	cmd.AddCommand(reclamationListCmd())
	cmd.AddCommand(reclamationShowCmd())
	cmd.AddCommand(reclamationUpdateCmd())
	cmd.AddCommand(reclamationTakeCmd())
	cmd.AddCommand(reclamationProcessCmd())
	cmd.AddCommand(reclamationSetStatusCmd())
	cmd.AddCommand(reclamationDeleteCmd())
	return cmd
}

func reclamationCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "File a new reclamation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			description, _ := cmd.Flags().GetString("description")

			_, err := wire.ReclamationAdapter().Create(NewContext(cmd), userID, args[0], description)
			return err
		},
	}
	cmd.Flags().StringP("user", "u", "", "Owner user id (required)")
	cmd.Flags().StringP("description", "d", "", "Reclamation description (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func reclamationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reclamations",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			status, _ := cmd.Flags().GetString("status")

			_, err := wire.ReclamationAdapter().List(NewContext(cmd), userID, status)
			return err
		},
	}
	cmd.Flags().StringP("user", "u", "", "Filter by owner user id")
	cmd.Flags().StringP("status", "s", "", "Filter by status (RECEIVED, IN_PROGRESS, PROCESSED)")
	return cmd
}

func reclamationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [reclamation-id]",
		Short: "Show reclamation details and its notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReclamationAdapter().Show(NewContext(cmd), args[0])
			return err
		},
	}
}

func reclamationUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [reclamation-id]",
		Short: "Edit title, description or owner",
		Long:  "Edit a reclamation. Fields not given keep their current value. Status is never changed here.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext(cmd)
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("user") {
				return fmt.Errorf("nothing to update: pass --title, --description or --user")
			}

			current, err := wire.ReclamationService().GetReclamation(ctx, args[0])
			if err != nil {
				return err
			}

			req := primary.UpdateReclamationRequest{
				ID:          current.ID,
				Title:       current.Title,
				Description: current.Description,
				UserID:      current.UserID,
			}
			if flags.Changed("title") {
				req.Title, _ = flags.GetString("title")
			}
			if flags.Changed("description") {
				req.Description, _ = flags.GetString("description")
			}
			if flags.Changed("user") {
				req.UserID, _ = flags.GetString("user")
			}

			_, err = wire.ReclamationAdapter().Update(ctx, req)
			return err
		},
	}
	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().StringP("user", "u", "", "New owner user id")
	return cmd
}

func reclamationTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "take [reclamation-id]",
		Aliases: []string{"take-in-charge"},
		Short:   "Take a RECEIVED reclamation in charge (→ IN_PROGRESS)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReclamationAdapter().TakeInCharge(NewContext(cmd), args[0])
			return err
		},
	}
}

func reclamationProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [reclamation-id]",
		Short: "Mark a reclamation PROCESSED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReclamationAdapter().Process(NewContext(cmd), args[0])
			return err
		},
	}
}

func reclamationSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status [reclamation-id] [status]",
		Short: "Move a reclamation to a named status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReclamationAdapter().SetStatus(NewContext(cmd), args[0], args[1])
			return err
		},
	}
}

func reclamationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [reclamation-id]",
		Short: "Delete a reclamation (its notifications are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReclamationAdapter().Delete(NewContext(cmd), args[0])
		},
	}
}
