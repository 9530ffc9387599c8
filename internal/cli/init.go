package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/config"
	"github.com/example/reclam/internal/db"
	"github.com/example/reclam/internal/logging"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize reclam in the current directory",
		Long: `Write .reclam/config.json with the given settings and create the database
with the required schema. Secrets such as the SMTP password are read from the
environment only (RECLAM_SMTP_PASSWORD) and never written to the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = wd
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(config.Path(dir)); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.Path(dir))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check config: %w", err)
			}

			cfg := config.Default()
			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.DBPath, _ = flags.GetString("db")
			}
			if flags.Changed("identity-url") {
				cfg.IdentityURL, _ = flags.GetString("identity-url")
			}
			if flags.Changed("users-file") {
				cfg.UsersFile, _ = flags.GetString("users-file")
			}
			if flags.Changed("mail-mode") {
				cfg.MailMode, _ = flags.GetString("mail-mode")
			}
			if flags.Changed("smtp-addr") {
				cfg.SMTPAddr, _ = flags.GetString("smtp-addr")
			}
			if flags.Changed("http-addr") {
				cfg.HTTPAddr, _ = flags.GetString("http-addr")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", config.Path(dir))

			database, err := db.Open(cfg.DBPath, logging.Discard())
			if err != nil {
				return err
			}
			defer database.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Database initialized at %s\n", cfg.DBPath)

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), `  reclam reclamation create "Late delivery" --user 42 --description "..."`)
			fmt.Fprintln(cmd.OutOrStdout(), "  reclam serve")
			return nil
		},
	}

	cmd.Flags().String("db", "", "Database path (default ~/.reclam/reclam.db)")
	cmd.Flags().String("identity-url", "", "Base URL of the identity service")
	cmd.Flags().String("users-file", "", "JSON users file used when no identity service is set")
	cmd.Flags().String("mail-mode", config.MailModeLog, "Delivery mode: log or smtp")
	cmd.Flags().String("smtp-addr", "", "SMTP relay host:port")
	cmd.Flags().String("http-addr", "", "Listen address for reclam serve")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}
