package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/cli"
	"github.com/example/reclam/internal/version"
	"github.com/example/reclam/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "reclam",
		Short:   "reclam - reclamation tracking with owner notifications",
		Version: version.String(),
		Long: `reclam tracks customer reclamations through RECEIVED, IN_PROGRESS and
PROCESSED, notifying the owner by mail at every step.

Use the CLI directly or run "reclam serve" for the REST API.`,
		PersistentPreRunE: cli.Bootstrap,
		SilenceUsage:      true,
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ReclamationCmd())
	rootCmd.AddCommand(cli.NotificationCmd())
	rootCmd.AddCommand(cli.LogCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// Deliveries started by this invocation finish before the process exits.
	if shutdownErr := wire.Shutdown(context.Background()); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
