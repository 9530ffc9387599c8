// Package cli provides the cobra commands of the reclam binary.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/reclam/internal/ctxutil"
	"github.com/example/reclam/internal/wire"
)

// ActorEnv names the default actor for CLI operations.
const ActorEnv = "RECLAM_ACTOR"

// actorID is the --actor value for the current invocation.
var actorID string

// AddGlobalFlags registers the flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	defaultActor := os.Getenv(ActorEnv)
	if defaultActor == "" {
		defaultActor = os.Getenv("USER")
	}
	root.PersistentFlags().StringVar(&actorID, "actor", defaultActor, "Actor recorded in the activity log (env "+ActorEnv+")")
	root.PersistentFlags().String("dir", "", "Directory holding .reclam/config.json (default: working directory)")
}

// Bootstrap is the root PersistentPreRunE: it points wire at the chosen config
// directory. Services are built lazily by the commands that need them.
func Bootstrap(cmd *cobra.Command, args []string) error {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		wire.SetConfigDir(dir)
	}
	return nil
}

// NewContext derives the command context with the CLI actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithOrigin(ctx, ctxutil.OriginCLI, actorID)
}

// services initializes wire, surfacing configuration errors as command errors.
func services() error {
	return wire.Init()
}
