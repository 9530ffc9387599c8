package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/reclam/internal/wire"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Serve the reclamation and notification REST API, /healthz and /metrics.

On SIGINT/SIGTERM the server stops accepting requests, then waits for
notification deliveries still in flight before exiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services(); err != nil {
				return err
			}
			addr := wire.Config().HTTPAddr
			if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
				addr = flagAddr
			}
			return serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config http_addr)")
	return cmd
}

func serve(ctx context.Context, addr string) error {
	logger := wire.Logger()
	server := &http.Server{
		Addr:              addr,
		Handler:           wire.HTTPHandler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	serveErr := g.Wait()

	// Requests are done; let pending deliveries finish.
	if err := wire.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown incomplete", "error", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}
