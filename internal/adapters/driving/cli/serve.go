package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/api"
	"github.com/custodia-labs/campus-assistant/internal/app"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the question answering HTTP API.

The server accepts connections immediately. Until the index is ready,
POST /ask answers 503 and GET /health reports the current index state.
If the index cannot be loaded or built the process exits.

Endpoints:
  POST /ask       {"question": "..."}
  GET  /health
  POST /rebuild   {"urls": ["https://..."]}`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		fmt.Sprintf("listen address (default from config, else %s)", api.DefaultAddr))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.SetTimestamps(true)

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.Settings.Server.Addr
	}

	return serve(ctx, a, addr, func(bound string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Campus assistant listening on http://%s\n", bound)
	})
}

// serve runs the HTTP API while the index starts in the background. It
// returns when ctx is cancelled, serving fails, or the index fails to start.
func serve(ctx context.Context, a *app.App, addr string, listening func(addr string)) error {
	srv, err := api.NewServer(api.Ports{Answer: a.Answer, Index: a.Index}, api.Config{Addr: addr})
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	if listening != nil {
		listening(srv.Addr())
	}

	a.WatchPrompts(ctx)
	indexDone := a.StartIndex(ctx)

	shutdown := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}

	for {
		select {
		case err, ok := <-indexDone:
			indexDone = nil
			if !ok {
				continue
			}
			if err != nil {
				logger.Error("index failed: %v", err)
				shutdown() //nolint:errcheck
				return fmt.Errorf("index: %w", err)
			}
			logger.Info("index ready")
		case err := <-srv.Err():
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
			logger.Info("shutting down")
			return shutdown()
		}
	}
}
