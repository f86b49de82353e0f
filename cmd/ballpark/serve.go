package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/ballpark/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the game API over HTTP: REST endpoints under /api/game, live
updates over SSE and WebSocket, the OpenAPI document and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cfg, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		logger := app.Logger

		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("rate-limit") {
			cfg.Server.RateLimit, _ = flags.GetFloat64("rate-limit")
		}
		if flags.Changed("burst") {
			cfg.Server.Burst, _ = flags.GetInt("burst")
		}

		opts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.Server.Metrics {
			opts = append(opts, httpAdapter.WithMetrics(app.Metrics, app.Registry))
		}
		if cfg.Server.RateLimit > 0 {
			opts = append(opts, httpAdapter.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst))
		}

		api := httpAdapter.NewServer(app.Engine, opts...)
		defer api.Close()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("ballpark server listening",
				"addr", srv.Addr,
				"store", cfg.Store.Kind,
				"provider", cfg.Provider.Kind,
			)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err

		case <-ctx.Done():
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
			logger.Info("ballpark server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default :8000)")
	serveCmd.Flags().Float64("rate-limit", 0, "Requests per second allowed per client, 0 keeps the configured value")
	serveCmd.Flags().Int("burst", 0, "Burst size of the per-client rate limit")
}
