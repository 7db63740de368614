package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/cli"
	httpAdapter "github.com/aretw0/narrator/pkg/adapters/http"
	"github.com/aretw0/narrator/pkg/adapters/memory"
	"github.com/aretw0/narrator/pkg/observability"
	"github.com/aretw0/narrator/pkg/persistence/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve [story]",
	Short: "Start the HTTP server",
	Long:  `Serves the tool API as JSON over HTTP, with health, info, graph and Prometheus metrics endpoints.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		logger := newLogger(cfg)

		backend := cli.OpenBackend(cfg, nil)
		defer backend.Close()

		metrics := observability.NewMetrics()
		store := backend.Store
		if store == nil {
			store = memory.NewStore()
		}
		backend.Store = middleware.Chain(store, middleware.NewMetricsMiddleware(metrics.Registry()))

		streams := httpAdapter.NewStreamManager(logger)
		engine, err := cli.NewEngine(cfg, logger, backend,
			observability.ChainHooks(metrics.Hooks(), streams.Hooks()))
		if err != nil {
			return err
		}

		handler := httpAdapter.NewHandler(cli.NewService(engine, cfg, logger),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting narrator server", "addr", srv.Addr, "story", cfg.StoryPath, "sessions", backend.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("narrator server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
