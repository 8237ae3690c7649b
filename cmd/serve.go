package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/api"
	"github.com/nexus-sapiens/nexus/internal/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arrancar el servidor HTTP de la API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "dirección de escucha (por defecto la de la configuración)")
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the HTTP API server and blocks until SIGINT/SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	if cfg.Tracing.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.Tracing.Endpoint,
			Environment: cfg.Tracing.Environment,
			ServiceName: cfg.Tracing.ServiceName,
		}, logger)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Warn("trace shutdown error", "error", err)
			}
		}()
	}

	a, err := setup(cfg, logger)
	if err != nil {
		return err
	}

	srv, err := api.NewServer(api.Config{
		Orchestrator: a.Orchestrator,
		Registry:     a.Registry,
		Progress:     a.Progress,
		Credentials:  a.Credentials,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServeAddr
	}
	return srv.Run(ctx, addr)
}
