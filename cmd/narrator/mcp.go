package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/cli"
	"github.com/aretw0/narrator/pkg/adapters/mcp"
	"github.com/aretw0/narrator/pkg/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [story]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Narrator as an MCP server so AI agents can run the story as tools:
start_game, get_scene, choose_option and reset_game.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Stdout carries JSON-RPC; every log goes to stderr.
		log.SetOutput(os.Stderr)
		logger := newLogger(cfg)

		backend := cli.OpenBackend(cfg, nil)
		defer backend.Close()

		engine, err := cli.NewEngine(cfg, logger, backend, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		srv := mcp.NewServer(cli.NewService(engine, cfg, logger), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting narrator MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf(":%d", port)
			baseURL := fmt.Sprintf("http://localhost:%d", port)
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
