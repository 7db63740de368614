package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/cli"
	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/internal/presentation/graph"
	"github.com/aretw0/narrator/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph [story]",
	Short: "Export the story graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the story's scenes and choices.
With --session the scenes that session visited and its current scene are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")

		backend := cli.OpenBackend(cfg, cli.FileStore())
		defer backend.Close()

		engine, err := cli.NewEngine(cfg, logging.NewNop(), backend, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		if err := engine.LoadError(); err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			sess, err := engine.Session(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFromSession(sess)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(engine.Story(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the path of this session")
}
