package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/narrator/internal/cli"
	"github.com/aretw0/narrator/pkg/ports"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored in .narrator/sessions, or in Redis when configured.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := sessionStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return cli.ListSessions(cmd.Context(), store, cmd.OutOrStdout())
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := sessionStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return cli.InspectSession(cmd.Context(), store, args[0], cmd.OutOrStdout())
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := sessionStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return cli.RemoveSessions(cmd.Context(), store, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func sessionStore(cmd *cobra.Command) (ports.SessionStore, func(), error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, nil, err
	}
	backend := cli.OpenBackend(cfg, cli.FileStore())
	return backend.Store, func() { _ = backend.Close() }, nil
}
