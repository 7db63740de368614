package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/narrator"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of narrator",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "narrator version %s\n", strings.TrimSpace(narrator.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
