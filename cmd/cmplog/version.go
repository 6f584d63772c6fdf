package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/cmplog/redqueen"
)

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := redqueen.GetInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cmplog version %s\n", info.Version)
		fmt.Fprintf(out, "map format: %s (%d x %d)\n", info.Format, info.Layout.Width, info.Layout.Height)
		return nil
	},
}
