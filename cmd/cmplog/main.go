// Package main implements the cmplog CLI tool.
//
// The cmplog tool drives the comparison trace engine from the command line:
//
//  1. Fetching and building the pinned AFL++ instrumentation toolchain
//  2. Running an instrumented target once over a fresh comparison map
//  3. Inspecting a comparison map another process left in shared memory
//
// Usage:
//
//	cmplog fetch [dir]                      # Clone and build the toolchain
//	cmplog run --input seed -- ./target     # Trace one execution
//	cmplog inspect --shm-id 123456          # Decode an existing map
//	cmplog version                          # Show version information
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/cmplog/internal/config"
	"github.com/kolkov/cmplog/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cmplog",
	Short: "cmplog - comparison trace capture for input-to-state fuzzing",
	Long: `cmplog captures the operands of comparisons executed by an instrumented
target and turns them into redqueen metadata: for every comparison site, the
operand sequence of a baseline run and of a mutated run.

Targets must be built with the AFL++ cmplog instrumentation (see 'cmplog fetch').`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development)
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cmplog.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
