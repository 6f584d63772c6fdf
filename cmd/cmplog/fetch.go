package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/cmplog/internal/toolchain"
)

// fetchCmd clones and builds the instrumentation toolchain
var fetchCmd = &cobra.Command{
	Use:   "fetch [dir]",
	Short: "Clone and build the pinned AFL++ toolchain",
	Long: `Checks that llvm-config reports a supported LLVM, clones the pinned AFL++
revision and builds it. An existing checkout in dir is reused.

The directory defaults to toolchain.dir from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var llvmConfig string

func init() {
	fetchCmd.Flags().StringVar(&llvmConfig, "llvm-config", "llvm-config", "llvm-config binary to build against")
}

func runFetch(cmd *cobra.Command, args []string) error {
	dir := cfg.Toolchain.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	tc := toolchain.New(logger)
	tc.RepoURL = cfg.Toolchain.RepoURL
	tc.Revision = cfg.Toolchain.Revision
	tc.MinLLVM = cfg.Toolchain.MinLLVM
	tc.LLVMConfig = llvmConfig

	if err := tc.Fetch(cmd.Context(), dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "AFL++ %s ready in %s\n", tc.Revision, dir)
	return nil
}
