// Package toolchain fetches and builds the pinned AFL++ instrumentation
// toolchain that produces cmplog-enabled targets.
//
// The comparison map layout is only stable within one AFL++ release, so the
// source is pinned to Revision and built against a local LLVM of at least
// MinLLVM. Nothing here runs a fuzzer.
//
// Usage:
//
//	tc := toolchain.New(logger)
//	if err := tc.Fetch(ctx, "AFLplusplus"); err != nil {
//	    return err
//	}
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kolkov/cmplog/internal/logging"
)

// Pinned upstream source.
const (
	RepoURL  = "https://github.com/AFLplusplus/AFLplusplus.git"
	Revision = "v4.21c"
	MinLLVM  = "v11.0.0"
)

// Toolchain clones, checks and builds the instrumentation toolchain.
//
// The zero value is not usable; create one with New.
type Toolchain struct {
	RepoURL    string
	Revision   string
	MinLLVM    string
	LLVMConfig string // llvm-config binary name or path

	runner Runner
	logger *zap.Logger
}

// New returns a Toolchain pinned to the default upstream revision.
// A nil logger disables logging.
func New(logger *zap.Logger) *Toolchain {
	return &Toolchain{
		RepoURL:    RepoURL,
		Revision:   Revision,
		MinLLVM:    MinLLVM,
		LLVMConfig: "llvm-config",
		runner:     ExecRunner{},
		logger:     logging.OrNop(logger),
	}
}

// WithRunner replaces the command runner and returns t.
func (t *Toolchain) WithRunner(r Runner) *Toolchain {
	t.runner = r
	return t
}

// Fetch checks LLVM, clones the pinned source into dir and builds it.
func (t *Toolchain) Fetch(ctx context.Context, dir string) error {
	version, err := t.CheckLLVM(ctx)
	if err != nil {
		return err
	}
	t.logger.Info("llvm found", zap.String("version", version))

	if err := t.Clone(ctx, dir); err != nil {
		return err
	}
	return t.Build(ctx, dir)
}

// Clone checks out Revision of RepoURL into dir.
//
// An existing git checkout in dir is reused: only the revision is checked out.
//
// Parameters:
//   - ctx: Cancels the running git command
//   - dir: Destination directory
//
// Returns:
//   - nil on success
//   - error if git is missing or a git command fails (*CommandError)
func (t *Toolchain) Clone(ctx context.Context, dir string) error {
	if _, err := t.runner.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}

	_, statErr := os.Stat(filepath.Join(dir, ".git"))
	switch {
	case statErr == nil:
		t.logger.Info("reusing existing checkout", zap.String("dir", dir))
		if _, err := t.runner.Run(ctx, dir, nil, "git", "fetch", "--tags", "origin"); err != nil {
			return withSuggestion(err, "Remove the directory and fetch again")
		}
	case errors.Is(statErr, os.ErrNotExist):
		t.logger.Info("cloning", zap.String("repo", t.RepoURL), zap.String("dir", dir))
		if _, err := t.runner.Run(ctx, "", nil, "git", "clone", "--no-checkout", t.RepoURL, dir); err != nil {
			return withSuggestion(err, "Check network access to "+t.RepoURL)
		}
	default:
		return fmt.Errorf("failed to inspect %s: %w", dir, statErr)
	}

	if _, err := t.runner.Run(ctx, dir, nil, "git", "checkout", "--quiet", t.Revision); err != nil {
		return withSuggestion(err, "Check that the revision exists in the upstream repository")
	}
	t.logger.Info("checked out", zap.String("revision", t.Revision))
	return nil
}

// Build compiles the checkout in dir with the configured llvm-config.
func (t *Toolchain) Build(ctx context.Context, dir string) error {
	if _, err := t.runner.LookPath("make"); err != nil {
		return fmt.Errorf("make not found in PATH: %w", err)
	}

	t.logger.Info("building", zap.String("dir", dir), zap.String("llvm_config", t.LLVMConfig))
	env := []string{"LLVM_CONFIG=" + t.LLVMConfig}
	if _, err := t.runner.Run(ctx, dir, env, "make", "source-only"); err != nil {
		return withSuggestion(err, "See docs/INSTALL.md in the checkout for build dependencies")
	}
	return nil
}
