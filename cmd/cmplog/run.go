package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/cmplog/internal/cmplog/meta"
	"github.com/kolkov/cmplog/internal/cmplog/observer"
	"github.com/kolkov/cmplog/internal/cmplog/shmem"
)

// runCmd traces one execution of an instrumented target
var runCmd = &cobra.Command{
	Use:   "run [flags] -- target [args...]",
	Short: "Run an instrumented target once and print its comparison trace",
	Long: `Creates a private comparison map, runs the target with ` + shmem.EnvVar + `
pointing at it, and prints the decoded comparison operands as baseline metadata.

Example:
  cmplog run --input seed.bin -- ./parser @@`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTarget,
}

var (
	inputPath   string
	execTimeout time.Duration
	showMetrics bool
)

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "File fed to the target on stdin")
	runCmd.Flags().DurationVarP(&execTimeout, "timeout", "t", 10*time.Second, "Execution timeout")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print extraction metrics after the trace")
}

func runTarget(cmd *cobra.Command, args []string) error {
	m, seg, err := shmem.CreateMap(cfg.Map.Layout())
	if err != nil {
		return fmt.Errorf("failed to create comparison map: %w", err)
	}
	defer func() {
		m.Unbind()
		if err := seg.Remove(); err != nil {
			logger.Warn("failed to remove segment", zap.Int("shm_id", seg.ID()), zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	stats, err := observer.NewStats(reg)
	if err != nil {
		return err
	}
	obs := observer.NewWithOptions(cfg.Observer.Name, m, observer.Options{
		AddMeta: true,
		Pass:    meta.Baseline,
		Size:    usableCount(),
		Logger:  logger,
		Stats:   stats,
	})

	if err := obs.PreExec(); err != nil {
		return err
	}
	exit, err := execute(cmd.Context(), cmd.ErrOrStderr(), seg.Env(), args)
	if err != nil {
		return err
	}
	logger.Debug("target finished", zap.Stringer("exit", exit), zap.Int("shm_id", seg.ID()))

	var st meta.Session
	if err := obs.PostExec(&st, exit); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "exit: %s\n", exit)
	printView(out, st.CmpValues(), meta.Baseline)

	if showMetrics {
		return writeMetrics(out, reg)
	}
	return nil
}

// usableCount returns the configured index limit, nil for the whole map.
func usableCount() *int {
	if cfg.Observer.UsableCount == 0 {
		return nil
	}
	n := cfg.Observer.UsableCount
	return &n
}

// execute runs the target to completion and classifies how it ended.
// Only a target that could not be started is an error.
func execute(ctx context.Context, stderr io.Writer, env string, args []string) (observer.ExitKind, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Env = append(os.Environ(), env)
	c.Stdout = io.Discard
	c.Stderr = stderr
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return 0, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		c.Stdin = f
	}

	err := c.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return observer.ExitTimeout, nil
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return observer.ExitOk, nil
	case errors.As(err, &exitErr):
		// A non-zero status is a normal completion; a signal is a crash.
		if exitErr.ExitCode() == -1 {
			return observer.ExitCrash, nil
		}
		return observer.ExitOk, nil
	default:
		return 0, fmt.Errorf("failed to execute target: %w", err)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
