package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kolkov/cmplog/internal/cmplog/meta"
	"github.com/kolkov/cmplog/internal/cmplog/observer"
	"github.com/kolkov/cmplog/internal/cmplog/shmem"
)

// inspectCmd decodes a comparison map left in shared memory
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode a comparison map from an existing shared memory segment",
	Long: `Attaches to a System V shared memory segment holding a comparison map and
prints every comparison site that survives the loop filter.

The segment id comes from --shm-id, or from ` + shmem.EnvVar + ` when the flag is omitted.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var shmID int

func init() {
	inspectCmd.Flags().IntVar(&shmID, "shm-id", -1, "Shared memory segment id")
}

func runInspect(cmd *cobra.Command, args []string) error {
	id := shmID
	if id < 0 {
		var err error
		if id, err = shmem.IDFromEnv(); err != nil {
			if errors.Is(err, shmem.ErrNoSegment) {
				return fmt.Errorf("no segment given: use --shm-id or set %s", shmem.EnvVar)
			}
			return err
		}
	}

	m, seg, err := shmem.AttachMap(id, cfg.Map.Layout())
	if err != nil {
		return err
	}
	defer func() {
		m.Unbind()
		_ = seg.Detach()
	}()

	count := m.Len()
	if n := usableCount(); n != nil {
		count = *n
	}
	store := meta.NewStore()
	res := observer.Extract(m, count, meta.Baseline, store)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "segment %d: %d kept, %d filtered, %d overflowed\n", id, res.Kept, res.Filtered, res.Overflowed)
	printView(out, store, meta.Baseline)
	return nil
}

// printView writes every stored index of pass p with its header and values.
func printView(w io.Writer, v meta.View, p meta.Pass) {
	if v == nil {
		return
	}
	for _, idx := range v.Indices(p) {
		if h, ok := v.Header(idx); ok {
			fmt.Fprintf(w, "[%d] %s\n", idx, h)
		} else {
			fmt.Fprintf(w, "[%d]\n", idx)
		}

		seq := v.Orig(idx)
		if p == meta.Mutated {
			seq = v.New(idx)
		}
		for j, val := range seq {
			fmt.Fprintf(w, "  %2d: %s\n", j, val)
		}
	}
}
