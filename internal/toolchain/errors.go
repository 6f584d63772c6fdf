package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLLVMTooOld is returned by CheckLLVM when llvm-config reports a version
// below the pinned minimum.
var ErrLLVMTooOld = errors.New("llvm too old")

// CommandError represents a failed external command with its captured output.
//
// Example output:
//
//	git checkout v4.21c: exit status 1
//	error: pathspec 'v4.21c' did not match any file(s) known to git
//
//	Suggestion: Check that the revision exists in the upstream repository
type CommandError struct {
	Name       string   // Command name
	Args       []string // Command arguments
	Stderr     string   // Captured standard error, trimmed
	Err        error    // Underlying error from the process
	Suggestion string   // Optional suggestion for fixing (empty if none)
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Name)
	if len(e.Args) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(e.Args, " "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Stderr != "" {
		fmt.Fprintf(&b, "\n%s", e.Stderr)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n\nSuggestion: %s", e.Suggestion)
	}
	return b.String()
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// withSuggestion attaches a hint to err when it is a *CommandError.
func withSuggestion(err error, suggestion string) error {
	var ce *CommandError
	if errors.As(err, &ce) && ce.Suggestion == "" {
		ce.Suggestion = suggestion
	}
	return err
}
