package toolchain

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CheckLLVM runs llvm-config --version and verifies it is at least MinLLVM.
// It returns the normalized version.
func (t *Toolchain) CheckLLVM(ctx context.Context) (string, error) {
	if _, err := t.runner.LookPath(t.LLVMConfig); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", t.LLVMConfig, err)
	}

	out, err := t.runner.Run(ctx, "", nil, t.LLVMConfig, "--version")
	if err != nil {
		return "", err
	}

	version, ok := normalizeVersion(string(out))
	if !ok {
		return "", fmt.Errorf("unrecognized %s version %q", t.LLVMConfig, strings.TrimSpace(string(out)))
	}
	if semver.Compare(version, t.MinLLVM) < 0 {
		return version, fmt.Errorf("%w: found %s, need %s", ErrLLVMTooOld, version, t.MinLLVM)
	}
	return version, nil
}

// normalizeVersion turns llvm-config output such as "15.0.7git" or "18.1.8\n"
// into a semantic version ("v15.0.7").
func normalizeVersion(s string) (string, bool) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if end >= 0 {
		s = s[:end]
	}
	s = strings.TrimSuffix(s, ".")

	v := "v" + s
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}
