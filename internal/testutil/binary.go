package testutil

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// BuildBinary compiles the declui command into a temporary directory and
// returns its path. The test is skipped when no Go toolchain is on PATH.
func BuildBinary(t *testing.T) string {
	t.Helper()
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("skipping: go toolchain not available")
	}
	bin := filepath.Join(t.TempDir(), "declui")
	cmd := exec.Command(goBin, "build", "-o", bin, ".")
	cmd.Dir = RepoRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

// ExitCode returns the process exit status carried by err, 0 for nil and
// -1 when err is not an exit error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
