package testutils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("could not find project root (go.mod)")
		}
		root = parent
	}
}

// BuildFixture compiles one of the cmd/ fixture programs into a temp binary.
// Optimizations and inlining are disabled so line tables and stacks stay
// close to the source, the way a debugger session would build them.
// It skips the test when the go toolchain is not available.
func BuildFixture(t *testing.T, program string) string {
	t.Helper()

	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not found in PATH")
	}

	exeName := program
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	destPath := filepath.Join(t.TempDir(), exeName)

	cmd := exec.Command(goBin, "build", "-gcflags=all=-N -l", "-o", destPath, "./cmd/"+program)
	cmd.Dir = ProjectRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "Failed to build fixture %s: %s", program, string(out))

	return destPath
}
