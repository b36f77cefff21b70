package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// shopSpecs is the spec directory shared with the harness scenarios.
var shopSpecs = filepath.Join("..", "harness", "testdata", "specs")

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeSpecs writes a single CUE file into a fresh directory.
func writeSpecs(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "specs.cue"), []byte(content), 0644))
	return dir
}

// absShopSpecs returns shopSpecs as an absolute path, for scenarios
// written outside the package directory.
func absShopSpecs(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs(shopSpecs)
	require.NoError(t, err)
	return abs
}
