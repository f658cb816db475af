package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name inside dir and returns the absolute path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	absDir, err := filepath.Abs(dir)
	require.NoError(t, err, "Failed to get absolute path for %s", dir)

	path := filepath.Join(absDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", path)
	return path
}

// WriteDefinition writes a YAML form definition into a fresh temp dir.
func WriteDefinition(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "form.yaml", content)
}
