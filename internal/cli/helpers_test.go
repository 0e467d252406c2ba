package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const twoStepScenario = `{
  "id": "s1",
  "title": "T",
  "steps": [
    {"id": "a", "goal": "g1"},
    {"id": "b", "goal": "g2"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the CLI and returns its exit code and captured output.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute(args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}
