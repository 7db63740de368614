package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.True(t, strings.HasPrefix(out, "narrator version "))
}

func TestGraphCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.yaml")
	story := `title: Tiny
start_scene: a
scenes:
  a:
    id: a
    title: Start
    choices:
      - label: Onward
        next_scene: b
  b:
    id: b
    title: Finish
`
	require.NoError(t, os.WriteFile(path, []byte(story), 0o644))

	out := execute(t, "graph", "--story", path)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `a(("Start"))`)
	assert.Contains(t, out, `a -- "Onward" --> b`)
}
