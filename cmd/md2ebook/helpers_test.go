package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

const testProjectYAML = `title: Duck Tales
authors: Carl Barks
language: en
pubdate: auto
chapters:
  - src: one.md
  - src: draft.md
    publish: false
substitutions:
  - old: old
    new: new
outputs:
  - name: site
    path: build/book.html
  - name: epub
    path: build/book.epub
    ebookconvert_params: [--chapter-mark=none]
`

// fakeRunner records converter invocations.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.stdout, r.stderr, r.err
}

type testIO struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
}

func newTestIO(vars map[string]string) *testIO {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	runner := &fakeRunner{}
	environ := make([]string, 0, len(vars))
	for k, v := range vars {
		environ = append(environ, k+"="+v)
	}
	return &testIO{
		env: &Environment{
			Now:     func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC) },
			Stdout:  stdout,
			Stderr:  stderr,
			Getenv:  func(k string) string { return vars[k] },
			Environ: func() []string { return environ },
			Runner:  runner,
		},
		stdout: stdout,
		stderr: stderr,
		runner: runner,
	}
}

// writeProject creates a project directory with two chapters.
func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		".md2ebook.yaml": yaml,
		"one.md":         "# One\n\nThe old mill is old.\n",
		"draft.md":       "# Draft\n\nUnfinished.\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "md2ebook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
