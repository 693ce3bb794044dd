package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md2ebook "github.com/alnah/go-md2ebook"
)

// ---------------------------------------------------------------------------
// TestRunMake
// ---------------------------------------------------------------------------

func TestRunMake_AllOutputs(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	err := runMake(context.Background(), nil, &commonFlags{project: dir}, nil, tio.env)
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dir, "build", "book.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "The new mill is new.")
	assert.NotContains(t, string(html), "Unfinished")

	require.Len(t, tio.runner.calls, 1)
	call := tio.runner.calls[0]
	assert.Equal(t, "ebook-convert", call[0])
	assert.Equal(t, filepath.Join(dir, "build", "book.epub"), call[2])
	assert.Contains(t, call, `--pubdate="2026-03-07"`)
	assert.Equal(t, "--chapter-mark=none", call[len(call)-1])

	assert.Contains(t, tio.stdout.String(), "Created "+filepath.Join(dir, "build", "book.html"))
	assert.Contains(t, tio.stdout.String(), "2 succeeded, 0 failed")
	assert.Empty(t, tio.stderr.String())
}

func TestRunMake_ByName(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	require.NoError(t, runMake(context.Background(), []string{"site"}, &commonFlags{project: dir}, nil, tio.env))

	assert.FileExists(t, filepath.Join(dir, "build", "book.html"))
	assert.Empty(t, tio.runner.calls)
	assert.NotContains(t, tio.stdout.String(), "succeeded")
}

func TestRunMake_UnknownOutput(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	err := runMake(context.Background(), []string{"kindle"}, &commonFlags{project: dir}, nil, tio.env)
	require.Error(t, err)
	assert.ErrorIs(t, err, md2ebook.ErrOutputNotFound)
	assert.Contains(t, err.Error(), "no output using the following name could be found: 'kindle'")
	assert.Contains(t, err.Error(), "available outputs: site, epub")
	assert.Equal(t, ExitUsage, exitCodeFor(err))
}

func TestRunMake_ConverterFailure(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)
	tio.runner.err = errors.New("exit status 1")
	tio.runner.stderr = "unsupported format"

	err := runMake(context.Background(), nil, &commonFlags{project: dir}, nil, tio.env)
	require.Error(t, err)

	var failed *buildFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "1 of 2 output(s) failed", err.Error())
	assert.ErrorIs(t, err, md2ebook.ErrConversionFailed)
	assert.Equal(t, ExitConverter, exitCodeFor(err))

	assert.FileExists(t, filepath.Join(dir, "build", "book.html"))
	assert.Contains(t, tio.stderr.String(), "FAILED epub:")
	assert.Contains(t, tio.stderr.String(), "unsupported format")
	assert.Contains(t, tio.stdout.String(), "1 succeeded, 1 failed")
}

func TestRunMake_Quiet(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	require.NoError(t, runMake(context.Background(), nil, &commonFlags{project: dir, quiet: true}, nil, tio.env))
	assert.Empty(t, tio.stdout.String())
}

func TestRunMake_Verbose(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	require.NoError(t, runMake(context.Background(), []string{"site"}, &commonFlags{project: dir, verbose: true}, nil, tio.env))
	assert.Contains(t, tio.stdout.String(), "Created site -> ")
	assert.Contains(t, tio.stdout.String(), "(html, ")
	assert.Contains(t, tio.stderr.String(), "level=DEBUG")
}

func TestRunMake_EnvBinary(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(map[string]string{"MD2EBOOK_EBOOK_CONVERT": "/opt/calibre/ebook-convert"})

	require.NoError(t, runMake(context.Background(), []string{"epub"}, &commonFlags{project: dir}, nil, tio.env))
	require.Len(t, tio.runner.calls, 1)
	assert.Equal(t, "/opt/calibre/ebook-convert", tio.runner.calls[0][0])
}

func TestRunMake_ProjectErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yaml     string
		wantErr  error
		wantCode int
	}{
		{
			name:     "malformed",
			yaml:     "title: [unclosed\n",
			wantErr:  md2ebook.ErrMalformedProject,
			wantCode: ExitUsage,
		},
		{
			name:     "no book",
			yaml:     "book:\n  title: Nested\n",
			wantErr:  md2ebook.ErrNoBookFound,
			wantCode: ExitUsage,
		},
		{
			name:     "bad substitution",
			yaml:     "title: T\nsubstitutions:\n  - from: a\n    to: b\n",
			wantErr:  md2ebook.ErrUnrecognizedSubstitution,
			wantCode: ExitUsage,
		},
		{
			name:     "missing chapter",
			yaml:     "title: T\nchapters:\n  - src: missing.md\noutputs:\n  - name: site\n    path: book.html\n",
			wantErr:  md2ebook.ErrReadChapter,
			wantCode: ExitIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeProject(t, tt.yaml)
			tio := newTestIO(nil)

			err := runMake(context.Background(), nil, &commonFlags{project: dir}, nil, tio.env)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, exitCodeFor(err))
		})
	}
}

func TestRunMake_ProjectNotFound(t *testing.T) {
	t.Parallel()

	tio := newTestIO(nil)
	err := runMake(context.Background(), nil, &commonFlags{project: t.TempDir()}, nil, tio.env)

	require.Error(t, err)
	assert.ErrorIs(t, err, md2ebook.ErrProjectNotFound)
	assert.Contains(t, err.Error(), "hint: use --project")
	assert.Equal(t, ExitUsage, exitCodeFor(err))
}

func TestRunMake_InvalidEnvTimeout(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(map[string]string{"MD2EBOOK_TIMEOUT": "soon"})

	err := runMake(context.Background(), nil, &commonFlags{project: dir}, nil, tio.env)
	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCodeFor(err))
	assert.NoFileExists(t, filepath.Join(dir, "build", "book.html"))
}

func TestRunMake_Cancelled(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, testProjectYAML)
	tio := newTestIO(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runMake(ctx, []string{"site", "epub"}, &commonFlags{project: dir}, nil, tio.env)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tio.runner.calls)
}
