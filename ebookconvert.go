package md2ebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/process"
)

// CommandRunner runs an external program to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands with os/exec in their own process group, so
// cancellation also stops any children the converter spawned.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary and args are configured by the user
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	process.Configure(cmd)

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// MetadataFlags maps the non-blank allow-listed book attributes to
// ebook-convert flags formatted --key="value". Underscores in keys become
// hyphens (series_index -> --series-index).
func MetadataFlags(b *Book) []string {
	var flags []string
	for _, f := range b.Metadata() {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		flags = append(flags, fmt.Sprintf(`--%s="%s"`, strings.ReplaceAll(f.Key, "_", "-"), f.Value))
	}
	return flags
}

// ConvertArgs returns the ebook-convert argument list:
// input, destination, metadata flags, then params.
func ConvertArgs(input, dest string, b *Book, params []string) []string {
	args := []string{input, dest}
	args = append(args, MetadataFlags(b)...)
	return append(args, params...)
}

// buildEbookConvert renders the document to a temporary HTML file and runs
// the converter on it. The temporary file is removed on every path.
func (m *Maker) buildEbookConvert(ctx context.Context, job *buildJob) error {
	tmpPath, cleanup, err := fileutil.WriteTempFile(job.document, "html")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	defer cleanup()

	if err := os.MkdirAll(filepath.Dir(job.dest), fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	params := MergeParams(m.extraParams, job.output.Params)
	args := ConvertArgs(tmpPath, job.dest, job.project.Book, params)

	runCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	m.logger.Debug("running converter", slog.String("binary", m.binary), slog.Any("args", args))
	stdout, stderr, err := m.runner.Run(runCtx, m.binary, args...)
	if stdout != "" {
		m.logger.Debug("converter output", slog.String("stdout", stdout))
	}
	if err != nil {
		return conversionError(runCtx, m.binary, stderr, err)
	}
	return nil
}

func conversionError(ctx context.Context, binary, stderr string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrConverterNotFound, binary, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrConversionFailed, ctxErr)
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		return fmt.Errorf("%w: %w: %s", ErrConversionFailed, err, stderr)
	}
	return fmt.Errorf("%w: %w", ErrConversionFailed, err)
}

// Compile-time interface check.
var _ CommandRunner = ExecRunner{}
