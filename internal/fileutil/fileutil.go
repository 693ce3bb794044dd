// Package fileutil provides file and path helpers shared by the build pipeline.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// Permissions used for generated files and their parent directories.
const (
	DirPermissions  = 0o750
	FilePermissions = 0o644
)

// tempPrefix names intermediate files so leftovers are easy to spot.
const tempPrefix = "md2ebook-"

// WriteTempFile stores content in a new file named md2ebook-*.<extension>
// under the system temp directory. cleanup removes the file and may be
// called any number of times.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = io.WriteString(f, content)
	err = errors.Join(err, f.Close())
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("temp file %s: %w", path, err)
	}
	return path, cleanup, nil
}

// WriteFile writes data to path, creating missing parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	// #nosec G306 -- published files are meant to be readable
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return err
	}
	return nil
}

// ValidateExtension rejects empty extensions and ones that could escape the
// temp directory.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names something other than a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path names a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ResolvePath joins a relative path onto baseDir. Absolute paths are returned cleaned.
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) or ending in .css is treated as a path.
//
// Examples:
//   - "default" -> false (built-in style name)
//   - "style.css" -> true
//   - "./custom.css" -> true
//   - "sub/dir" -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.EqualFold(filepath.Ext(s), ".css")
}

// IsCSS returns true if the string looks like inline CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}
