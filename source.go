package md2ebook

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/alnah/go-md2ebook/internal/fileutil"
)

// SourceReader reads chapter sources by their project reference.
type SourceReader interface {
	ReadSource(src string) (string, error)
}

// DirReader reads chapters from the filesystem relative to Dir.
type DirReader struct {
	Dir string
}

// ReadSource implements SourceReader.
func (r DirReader) ReadSource(src string) (string, error) {
	data, err := os.ReadFile(fileutil.ResolvePath(r.Dir, src)) // #nosec G304 -- chapter paths come from the project
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SourceDir returns the directory relative resources of src resolve against.
func (r DirReader) SourceDir(src string) string {
	return filepath.Dir(fileutil.ResolvePath(r.Dir, src))
}

// RootDir returns the directory relative resources must stay within.
func (r DirReader) RootDir() string {
	return r.Dir
}

// FSReader reads chapters from an fs.FS, such as an embed.FS or fstest.MapFS.
type FSReader struct {
	fsys fs.FS
}

// NewFSReader wraps fsys.
func NewFSReader(fsys fs.FS) *FSReader {
	return &FSReader{fsys: fsys}
}

// ReadSource implements SourceReader. src is cleaned to an fs.FS path.
func (r *FSReader) ReadSource(src string) (string, error) {
	name := path.Clean(filepath.ToSlash(src))
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid source path %q", src)
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sourceDirer is implemented by readers backed by real directories.
type sourceDirer interface {
	SourceDir(src string) string
	RootDir() string
}

// Compile-time interface checks.
var (
	_ SourceReader = DirReader{}
	_ SourceReader = (*FSReader)(nil)
	_ sourceDirer  = DirReader{}
)
