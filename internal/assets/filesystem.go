package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemLoader serves assets from a directory on disk. Reads go through
// os.Root, so neither names nor symlinks can reach outside the directory.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader fails with ErrInvalidBasePath unless basePath is an
// existing directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	return &FilesystemLoader{basePath: abs}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styles, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templates, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	root, err := os.OpenRoot(f.basePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()

	return readAsset(root.FS(), k, name)
}

var _ AssetLoader = (*FilesystemLoader)(nil)
