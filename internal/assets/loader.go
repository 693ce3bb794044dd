package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Built-in asset names.
const (
	DefaultStyleName = "default"
	BookTemplateName = "book"
)

// AssetLoader loads stylesheets and HTML templates by bare name.
type AssetLoader interface {
	// LoadStyle loads styles/{name}.css or fails with ErrStyleNotFound.
	LoadStyle(name string) (string, error)
	// LoadTemplate loads templates/{name}.html or fails with ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}

// kind is a family of assets sharing a directory and an extension.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styles    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templates = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// readAsset reads {k.dir}/{name}{k.ext} from fsys.
func readAsset(fsys fs.FS, k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	data, err := fs.ReadFile(fsys, path.Join(k.dir, name+k.ext))
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}
