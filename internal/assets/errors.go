package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInvalidAssetName rejects names with separators, dots or NUL bytes.
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	// ErrAssetRead covers I/O failures, including symlinks that leave the
	// asset directory.
	ErrAssetRead = errors.New("failed to read asset")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
