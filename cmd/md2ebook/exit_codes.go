package main

import (
	"errors"
	"os"

	md2ebook "github.com/alnah/go-md2ebook"
	"github.com/alnah/go-md2ebook/internal/config"
)

// Exit codes for md2ebook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // All requested outputs built
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config or project document
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // ebook-convert or browser errors
)

// ErrUsage marks command line errors such as unknown flags.
var ErrUsage = errors.New("usage error")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter and browser errors (exit 4)
	if errors.Is(err, md2ebook.ErrConverterNotFound) ||
		errors.Is(err, md2ebook.ErrConversionFailed) ||
		errors.Is(err, md2ebook.ErrBrowserConnect) ||
		errors.Is(err, md2ebook.ErrPageCreate) ||
		errors.Is(err, md2ebook.ErrPageLoad) ||
		errors.Is(err, md2ebook.ErrPDFGeneration) {
		return ExitConverter
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2ebook.ErrReadChapter) ||
		errors.Is(err, md2ebook.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/project errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, md2ebook.ErrProjectNotFound) ||
		errors.Is(err, md2ebook.ErrMalformedProject) ||
		errors.Is(err, md2ebook.ErrNoBookFound) ||
		errors.Is(err, md2ebook.ErrMissingField) ||
		errors.Is(err, md2ebook.ErrUnrecognizedSubstitution) ||
		errors.Is(err, md2ebook.ErrInvalidPattern) ||
		errors.Is(err, md2ebook.ErrUnknownOutputType) ||
		errors.Is(err, md2ebook.ErrInvalidDate) ||
		errors.Is(err, md2ebook.ErrOutputNotFound) ||
		errors.Is(err, md2ebook.ErrStyleNotFound) ||
		errors.Is(err, md2ebook.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
