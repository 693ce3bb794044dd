package md2ebook

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	// Project loading errors.
	ErrProjectNotFound          = errors.New("project file not found")
	ErrMalformedProject         = errors.New("malformed project document")
	ErrNoBookFound              = errors.New("no book found in project")
	ErrMissingField             = errors.New("missing required field")
	ErrUnrecognizedSubstitution = errors.New("unrecognized substitution")
	ErrInvalidPattern           = errors.New("invalid substitution pattern")
	ErrUnknownOutputType        = errors.New("unknown output type")
	ErrInvalidDate              = errors.New("invalid publication date")

	// Build errors.
	ErrOutputNotFound    = errors.New("output not found")
	ErrReadChapter       = errors.New("failed to read chapter")
	ErrSubstitution      = errors.New("substitution failed")
	ErrWriteOutput       = errors.New("failed to write output")
	ErrConverterNotFound = errors.New("ebook-convert not found")
	ErrConversionFailed  = errors.New("ebook conversion failed")
	ErrStyleNotFound     = errors.New("stylesheet not found")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrPDFGeneration     = errors.New("PDF generation failed")
)

// MalformedProjectError reports a project document that could not be parsed.
// Content holds the raw document.
type MalformedProjectError struct {
	Content string
	Err     error
}

func (e *MalformedProjectError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedProject, e.Err)
}

func (e *MalformedProjectError) Unwrap() []error {
	return []error{ErrMalformedProject, e.Err}
}

// MissingFieldError names a required field absent from the project document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UnrecognizedSubstitutionError lists, in declaration order, the keys of a
// substitution entry that matches no substitution shape.
type UnrecognizedSubstitutionError struct {
	Keys []string
}

func (e *UnrecognizedSubstitutionError) Error() string {
	quoted := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		quoted[i] = "'" + k + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "] do not match any substitution type."
}

func (e *UnrecognizedSubstitutionError) Unwrap() error { return ErrUnrecognizedSubstitution }

// OutputNotFoundError names an output that the project does not declare.
type OutputNotFoundError struct {
	Name string
}

func (e *OutputNotFoundError) Error() string {
	return fmt.Sprintf("no output using the following name could be found: '%s'", e.Name)
}

func (e *OutputNotFoundError) Unwrap() error { return ErrOutputNotFound }

// BuildError ties a build failure to the output that produced it.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("output %q: %v", e.Output, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
