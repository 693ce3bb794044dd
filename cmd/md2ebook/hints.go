package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	md2ebook "github.com/alnah/go-md2ebook"
	"github.com/alnah/go-md2ebook/internal/config"
	"github.com/alnah/go-md2ebook/internal/hints"
)

// hinter picks the hint for an error. project is nil until one is loaded.
type hinter struct {
	getenv  hints.Getenv
	project *md2ebook.Project
}

// hint returns an actionable hint for err, or "".
func (h hinter) hint(err error) string {
	switch {
	case errors.Is(err, md2ebook.ErrConverterNotFound):
		return hints.ForConverterNotFound(h.getenv)
	case errors.Is(err, md2ebook.ErrBrowserConnect):
		return hints.ForBrowserConnect(h.getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2ebook.ErrProjectNotFound):
		return hints.ForProjectNotFound(md2ebook.DefaultProjectFiles)
	case errors.Is(err, md2ebook.ErrOutputNotFound):
		var names []string
		if h.project != nil {
			names = h.project.OutputNames()
		}
		return hints.ForOutputNotFound(names)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigDir())
	case errors.Is(err, md2ebook.ErrStyleNotFound):
		return hints.ForStyleNotFound(md2ebook.StyleNames())
	case errors.Is(err, md2ebook.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// wrap decorates err with its hint, if any.
func (h hinter) wrap(err error) error {
	if err == nil {
		return nil
	}
	if s := h.hint(err); s != "" {
		return &hintedError{err: err, hint: s}
	}
	return err
}

// hintedError appends a hint to an error message without hiding the error.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// userConfigDir is where config.LoadConfig looks for named configs, or "".
func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, config.UserConfigDirName)
}
