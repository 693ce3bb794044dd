package md2ebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/alnah/go-md2ebook/internal/dateutil"
	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/yamlutil"
)

// Format is the syntax of a project document.
type Format int

// Supported project document formats.
const (
	FormatYAML Format = iota
	// FormatJSON accepts comments and trailing commas.
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath returns FormatJSON for .json files and FormatYAML otherwise.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DefaultProjectFiles are looked up, in order, when no project file is named.
var DefaultProjectFiles = []string{".md2ebook.yaml", ".md2ebook.yml", ".md2ebook.json"}

// Project is a loaded project document. It is not modified by builds.
type Project struct {
	Book          *Book
	Substitutions []Substitution
	Outputs       []*Output
	// Dir is the base for relative chapter, stylesheet and output paths.
	Dir string
}

// OutputNames returns the declared output names in order.
func (p *Project) OutputNames() []string {
	names := make([]string, len(p.Outputs))
	for i, o := range p.Outputs {
		names[i] = o.Name
	}
	return names
}

type loadConfig struct {
	now func() time.Time
	dir string
}

// LoadOption configures project loading.
type LoadOption func(*loadConfig)

// WithClock sets the time used to resolve "pubdate: auto".
func WithClock(now func() time.Time) LoadOption {
	return func(c *loadConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBaseDir sets Project.Dir for documents loaded from memory.
func WithBaseDir(dir string) LoadOption {
	return func(c *loadConfig) {
		c.dir = dir
	}
}

// LoadProject parses a project document. Load errors abort the whole load;
// no partial project is returned.
func LoadProject(data []byte, format Format, opts ...LoadOption) (*Project, error) {
	cfg := loadConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoBookFound
	}

	yamlData := data
	if format == FormatJSON {
		var err error
		if yamlData, err = normalizeJSON(data); err != nil {
			return nil, &MalformedProjectError{Content: string(data), Err: err}
		}
	}

	var doc projectDocument
	if err := yamlutil.Unmarshal(yamlData, &doc); err != nil {
		if errors.Is(err, yamlutil.ErrInputTooLarge) {
			return nil, err
		}
		return nil, &MalformedProjectError{Content: string(data), Err: err}
	}

	if !doc.hasBook() {
		return nil, ErrNoBookFound
	}

	book, err := doc.toBook()
	if err != nil {
		return nil, err
	}
	if book.Pubdate, err = dateutil.ResolveDate(book.Pubdate, cfg.now()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	subs, err := doc.toSubstitutions()
	if err != nil {
		return nil, err
	}

	outputs, err := doc.toOutputs()
	if err != nil {
		return nil, err
	}

	return &Project{
		Book:          book,
		Substitutions: subs,
		Outputs:       outputs,
		Dir:           cfg.dir,
	}, nil
}

// normalizeJSON strips comments and trailing commas and re-indents with
// spaces so the YAML decoder never sees tabs.
func normalizeJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, jsonc.ToJSON(data), "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadProjectFile finds and loads a project file. path may be empty (current
// directory), a directory or a file; see FindProjectFile. Project.Dir is set
// to the file's directory.
func LoadProjectFile(path string, opts ...LoadOption) (*Project, error) {
	file, err := FindProjectFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file) // #nosec G304 -- user-provided project path
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	return LoadProject(data, FormatFromPath(file), append(opts, WithBaseDir(dir))...)
}

// FindProjectFile resolves the project file: an empty path searches the
// current directory for DefaultProjectFiles, a directory is searched the same
// way, and an existing file is returned as is.
func FindProjectFile(path string) (string, error) {
	dir := path
	if path == "" {
		dir = "."
	} else if fileutil.FileExists(path) {
		return path, nil
	}

	if !fileutil.DirExists(dir) {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, path)
	}

	for _, name := range DefaultProjectFiles {
		candidate := filepath.Join(dir, name)
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no %s in %s", ErrProjectNotFound, strings.Join(DefaultProjectFiles, ", "), dir)
}
