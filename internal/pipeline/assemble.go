package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrBookRender indicates the book template failed to parse or execute.
var ErrBookRender = errors.New("book template rendering failed")

// BookData is the input of the book template.
type BookData struct {
	Title    string
	Language string
	Authors  []string
	Chapters []ChapterData
}

// ChapterData is one rendered chapter. Body is trusted HTML from the converter.
type ChapterData struct {
	ID   string
	Body template.HTML
}

// BookAssembler renders chapter fragments into a single HTML document.
type BookAssembler struct {
	tmpl *template.Template
}

// NewBookAssembler parses the book template.
// Templates may call join to concatenate string lists.
func NewBookAssembler(tmplContent string) (*BookAssembler, error) {
	tmpl, err := template.New("book").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookRender, err)
	}
	return &BookAssembler{tmpl: tmpl}, nil
}

// Assemble executes the template. A blank language defaults to "en".
func (a *BookAssembler) Assemble(ctx context.Context, data *BookData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &BookData{}
	}

	d := *data
	if strings.TrimSpace(d.Language) == "" {
		d.Language = "en"
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBookRender, err)
	}
	return buf.String(), nil
}

// ChapterID returns the anchor id of the chapter at index i (zero-based).
func ChapterID(i int) string {
	return fmt.Sprintf("chapter-%03d", i+1)
}
