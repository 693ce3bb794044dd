package md2ebook

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2ebook/internal/yamlutil"
)

// projectDocument is the decoded project file. Book fields sit at the root;
// keys not listed here are ignored.
type projectDocument struct {
	Title        yamlutil.Scalar `yaml:"title"`
	Authors      yamlutil.Scalar `yaml:"authors"`
	AuthorSort   yamlutil.Scalar `yaml:"author_sort"`
	BookProducer yamlutil.Scalar `yaml:"book_producer"`
	Comments     yamlutil.Scalar `yaml:"comments"`
	Cover        yamlutil.Scalar `yaml:"cover"`
	ISBN         yamlutil.Scalar `yaml:"isbn"`
	Language     yamlutil.Scalar `yaml:"language"`
	Pubdate      yamlutil.Scalar `yaml:"pubdate"`
	Publisher    yamlutil.Scalar `yaml:"publisher"`
	Rating       yamlutil.Scalar `yaml:"rating"`
	Series       yamlutil.Scalar `yaml:"series"`
	SeriesIndex  yamlutil.Scalar `yaml:"series_index"`
	Tags         yamlutil.Scalar `yaml:"tags"`

	Chapters      []chapterDocument `yaml:"chapters"`
	Substitutions []yamlutil.Fields `yaml:"substitutions"`
	Stylesheet    yamlutil.Scalar   `yaml:"stylesheet"`
	Params        paramList         `yaml:"ebookconvert_params"`
	Outputs       []outputDocument  `yaml:"outputs"`
}

type chapterDocument struct {
	Src     yamlutil.Scalar `yaml:"src"`
	Publish *bool           `yaml:"publish"`
}

type outputDocument struct {
	Name         yamlutil.Scalar `yaml:"name"`
	Path         yamlutil.Scalar `yaml:"path"`
	Type         yamlutil.Scalar `yaml:"type"`
	Stylesheet   yamlutil.Scalar `yaml:"stylesheet"`
	Params       paramList       `yaml:"ebookconvert_params"`
	ForcePublish bool            `yaml:"force_publish"`
}

// paramList accepts a list of tokens or a single token.
type paramList []string

// UnmarshalYAML implements the goccy/go-yaml interface unmarshaler.
func (p *paramList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = nil
	case []any:
		list := make(paramList, 0, len(v))
		for _, item := range v {
			list = append(list, yamlutil.Stringify(item))
		}
		*p = list
	default:
		*p = paramList{yamlutil.Stringify(v)}
	}
	return nil
}

// hasBook reports whether the document carries any book data.
func (d *projectDocument) hasBook() bool {
	if len(d.Chapters) > 0 {
		return true
	}
	for _, s := range d.bookScalars() {
		if s.Set {
			return true
		}
	}
	return false
}

func (d *projectDocument) bookScalars() []yamlutil.Scalar {
	return []yamlutil.Scalar{
		d.Title, d.Authors, d.AuthorSort, d.BookProducer, d.Comments, d.Cover,
		d.ISBN, d.Language, d.Pubdate, d.Publisher, d.Rating, d.Series,
		d.SeriesIndex, d.Tags,
	}
}

// toBook maps the book fields. A blank title is missing.
func (d *projectDocument) toBook() (*Book, error) {
	if strings.TrimSpace(d.Title.Value) == "" {
		return nil, &MissingFieldError{Field: "title"}
	}

	book := &Book{
		Title:        d.Title.Value,
		Authors:      d.Authors.Value,
		AuthorSort:   d.AuthorSort.Value,
		BookProducer: d.BookProducer.Value,
		Comments:     d.Comments.Value,
		Cover:        d.Cover.Value,
		ISBN:         d.ISBN.Value,
		Language:     d.Language.Value,
		Pubdate:      d.Pubdate.Value,
		Publisher:    d.Publisher.Value,
		Rating:       d.Rating.Value,
		Series:       d.Series.Value,
		SeriesIndex:  d.SeriesIndex.Value,
		Tags:         d.Tags.Value,
		Chapters:     make([]Chapter, 0, len(d.Chapters)),
	}

	for i, ch := range d.Chapters {
		if strings.TrimSpace(ch.Src.Value) == "" {
			return nil, &MissingFieldError{Field: fmt.Sprintf("chapters[%d].src", i)}
		}
		publish := true
		if ch.Publish != nil {
			publish = *ch.Publish
		}
		book.Chapters = append(book.Chapters, Chapter{Src: ch.Src.Value, Publish: publish})
	}

	return book, nil
}

func (d *projectDocument) toSubstitutions() ([]Substitution, error) {
	subs := make([]Substitution, 0, len(d.Substitutions))
	for i, fields := range d.Substitutions {
		sub, err := NewSubstitution(fields)
		if err != nil {
			return nil, fmt.Errorf("substitutions[%d]: %w", i, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// toOutputs resolves each output's kind and merges the project-level
// stylesheet and params into it. The merge does not depend on the kind.
func (d *projectDocument) toOutputs() ([]*Output, error) {
	outputs := make([]*Output, 0, len(d.Outputs))
	for i, od := range d.Outputs {
		path := strings.TrimSpace(od.Path.Value)
		if path == "" {
			return nil, &MissingFieldError{Field: fmt.Sprintf("outputs[%d].path", i)}
		}

		kind, err := resolveKind(od.Type.Value, path)
		if err != nil {
			return nil, fmt.Errorf("outputs[%d]: %w", i, err)
		}

		name := od.Name.Value
		if !od.Name.Set || strings.TrimSpace(name) == "" {
			name = path
		}

		outputs = append(outputs, &Output{
			Name:         name,
			Path:         path,
			Kind:         kind,
			Stylesheet:   ResolveStylesheet(od.Stylesheet.Value, d.Stylesheet.Value),
			ForcePublish: od.ForcePublish,
			Params:       MergeParams(d.Params, od.Params),
		})
	}
	return outputs, nil
}
