package md2ebook

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-md2ebook/internal/assets"
	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/pipeline"
)

// DefaultEbookConvert is the converter binary looked up on PATH.
const DefaultEbookConvert = "ebook-convert"

// MakeResult describes one finished output build.
type MakeResult struct {
	Output   string
	Path     string
	Kind     OutputKind
	Duration time.Duration
	Err      error
}

// Reporter receives a MakeResult after each output build.
type Reporter func(MakeResult)

// buildJob is the state handed to a variant builder.
type buildJob struct {
	project  *Project
	output   *Output
	document string // assembled HTML with stylesheet
	dest     string // output path resolved against the project directory
}

// variant is the production routine of an output kind. Detached variants
// render the document away from the project directory, so chapter resource
// paths are made absolute for them.
type variant struct {
	build    func(m *Maker, ctx context.Context, job *buildJob) error
	detached bool
}

// variants is the closed set of output kinds. A new kind needs an entry
// here and, optionally, a rule in kindRules.
var variants = map[OutputKind]variant{
	KindHTML:         {build: (*Maker).buildHTML},
	KindEbookConvert: {build: (*Maker).buildEbookConvert, detached: true},
	KindPDF:          {build: (*Maker).buildPDF, detached: true},
}

// Maker builds project outputs.
// Create with NewMaker, call Make, and Close when done.
type Maker struct {
	logger            *slog.Logger
	timeout           time.Duration
	binary            string
	extraParams       []string
	assetPath         string
	defaultStylesheet string
	reporter          Reporter

	assets        assets.AssetLoader
	reader        SourceReader // nil: DirReader on Project.Dir
	runner        CommandRunner
	preprocessor  pipeline.ChapterPreprocessor
	htmlConverter pipeline.HTMLConverter
	styler        pipeline.StyleInjector
	assembler     *pipeline.BookAssembler
	pdf           pdfConverter // created on first PDF output
}

// NewMaker creates a Maker. Returns an error if the asset path is invalid or
// the book template does not parse.
func NewMaker(opts ...MakerOption) (*Maker, error) {
	m := &Maker{
		logger:        discardLogger(),
		binary:        DefaultEbookConvert,
		runner:        ExecRunner{},
		preprocessor:  &pipeline.SourcePreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		styler:        pipeline.HeadStyleInjector{},
	}

	for _, opt := range opts {
		opt(m)
	}

	resolver, err := assets.NewAssetResolver(m.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	m.assets = resolver

	tmpl, err := m.assets.LoadTemplate(assets.BookTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading book template: %w", err)
	}
	if m.assembler, err = pipeline.NewBookAssembler(tmpl); err != nil {
		return nil, err
	}

	return m, nil
}

// Close releases the browser if a PDF output started one.
func (m *Maker) Close() error {
	if m.pdf != nil {
		err := m.pdf.Close()
		m.pdf = nil
		return err
	}
	return nil
}

// Make builds the output named name, or every output when name is empty.
// Failures are returned as *BuildError.
func (m *Maker) Make(ctx context.Context, p *Project, name string) error {
	if name == "" {
		return m.MakeAll(ctx, p)
	}

	o, err := FindOutput(p.Outputs, name)
	if err != nil {
		return err
	}
	if err := m.MakeOutput(ctx, p, o); err != nil {
		return &BuildError{Output: o.Name, Err: err}
	}
	return nil
}

// MakeAll builds every output in declaration order. Each output is attempted
// even when an earlier one fails; the failures are joined. Cancellation stops
// before the next output.
func (m *Maker) MakeAll(ctx context.Context, p *Project) error {
	var errs []error
	for _, o := range p.Outputs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := m.MakeOutput(ctx, p, o); err != nil {
			errs = append(errs, &BuildError{Output: o.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// MakeOutput builds o, which need not belong to p.Outputs.
func (m *Maker) MakeOutput(ctx context.Context, p *Project, o *Output) (err error) {
	start := time.Now()
	dest := fileutil.ResolvePath(p.Dir, o.Path)
	log := m.logger.With(slog.String("output", o.Name), slog.String("kind", string(o.Kind)))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		result := MakeResult{Output: o.Name, Path: dest, Kind: o.Kind, Duration: time.Since(start), Err: err}
		if err != nil {
			log.Error("build failed", slog.Any("error", err))
		} else {
			log.Info("built", slog.String("path", dest), slog.Duration("duration", result.Duration))
		}
		if m.reporter != nil {
			m.reporter(result)
		}
	}()

	v, ok := variants[o.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOutputType, o.Kind)
	}

	doc, err := m.renderBook(ctx, p, o, v.detached)
	if err != nil {
		return err
	}

	return v.build(m, ctx, &buildJob{project: p, output: o, document: doc, dest: dest})
}

// renderBook turns the publishable chapters into one styled HTML document.
// Substitutions run on each rendered chapter before assembly.
func (m *Maker) renderBook(ctx context.Context, p *Project, o *Output, detached bool) (string, error) {
	reader := m.reader
	if reader == nil {
		reader = DirReader{Dir: p.Dir}
	}

	chapters := p.Book.Select(o.ForcePublish)
	data := &pipeline.BookData{
		Title:    p.Book.Title,
		Language: p.Book.Language,
		Authors:  p.Book.AuthorList(),
		Chapters: make([]pipeline.ChapterData, 0, len(chapters)),
	}

	anchors := pipeline.NewAnchors()
	for i, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id := pipeline.ChapterID(i)
		body, err := m.renderChapter(ctx, reader, p.Substitutions, ch, id, anchors, detached)
		if err != nil {
			return "", err
		}
		m.logger.Debug("chapter rendered", slog.String("src", ch.Src))

		data.Chapters = append(data.Chapters, pipeline.ChapterData{
			ID:   id,
			Body: template.HTML(body), // #nosec G203 -- converter output with raw HTML escaped
		})
	}

	// Links can target ids of later chapters, so they are resolved once
	// every chapter is scoped.
	for i, ch := range data.Chapters {
		body, err := pipeline.RelinkAnchors(string(ch.Body), ch.ID, anchors)
		if err != nil {
			return "", fmt.Errorf("linking %s: %w", chapters[i].Src, err)
		}
		data.Chapters[i].Body = template.HTML(body) // #nosec G203 -- re-rendered converter output
	}

	doc, err := m.assembler.Assemble(ctx, data)
	if err != nil {
		return "", err
	}

	ref := o.Stylesheet
	if ref == "" {
		ref = m.defaultStylesheet
	}
	css, err := m.loadStylesheet(p.Dir, ref)
	if err != nil {
		return "", err
	}

	doc = m.styler.InjectStyle(ctx, doc, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return doc, nil
}

// renderChapter reads, renders and substitutes one chapter. Element ids are
// scoped by the chapter id so chapters can share a document, and recorded in
// anchors.
func (m *Maker) renderChapter(ctx context.Context, reader SourceReader, subs []Substitution, ch Chapter, id string, anchors *pipeline.Anchors, detached bool) (string, error) {
	src, err := reader.ReadSource(ch.Src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadChapter, ch.Src, err)
	}

	md := m.preprocessor.Preprocess(ctx, src)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := m.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("converting %s to HTML: %w", ch.Src, err)
	}

	if body, err = ApplySubstitutions(subs, body); err != nil {
		return "", fmt.Errorf("%s: %w", ch.Src, err)
	}

	if body, err = pipeline.ScopeIDs(body, id, anchors); err != nil {
		return "", fmt.Errorf("scoping ids in %s: %w", ch.Src, err)
	}

	if direr, ok := reader.(sourceDirer); ok && detached {
		if body, err = pipeline.RewriteRelativePaths(body, direr.SourceDir(ch.Src), direr.RootDir()); err != nil {
			return "", fmt.Errorf("rewriting relative paths in %s: %w", ch.Src, err)
		}
	}
	return body, nil
}

// loadStylesheet resolves a stylesheet reference: inline CSS (contains "{"),
// a file path relative to the project directory, or a built-in style name.
func (m *Maker) loadStylesheet(dir, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", nil
	case fileutil.IsCSS(ref):
		return ref, nil
	case fileutil.IsFilePath(ref):
		content, err := os.ReadFile(fileutil.ResolvePath(dir, ref)) // #nosec G304 -- stylesheet path comes from the project
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrStyleNotFound, ref, err)
		}
		return string(content), nil
	default:
		css, err := m.assets.LoadStyle(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStyleNotFound, err)
		}
		return css, nil
	}
}

// buildHTML writes the document to the output path.
func (m *Maker) buildHTML(_ context.Context, job *buildJob) error {
	if err := fileutil.WriteFile(job.dest, []byte(job.document)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// StyleNames lists the built-in stylesheet names.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}

// withTimeout derives the per-conversion context.
func (m *Maker) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(ctx, m.timeout)
	}
	return context.WithCancel(ctx)
}
