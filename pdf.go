package md2ebook

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/pipeline"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// pdfRenderer renders a local HTML file, enabling tests without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// pageGeometry is a printed page size and uniform margin, in inches.
type pageGeometry struct {
	width, height, margin float64
}

// tradePaperback is the 6x9 inch book format used unless the stylesheet sets
// its own @page size.
var tradePaperback = pageGeometry{width: 6, height: 9, margin: 0.6}

// printOptions prefers CSS page sizes and falls back to g.
func (g pageGeometry) printOptions() *proto.PagePrintToPDF {
	inches := func(v float64) *float64 { return &v }
	return &proto.PagePrintToPDF{
		PaperWidth:        inches(g.width),
		PaperHeight:       inches(g.height),
		MarginTop:         inches(g.margin),
		MarginBottom:      inches(g.margin),
		MarginLeft:        inches(g.margin),
		MarginRight:       inches(g.margin),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// defaultPageLoad bounds page loading when no timeout is configured.
const defaultPageLoad = 60 * time.Second

// browserSettings are read from ROD_BROWSER_BIN, ROD_NO_SANDBOX and CI.
// A custom binary or a CI run disables the Chrome sandbox.
type browserSettings struct {
	bin       string
	noSandbox bool
}

func browserSettingsFrom(getenv func(string) string) browserSettings {
	bin := getenv("ROD_BROWSER_BIN")
	return browserSettings{
		bin:       bin,
		noSandbox: bin != "" || getenv("ROD_NO_SANDBOX") == "1" || getenv("CI") == "true",
	}
}

func (s browserSettings) launcher() *launcher.Launcher {
	l := launcher.New().NoSandbox(s.noSandbox)
	if s.bin != "" {
		l = l.Bin(s.bin)
	}
	return l
}

// rodRenderer prints local HTML files with a lazily started headless Chrome.
// Rod downloads Chromium on first use if no browser is installed.
type rodRenderer struct {
	browser  *rod.Browser
	settings browserSettings
	page     pageGeometry
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	if timeout <= 0 {
		timeout = defaultPageLoad
	}
	return &rodRenderer{
		settings: browserSettingsFrom(os.Getenv),
		page:     tradePaperback,
		timeout:  timeout,
	}
}

func (r *rodRenderer) connect() error {
	if r.browser != nil {
		return nil
	}

	u, err := r.settings.launcher().Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return nil
}

// Close stops the browser. It is safe to call more than once.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// RenderFromFile loads filePath and prints it. A context deadline replaces
// the page load timeout.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.connect(); err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: pipeline.FileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	wait := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if wait = time.Until(deadline); wait <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(wait).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(r.page.printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// rodConverter converts HTML to PDF through a temporary file.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF writes htmlContent to a temporary file and renders it.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// buildPDF prints the document with headless Chrome and writes the bytes.
func (m *Maker) buildPDF(ctx context.Context, job *buildJob) error {
	if m.pdf == nil {
		m.pdf = newRodConverter(m.timeout)
	}

	renderCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	pdf, err := m.pdf.ToPDF(renderCtx, job.document)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFile(job.dest, pdf); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)
