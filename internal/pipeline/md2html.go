package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates goldmark failed to render a chapter.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// CodeStyle is the chroma style used for fenced code blocks. E-readers render
// on white, so a light style is used.
const CodeStyle = "github"

// HTMLConverter renders one chapter of markdown to an HTML body fragment.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter renders with goldmark: GFM, footnotes, smart punctuation,
// heading ids and highlighted code. Raw HTML in the source is escaped and the
// output is XHTML, which EPUB content documents require.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

func NewGoldmarkConverter() *GoldmarkConverter {
	// Inline styles rather than classes: converters drop unknown classes.
	codeBlocks := highlighting.NewHighlighting(
		highlighting.WithStyle(CodeStyle),
		highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
	)

	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.Typographer, codeBlocks),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)}
}

// ToHTML renders content and turns highlight placeholders into <mark>.
// goldmark has no context support, so cancellation only stops the wait.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		body string
		err  error
	}
	out := make(chan rendered, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			out <- rendered{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		out <- rendered{body: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case r := <-out:
		return r.body, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var _ HTMLConverter = (*GoldmarkConverter)(nil)
