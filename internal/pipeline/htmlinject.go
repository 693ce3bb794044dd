package pipeline

import (
	"context"
	"strings"
)

// StyleInjector embeds a stylesheet into an assembled book document.
type StyleInjector interface {
	InjectStyle(ctx context.Context, doc, css string) string
}

// HeadStyleInjector places the stylesheet in the document head so every
// consumer (browser, ebook-convert, e-reader) sees it before the first
// chapter. Documents without a head get one after the <html> tag; bare
// fragments get the <style> block prepended.
type HeadStyleInjector struct{}

// InjectStyle implements StyleInjector. Blank CSS or a cancelled context
// leaves doc unchanged.
func (HeadStyleInjector) InjectStyle(ctx context.Context, doc, css string) string {
	if strings.TrimSpace(css) == "" || ctx.Err() != nil {
		return doc
	}

	style := "<style>" + sanitizeCSS(css) + "</style>"
	lower := strings.ToLower(doc)

	if i := strings.Index(lower, "</head>"); i >= 0 {
		return doc[:i] + style + doc[i:]
	}
	if end := openTagEnd(lower, "<html"); end >= 0 {
		return doc[:end] + "<head>" + style + "</head>" + doc[end:]
	}
	return style + doc
}

// openTagEnd returns the index just past the first opening tag named by
// prefix, or -1.
func openTagEnd(lower, prefix string) int {
	i := strings.Index(lower, prefix)
	if i < 0 {
		return -1
	}
	j := strings.IndexByte(lower[i:], '>')
	if j < 0 {
		return -1
	}
	return i + j + 1
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ StyleInjector = HeadStyleInjector{}
