package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight markers survive goldmark as literal text (Private Use Area code
// points) and become <mark> tags once the chapter is rendered, so raw HTML
// can stay disabled.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

const byteOrderMark = "\uFEFF"

var (
	lineBreaks    = regexp.MustCompile(`\r\n?`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
	highlightSpan = regexp.MustCompile(`==([^=\n]+?)==`)
	// Front matter: a leading "---" line up to the next "---" or "..." line.
	frontMatter = regexp.MustCompile(`\A---[ \t]*\n(?s:.*?)\n(?:---|\.\.\.)[ \t]*(?:\n|\z)`)
)

// ChapterPreprocessor prepares chapter sources for rendering.
type ChapterPreprocessor interface {
	Preprocess(ctx context.Context, src string) string
}

// SourcePreprocessor cleans up editor artifacts in chapter files: byte order
// marks, CR line endings, YAML front matter and long runs of blank lines.
// It also turns ==text== into highlight markers.
type SourcePreprocessor struct {
	// KeepFrontMatter leaves a leading front matter block in the text.
	KeepFrontMatter bool
}

// Preprocess implements ChapterPreprocessor. A cancelled context returns src
// unchanged; the caller checks ctx afterwards.
func (p *SourcePreprocessor) Preprocess(ctx context.Context, src string) string {
	if ctx.Err() != nil {
		return src
	}

	src = strings.TrimPrefix(src, byteOrderMark)
	src = lineBreaks.ReplaceAllString(src, "\n")
	if !p.KeepFrontMatter {
		src = frontMatter.ReplaceAllString(src, "")
	}
	src = highlightSpan.ReplaceAllString(src, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return blankRuns.ReplaceAllString(src, "\n\n")
}

// ConvertMarkPlaceholders turns highlight markers into <mark> elements.
func ConvertMarkPlaceholders(html string) string {
	return markReplacer.Replace(html)
}

var markReplacer = strings.NewReplacer(
	MarkStartPlaceholder, "<mark>",
	MarkEndPlaceholder, "</mark>",
)

// Compile-time interface check.
var _ ChapterPreprocessor = (*SourcePreprocessor)(nil)
