package md2ebook

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputKind selects how an output is produced.
type OutputKind string

// Output kinds.
const (
	// KindHTML writes the assembled book as a single HTML file.
	KindHTML OutputKind = "html"
	// KindEbookConvert renders to a temporary HTML file and runs ebook-convert on it.
	KindEbookConvert OutputKind = "ebook-convert"
	// KindPDF prints the assembled book with headless Chrome.
	KindPDF OutputKind = "pdf"
)

// Output is a build target. Stylesheet and Params are already merged with the
// project-level values when the output comes from a loaded project.
type Output struct {
	Name         string
	Path         string
	Kind         OutputKind
	Stylesheet   string // empty means none
	ForcePublish bool
	Params       []string
}

// kindRules infers a kind from the destination extension. Paths matching no
// rule are converted with ebook-convert.
var kindRules = []struct {
	extensions []string
	kind       OutputKind
}{
	{[]string{".html", ".htm"}, KindHTML},
}

// InferKind returns the kind implied by path's extension.
func InferKind(path string) OutputKind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, rule := range kindRules {
		for _, e := range rule.extensions {
			if ext == e {
				return rule.kind
			}
		}
	}
	return KindEbookConvert
}

// ParseKind validates an explicit output type.
func ParseKind(s string) (OutputKind, error) {
	kind := OutputKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := variants[kind]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownOutputType, s, strings.Join(Kinds(), ", "))
	}
	return kind, nil
}

// Kinds lists the supported output kinds.
func Kinds() []string {
	return []string{string(KindHTML), string(KindEbookConvert), string(KindPDF)}
}

// resolveKind applies the explicit type when given, else the extension rule.
func resolveKind(explicit, path string) (OutputKind, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseKind(explicit)
	}
	return InferKind(path), nil
}

// ResolveStylesheet picks the output-local stylesheet, else the project-level
// one, else none. Blank values count as absent.
func ResolveStylesheet(local, global string) string {
	if s := strings.TrimSpace(local); s != "" {
		return s
	}
	return strings.TrimSpace(global)
}

// NormalizeParam trims surrounding whitespace and prefixes "--" unless present.
// Internal whitespace, newlines included, is kept. Blank tokens normalize to "".
func NormalizeParam(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "--") {
		return p
	}
	return "--" + p
}

// MergeParams returns the normalized global params followed by the normalized
// local params. Blank tokens are dropped.
func MergeParams(global, local []string) []string {
	merged := make([]string, 0, len(global)+len(local))
	for _, list := range [][]string{global, local} {
		for _, p := range list {
			if n := NormalizeParam(p); n != "" {
				merged = append(merged, n)
			}
		}
	}
	return merged
}

// FindOutput returns the first output named name.
func FindOutput(outputs []*Output, name string) (*Output, error) {
	for _, o := range outputs {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, &OutputNotFoundError{Name: name}
}
