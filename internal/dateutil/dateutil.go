// Package dateutil resolves publication dates written as "auto" or "auto:FORMAT".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat reports a malformed "auto:FORMAT" value.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds FORMAT.
const MaxDateFormatLength = 50

// DefaultDateFormat applies to a bare "auto". ebook-convert reads ISO dates
// without ambiguity.
const DefaultDateFormat = "YYYY-MM-DD"

const autoKeyword = "auto"

// layoutTokens turns format tokens into Go layout pieces. At equal positions
// the replacer prefers earlier pairs, so longer tokens come first.
var layoutTokens = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"M", "1",
	"D", "2",
)

// DatePresets names common formats usable as "auto:<preset>".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat turns a token format such as "DD/MM/YYYY" into a Go layout.
// Bracketed text is kept verbatim: "[Published] YYYY".
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			b.WriteString(layoutTokens.Replace(rest))
			break
		}
		b.WriteString(layoutTokens.Replace(rest[:open]))
		literal, after, ok := strings.Cut(rest[open+1:], "]")
		if !ok {
			return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest)+open)
		}
		b.WriteString(literal)
		rest = after
	}
	return b.String(), nil
}

// ResolveDate expands "auto" values against t and returns anything else unchanged:
//   - "auto"         -> t in YYYY-MM-DD
//   - "auto:FORMAT"  -> t in FORMAT (tokens or a preset name)
func ResolveDate(value string, t time.Time) (string, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, autoKeyword) {
		return value, nil
	}

	format := DefaultDateFormat
	switch {
	case lower == autoKeyword:
	case strings.HasPrefix(lower, autoKeyword+":"):
		format = trimmed[len(autoKeyword)+1:]
		if format == "" {
			return "", fmt.Errorf("%w: nothing after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	default:
		return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
