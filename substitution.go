package md2ebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/alnah/go-md2ebook/internal/yamlutil"
)

// DefaultMatchTimeout bounds a single pattern substitution.
const DefaultMatchTimeout = 5 * time.Second

// Substitution rewrites rendered chapter text.
type Substitution interface {
	Apply(text string) (string, error)
}

// LiteralSubstitution replaces every occurrence of Old with New.
// An empty Old leaves the text unchanged.
type LiteralSubstitution struct {
	Old string
	New string
}

// Apply implements Substitution.
func (s *LiteralSubstitution) Apply(text string) (string, error) {
	if s.Old == "" {
		return text, nil
	}
	return strings.ReplaceAll(text, s.Old, s.New), nil
}

// PatternSubstitution replaces every match of a regular expression.
// Patterns accept RE2 syntax including (?P<name>...) plus lookaround;
// ReplaceWith refers to groups as $1, ${1} or ${name}.
type PatternSubstitution struct {
	Pattern     string
	ReplaceWith string
	re          *regexp2.Regexp
}

// NewPatternSubstitution compiles pattern once. Invalid patterns fail with
// ErrInvalidPattern.
func NewPatternSubstitution(pattern, replaceWith string) (*PatternSubstitution, error) {
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	re.MatchTimeout = DefaultMatchTimeout
	return &PatternSubstitution{Pattern: pattern, ReplaceWith: replaceWith, re: re}, nil
}

// Apply implements Substitution. A match exceeding DefaultMatchTimeout fails
// with ErrSubstitution.
func (s *PatternSubstitution) Apply(text string) (string, error) {
	out, err := s.re.Replace(text, s.ReplaceWith, -1, -1)
	if err != nil {
		return "", fmt.Errorf("%w: pattern %q: %v", ErrSubstitution, s.Pattern, err)
	}
	return out, nil
}

// NewSubstitution builds a substitution from a declaration by its exact key
// set: {old, new} is literal and {pattern, replace_with} is a pattern.
// Values of any scalar type are used as text.
func NewSubstitution(fields yamlutil.Fields) (Substitution, error) {
	text := func(key string) string {
		v, _ := fields.Lookup(key)
		return yamlutil.Stringify(v)
	}

	switch {
	case fields.HasExactly("old", "new"):
		return &LiteralSubstitution{Old: text("old"), New: text("new")}, nil
	case fields.HasExactly("pattern", "replace_with"):
		return NewPatternSubstitution(text("pattern"), text("replace_with"))
	default:
		return nil, &UnrecognizedSubstitutionError{Keys: fields.Keys()}
	}
}

// ApplySubstitutions runs subs in order, each on the previous result.
func ApplySubstitutions(subs []Substitution, text string) (string, error) {
	for _, sub := range subs {
		var err error
		if text, err = sub.Apply(text); err != nil {
			return "", err
		}
	}
	return text, nil
}
