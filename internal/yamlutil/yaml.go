// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal ignores unknown fields in the input.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Field is one key/value pair of a mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a mapping that keeps its keys in document order.
type Fields []Field

// UnmarshalYAML decodes a mapping node, preserving key order.
func (f *Fields) UnmarshalYAML(unmarshal func(any) error) error {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return err
	}
	fields := make(Fields, 0, len(ms))
	for _, item := range ms {
		fields = append(fields, Field{Key: fmt.Sprint(item.Key), Value: item.Value})
	}
	*f = fields
	return nil
}

// Keys returns the mapping keys in document order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// Lookup returns the value stored under key.
func (f Fields) Lookup(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// HasExactly reports whether the mapping holds exactly the given keys, in any order.
func (f Fields) HasExactly(keys ...string) bool {
	if len(f) != len(keys) {
		return false
	}
	for _, key := range keys {
		if _, ok := f.Lookup(key); !ok {
			return false
		}
	}
	return true
}

// Scalar accepts any YAML scalar (or a list of scalars) and keeps its text form.
// Numbers and booleans are formatted; lists are joined with ", ".
// Set reports whether the key was present in the document at all.
type Scalar struct {
	Value string
	Set   bool
}

// UnmarshalYAML implements the goccy/go-yaml interface unmarshaler.
func (s *Scalar) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	s.Set = true
	s.Value = Stringify(raw)
	return nil
}

// Stringify renders a decoded YAML value as text.
// Nil becomes the empty string and sequences are joined with ", ".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Stringify(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
