// Package config loads the user-level tool configuration: which converter
// binary to run, how long a build may take, where custom assets live and the
// fallback stylesheet.
//
// Project documents describe a book; this file describes the machine.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidTimeout  = errors.New("invalid timeout")
)

// Field length limits.
const (
	MaxPathLength  = 4096
	MaxStyleLength = 100
	MaxParamLength = 1024
	MaxParams      = 64
)

// DefaultBinary is the Calibre converter looked up on PATH.
const DefaultBinary = "ebook-convert"

// UserConfigDirName is the directory under os.UserConfigDir searched for
// named configs.
const UserConfigDirName = "go-md2ebook"

// Config holds the tool configuration.
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	Assets    AssetsConfig    `yaml:"assets"`
	CSS       CSSConfig       `yaml:"css"`
}

// ConverterConfig defines how external conversions run.
type ConverterConfig struct {
	Binary  string   `yaml:"binary"`  // Empty = DefaultBinary
	Timeout string   `yaml:"timeout"` // Go duration, empty = no timeout
	Params  []string `yaml:"params"`  // Appended before project-level params
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// CSSConfig defines the stylesheet used when a project declares none.
type CSSConfig struct {
	Style string `yaml:"style"` // Empty = no stylesheet
}

// Validate checks field lengths and the timeout syntax.
func (c *Config) Validate() error {
	if err := validateFieldLength("converter.binary", c.Converter.Binary, MaxPathLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if len(c.Converter.Params) > MaxParams {
		return fmt.Errorf("converter.params: %d entries, max %d", len(c.Converter.Params), MaxParams)
	}
	for i, p := range c.Converter.Params {
		if err := validateFieldLength(fmt.Sprintf("converter.params[%d]", i), p, MaxParamLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("css.style", c.CSS.Style, MaxStyleLength)
}

// TimeoutDuration parses Converter.Timeout. Empty means no timeout (zero).
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Converter.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.Converter.Timeout))
	if err != nil {
		return 0, fmt.Errorf("%w: converter.timeout %q", ErrInvalidTimeout, c.Converter.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: converter.timeout must not be negative", ErrInvalidTimeout)
	}
	return d, nil
}

// BinaryOrDefault returns the configured converter binary or DefaultBinary.
func (c *Config) BinaryOrDefault() string {
	if b := strings.TrimSpace(c.Converter.Binary); b != "" {
		return b
	}
	return DefaultBinary
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Converter: ConverterConfig{Binary: DefaultBinary},
	}
}

// LoadConfig reads a config by path or by name. Anything containing a path
// separator is a path; a bare name is looked up by configCandidates. A
// missing file is an error, never a silent fallback to defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path, err := locate(nameOrPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- chosen by the user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

func locate(nameOrPath string) (string, error) {
	if isFilePath(nameOrPath) {
		return nameOrPath, nil
	}
	candidates := configCandidates(nameOrPath)
	for _, c := range candidates {
		if fileutil.FileExists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}

// configCandidates lists name.yaml and name.yml in the working directory,
// then the same names under the user config directory.
func configCandidates(name string) []string {
	dirs := []string{""}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, UserConfigDirName))
	}
	var out []string
	for _, dir := range dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			out = append(out, filepath.Join(dir, name+ext))
		}
	}
	return out
}
