package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-md2ebook/internal/config"
)

const envPrefix = "MD2EBOOK_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // MD2EBOOK_CONFIG: config name or path
	EbookConvert string        // MD2EBOOK_EBOOK_CONVERT: converter binary
	Timeout      time.Duration // MD2EBOOK_TIMEOUT: per-output conversion timeout
	Assets       string        // MD2EBOOK_ASSETS: custom styles and templates directory
	Style        string        // MD2EBOOK_STYLE: fallback stylesheet
}

// knownEnvVars lists valid MD2EBOOK_* environment variables.
// Used to warn about typos.
var knownEnvVars = map[string]bool{
	"MD2EBOOK_CONFIG":        true,
	"MD2EBOOK_EBOOK_CONVERT": true,
	"MD2EBOOK_TIMEOUT":       true,
	"MD2EBOOK_ASSETS":        true,
	"MD2EBOOK_STYLE":         true,
}

// loadEnvConfig reads the MD2EBOOK_* variables. An unparsable or negative
// timeout is an error.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath:   strings.TrimSpace(getenv("MD2EBOOK_CONFIG")),
		EbookConvert: strings.TrimSpace(getenv("MD2EBOOK_EBOOK_CONVERT")),
		Assets:       strings.TrimSpace(getenv("MD2EBOOK_ASSETS")),
		Style:        strings.TrimSpace(getenv("MD2EBOOK_STYLE")),
	}

	if raw := strings.TrimSpace(getenv("MD2EBOOK_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: MD2EBOOK_TIMEOUT=%q", config.ErrInvalidTimeout, raw)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// warnUnknownEnvVars reports unrecognized MD2EBOOK_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with the set variables.
// CLI flags are applied afterwards by mergeFlags, giving
// flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.EbookConvert != "" {
		cfg.Converter.Binary = env.EbookConvert
	}
	if env.Timeout > 0 {
		cfg.Converter.Timeout = env.Timeout.String()
	}
	if env.Assets != "" {
		cfg.Assets.BasePath = env.Assets
	}
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
}
