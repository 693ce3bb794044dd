package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-md2ebook/internal/config"
)

type changedFlags map[string]bool

func (c changedFlags) Changed(name string) bool { return c[name] }

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"MD2EBOOK_CONFIG":        " work ",
		"MD2EBOOK_EBOOK_CONVERT": "/usr/bin/ebook-convert",
		"MD2EBOOK_TIMEOUT":       "90s",
		"MD2EBOOK_ASSETS":        "./assets",
		"MD2EBOOK_STYLE":         "plain",
	}
	cfg, err := loadEnvConfig(func(k string) string { return vars[k] })
	require.NoError(t, err)

	assert.Equal(t, &envConfig{
		ConfigPath:   "work",
		EbookConvert: "/usr/bin/ebook-convert",
		Timeout:      90 * time.Second,
		Assets:       "./assets",
		Style:        "plain",
	}, cfg)
}

func TestLoadEnvConfig_InvalidTimeout(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"soon", "-5s"} {
		_, err := loadEnvConfig(func(k string) string {
			if k == "MD2EBOOK_TIMEOUT" {
				return raw
			}
			return ""
		})
		assert.ErrorIs(t, err, config.ErrInvalidTimeout, raw)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MD2EBOOK_STYLE=plain",
		"MD2EBOOK_STYEL=plain",
		"HOME=/root",
		"PANDOC_STYLE=x",
	})

	assert.Equal(t, "warning: unknown environment variable MD2EBOOK_STYEL (typo?)\n", buf.String())
}

func TestResolveConfig_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `converter:
  binary: from-file
  timeout: 1m
  params: [--verbose]
css:
  style: file-style
`)

	tests := []struct {
		name        string
		vars        map[string]string
		flags       commonFlags
		changed     changedFlags
		wantBinary  string
		wantTimeout string
		wantStyle   string
	}{
		{
			name:        "file only",
			flags:       commonFlags{config: cfgPath},
			wantBinary:  "from-file",
			wantTimeout: "1m",
			wantStyle:   "file-style",
		},
		{
			name:        "env over file",
			vars:        map[string]string{"MD2EBOOK_EBOOK_CONVERT": "from-env", "MD2EBOOK_TIMEOUT": "2m", "MD2EBOOK_STYLE": "env-style"},
			flags:       commonFlags{config: cfgPath},
			wantBinary:  "from-env",
			wantTimeout: "2m0s",
			wantStyle:   "env-style",
		},
		{
			name:        "flags over env",
			vars:        map[string]string{"MD2EBOOK_EBOOK_CONVERT": "from-env", "MD2EBOOK_TIMEOUT": "2m"},
			flags:       commonFlags{config: cfgPath, ebookConvert: "from-flag", timeout: 3 * time.Minute, style: "flag-style"},
			changed:     changedFlags{"timeout": true},
			wantBinary:  "from-flag",
			wantTimeout: "3m0s",
			wantStyle:   "flag-style",
		},
		{
			name:        "config from env",
			vars:        map[string]string{"MD2EBOOK_CONFIG": cfgPath},
			wantBinary:  "from-file",
			wantTimeout: "1m",
			wantStyle:   "file-style",
		},
		{
			name:        "defaults",
			wantBinary:  config.DefaultBinary,
			wantTimeout: "",
			wantStyle:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tio := newTestIO(tt.vars)
			cfg, err := resolveConfig(&tt.flags, tt.changed, tio.env)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBinary, cfg.BinaryOrDefault())
			assert.Equal(t, tt.wantTimeout, cfg.Converter.Timeout)
			assert.Equal(t, tt.wantStyle, cfg.CSS.Style)
		})
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()
		tio := newTestIO(nil)
		_, err := resolveConfig(&commonFlags{config: dir + "/missing.yaml"}, nil, tio.env)
		assert.ErrorIs(t, err, config.ErrConfigNotFound)
	})

	t.Run("negative flag timeout", func(t *testing.T) {
		t.Parallel()
		tio := newTestIO(nil)
		_, err := resolveConfig(&commonFlags{timeout: -time.Second}, changedFlags{"timeout": true}, tio.env)
		assert.ErrorIs(t, err, config.ErrInvalidTimeout)
	})
}
