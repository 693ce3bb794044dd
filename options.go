package md2ebook

import (
	"io"
	"log/slog"
	"time"
)

// MakerOption configures a Maker.
type MakerOption func(*Maker)

// WithLogger sets the logger for build progress. The default discards.
func WithLogger(l *slog.Logger) MakerOption {
	return func(m *Maker) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTimeout bounds each converter run and each PDF render. Zero disables
// the limit. Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) MakerOption {
	if d < 0 {
		panic("md2ebook: WithTimeout duration must not be negative")
	}
	return func(m *Maker) {
		m.timeout = d
	}
}

// WithEbookConvert sets the converter binary name or path.
func WithEbookConvert(binary string) MakerOption {
	return func(m *Maker) {
		if binary != "" {
			m.binary = binary
		}
	}
}

// WithConverterParams adds params passed to every ebook-convert run, before
// the output's own params. Tokens are normalized like project params.
func WithConverterParams(params ...string) MakerOption {
	return func(m *Maker) {
		m.extraParams = MergeParams(m.extraParams, params)
	}
}

// WithAssetPath sets a directory of custom styles and templates. Missing
// assets fall back to the built-in ones.
func WithAssetPath(path string) MakerOption {
	return func(m *Maker) {
		m.assetPath = path
	}
}

// WithDefaultStylesheet sets the stylesheet for outputs whose project
// declares none. It accepts the same references as a project stylesheet.
func WithDefaultStylesheet(ref string) MakerOption {
	return func(m *Maker) {
		m.defaultStylesheet = ref
	}
}

// WithSourceReader replaces the filesystem chapter reader.
func WithSourceReader(r SourceReader) MakerOption {
	return func(m *Maker) {
		m.reader = r
	}
}

// WithCommandRunner replaces the subprocess runner used for ebook-convert.
func WithCommandRunner(r CommandRunner) MakerOption {
	return func(m *Maker) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithReporter registers a callback invoked after every output build.
func WithReporter(fn Reporter) MakerOption {
	return func(m *Maker) {
		m.reporter = fn
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
