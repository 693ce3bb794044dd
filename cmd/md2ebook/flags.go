package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2ebook/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	project      string
	config       string
	ebookConvert string
	assets       string
	style        string
	timeout      time.Duration
	quiet        bool
	verbose      bool
	noColor      bool
}

// flagSet reports which flags were set on the command line.
type flagSet interface {
	Changed(name string) bool
}

// addCommonFlags registers the shared flags on fs.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.project, "project", "p", "", "project file or directory (default: search the current directory)")
	fs.StringVarP(&f.config, "config", "c", "", "config name or path")
	fs.StringVar(&f.ebookConvert, "ebook-convert", "", "ebook-convert binary")
	fs.StringVar(&f.assets, "assets", "", "directory of custom styles and templates")
	fs.StringVar(&f.style, "style", "", "stylesheet for outputs that declare none (name, path or inline CSS)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-output conversion timeout (e.g. 2m, 0 disables)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print build details")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// resolveConfig loads the config file named by --config or MD2EBOOK_CONFIG,
// then applies environment variables and flags.
func resolveConfig(f *commonFlags, fs flagSet, env *Environment) (*config.Config, error) {
	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, fs, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *commonFlags, fs flagSet, cfg *config.Config) {
	if f.ebookConvert != "" {
		cfg.Converter.Binary = f.ebookConvert
	}
	if f.assets != "" {
		cfg.Assets.BasePath = f.assets
	}
	if f.style != "" {
		cfg.CSS.Style = f.style
	}
	if fs != nil && fs.Changed("timeout") {
		cfg.Converter.Timeout = f.timeout.String()
	}
}

var _ flagSet = (*flag.FlagSet)(nil)
