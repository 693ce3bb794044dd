package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	md2ebook "github.com/alnah/go-md2ebook"
	"github.com/alnah/go-md2ebook/internal/config"
)

// newRootCmd creates the md2ebook command tree.
func newRootCmd(env *Environment) *cobra.Command {
	flags := &commonFlags{}

	cmd := &cobra.Command{
		Use:   "md2ebook",
		Short: "Build ebooks from markdown chapters",
		Long: `md2ebook reads a project document (.md2ebook.yaml, .md2ebook.yml or
.md2ebook.json) describing a book, its chapters, substitutions and outputs,
and builds each output: HTML directly, PDF through headless Chrome, and any
other format through Calibre's ebook-convert.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setMaxProcs(env, flags.verbose)
			warnUnknownEnvVars(env.Stderr, env.Environ())
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	addCommonFlags(cmd.PersistentFlags(), flags)

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(
		newMakeCmd(env, flags),
		newListCmd(env, flags),
		newDoctorCmd(env, flags),
		newVersionCmd(env),
	)
	return cmd
}

// setMaxProcs configures GOMAXPROCS, logging the decision in verbose mode.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply.
func setMaxProcs(env *Environment, verbose bool) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

// newMaker builds a Maker from the resolved config.
func newMaker(cfg *config.Config, env *Environment, flags *commonFlags, report md2ebook.Reporter) (*md2ebook.Maker, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []md2ebook.MakerOption{
		md2ebook.WithEbookConvert(cfg.BinaryOrDefault()),
		md2ebook.WithTimeout(timeout),
		md2ebook.WithConverterParams(cfg.Converter.Params...),
		md2ebook.WithAssetPath(cfg.Assets.BasePath),
		md2ebook.WithDefaultStylesheet(cfg.CSS.Style),
		md2ebook.WithReporter(report),
	}
	if flags.verbose {
		logger := slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, md2ebook.WithLogger(logger))
	}
	if env.Runner != nil {
		opts = append(opts, md2ebook.WithCommandRunner(env.Runner))
	}

	return md2ebook.NewMaker(opts...)
}

// loadProject loads the project named by --project, resolving
// "pubdate: auto" against the environment clock.
func loadProject(flags *commonFlags, env *Environment) (*md2ebook.Project, error) {
	return md2ebook.LoadProjectFile(flags.project, md2ebook.WithClock(env.Now))
}

func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(env.Stdout, "md2ebook %s\n", Version)
		},
	}
}
