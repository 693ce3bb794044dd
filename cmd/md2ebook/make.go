package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	md2ebook "github.com/alnah/go-md2ebook"
)

// buildFailedError summarizes failed outputs. The per-output errors were
// already printed; it unwraps to them for exit code mapping.
type buildFailedError struct {
	failed int
	total  int
	err    error
}

func (e *buildFailedError) Error() string {
	return fmt.Sprintf("%d of %d output(s) failed", e.failed, e.total)
}

func (e *buildFailedError) Unwrap() error { return e.err }

func newMakeCmd(env *Environment, flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "make [output...]",
		Short: "Build the project outputs",
		Long: `Build the outputs declared by the project document.

With no arguments every output is built in declaration order; a failing
output does not stop the others. Name outputs to build only those.

Examples:
  md2ebook make                  # build every output
  md2ebook make epub preview     # build two outputs by name
  md2ebook make -p book/ --timeout 5m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMake(cmd.Context(), args, flags, cmd.Flags(), env)
		},
	}
}

// runMake loads the config and project, then builds the named outputs or
// all of them.
func runMake(ctx context.Context, names []string, flags *commonFlags, fs flagSet, env *Environment) error {
	h := hinter{getenv: env.Getenv}

	cfg, err := resolveConfig(flags, fs, env)
	if err != nil {
		return h.wrap(err)
	}

	p, err := loadProject(flags, env)
	if err != nil {
		return h.wrap(err)
	}
	h.project = p

	pr := newPrinter(env, flags)
	pr.hints = h

	maker, err := newMaker(cfg, env, flags, pr.report)
	if err != nil {
		return h.wrap(err)
	}
	defer func() { _ = maker.Close() }()

	var errs []error
	if len(names) == 0 {
		errs = append(errs, maker.Make(ctx, p, ""))
	} else {
		for _, name := range names {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				break
			}
			errs = append(errs, maker.Make(ctx, p, name))
		}
	}
	pr.summary()

	err = errors.Join(errs...)
	if err == nil {
		return nil
	}

	// Outputs that ran were reported by the printer. Anything else, such as
	// an unknown output name or cancellation, is returned as is.
	var buildErr *md2ebook.BuildError
	if pr.failed > 0 && errors.As(err, &buildErr) && !errors.Is(err, md2ebook.ErrOutputNotFound) {
		return &buildFailedError{failed: pr.failed, total: pr.failed + pr.succeeded, err: err}
	}
	return h.wrap(err)
}
