package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	md2ebook "github.com/alnah/go-md2ebook"
)

// styles holds lipgloss styles for status lines.
type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{success: plain, failure: plain, dim: plain, bold: plain}
	}
	return styles{
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),           // Green
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		bold:    lipgloss.NewStyle().Bold(true),
	}
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printer writes build status lines and counts results.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	verbose bool
	styles  styles
	hints   hinter

	succeeded int
	failed    int
}

func newPrinter(env *Environment, flags *commonFlags) *printer {
	return &printer{
		out:     env.Stdout,
		errOut:  env.Stderr,
		quiet:   flags.quiet,
		verbose: flags.verbose,
		styles:  newStyles(!flags.noColor && isTTY(env.Stdout)),
		hints:   hinter{getenv: env.Getenv},
	}
}

// report implements md2ebook.Reporter.
func (p *printer) report(r md2ebook.MakeResult) {
	if r.Err != nil {
		p.failed++
		fmt.Fprintf(p.errOut, "%s %s: %v%s\n",
			p.styles.failure.Render("FAILED"), r.Output, r.Err, p.hints.hint(r.Err))
		return
	}

	p.succeeded++
	if p.quiet {
		return
	}
	if p.verbose {
		fmt.Fprintf(p.out, "%s %s -> %s %s\n",
			p.styles.success.Render("Created"), r.Output, r.Path,
			p.styles.dim.Render(fmt.Sprintf("(%s, %v)", r.Kind, r.Duration.Round(time.Millisecond))))
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.success.Render("Created"), r.Path)
}

// summary prints totals when more than one output was attempted.
func (p *printer) summary() {
	if p.quiet || p.succeeded+p.failed < 2 {
		return
	}
	fmt.Fprintf(p.out, "\n%d succeeded, %d failed\n", p.succeeded, p.failed)
}
