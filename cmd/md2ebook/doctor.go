package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	md2ebook "github.com/alnah/go-md2ebook"
	"github.com/alnah/go-md2ebook/internal/fileutil"
	"github.com/alnah/go-md2ebook/internal/hints"
)

// Check outcomes.
const (
	checkOK    = "ok"
	checkWarn  = "warn"
	checkError = "error"
)

// errDoctorFailed is returned when at least one check failed.
var errDoctorFailed = errors.New("environment is not ready")

// doctorCheck is one diagnostic line.
type doctorCheck struct {
	Section string `json:"section"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// doctorReport holds every check and the overall status:
// "ready", "warnings" or "errors".
type doctorReport struct {
	Status   string        `json:"status"`
	Platform string        `json:"platform"`
	Checks   []doctorCheck `json:"checks"`
}

func (r *doctorReport) add(section, status, format string, args ...any) {
	r.Checks = append(r.Checks, doctorCheck{Section: section, Status: status, Message: fmt.Sprintf(format, args...)})
}

func (r *doctorReport) count(status string) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}

func newDoctorCmd(env *Environment, flags *commonFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that outputs can be built",
		Long: `Check for ebook-convert and Chrome, inspect the project document and
its chapter files, and report container settings that affect PDF output.

Missing tools are errors only when the project declares an output that
needs them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := runDoctor(cmd.Context(), flags, cmd.Flags(), env)
			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
			} else {
				printDoctorReport(env.Stdout, r, newStyles(!flags.noColor && isTTY(env.Stdout)))
			}
			if r.Status == "errors" {
				return fmt.Errorf("%w: %d error(s)", errDoctorFailed, r.count(checkError))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	return cmd
}

// runDoctor performs every check. It never fails; problems become checks.
func runDoctor(ctx context.Context, flags *commonFlags, fs flagSet, env *Environment) *doctorReport {
	r := &doctorReport{Platform: runtime.GOOS + "/" + runtime.GOARCH}

	p := checkProject(r, flags, env)
	needs := map[md2ebook.OutputKind]bool{}
	if p != nil {
		for _, o := range p.Outputs {
			needs[o.Kind] = true
		}
	}

	binary := md2ebook.DefaultEbookConvert
	if cfg, err := resolveConfig(flags, fs, env); err != nil {
		r.add("config", checkError, "%v", err)
	} else {
		binary = cfg.BinaryOrDefault()
	}

	runner := env.Runner
	if runner == nil {
		runner = md2ebook.ExecRunner{}
	}

	checkEbookConvert(ctx, r, runner, binary, p == nil || needs[md2ebook.KindEbookConvert])
	checkChrome(ctx, r, runner, env.Getenv, needs[md2ebook.KindPDF])
	checkSandbox(r, env.Getenv)
	checkTempDir(r)

	switch {
	case r.count(checkError) > 0:
		r.Status = "errors"
	case r.count(checkWarn) > 0:
		r.Status = "warnings"
	default:
		r.Status = "ready"
	}
	return r
}

// checkProject loads the project and verifies that every chapter exists.
// A missing project file is only a warning: tools can still be checked.
func checkProject(r *doctorReport, flags *commonFlags, env *Environment) *md2ebook.Project {
	p, err := loadProject(flags, env)
	switch {
	case errors.Is(err, md2ebook.ErrProjectNotFound):
		r.add("project", checkWarn, "no project file found")
		return nil
	case err != nil:
		r.add("project", checkError, "%v", err)
		return nil
	}

	r.add("project", checkOK, "%s: %d chapter(s), %d output(s)", p.Book.Title, len(p.Book.Chapters), len(p.Outputs))

	var missing []string
	for _, ch := range p.Book.Chapters {
		if !fileutil.FileExists(fileutil.ResolvePath(p.Dir, ch.Src)) {
			missing = append(missing, ch.Src)
		}
	}
	if len(missing) > 0 {
		r.add("project", checkError, "missing chapter(s): %s", strings.Join(missing, ", "))
	}
	return p
}

func checkEbookConvert(ctx context.Context, r *doctorReport, runner md2ebook.CommandRunner, binary string, required bool) {
	path, err := exec.LookPath(binary)
	if err != nil {
		status := checkWarn
		if required {
			status = checkError
		}
		r.add("ebook-convert", status, "%s not found; install Calibre or set MD2EBOOK_EBOOK_CONVERT", binary)
		return
	}
	r.add("ebook-convert", checkOK, "found at %s", path)

	if version := toolVersion(ctx, runner, path); version != "" {
		r.add("ebook-convert", checkOK, "version: %s", version)
	}
}

func checkChrome(ctx context.Context, r *doctorReport, runner md2ebook.CommandRunner, getenv func(string) string, required bool) {
	status := checkWarn
	if required {
		status = checkError
	}

	path := getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			r.add("chrome", status, "Chrome/Chromium not found; PDF outputs need it or ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(path) {
		r.add("chrome", status, "Chrome not found at %s", path)
		return
	}
	r.add("chrome", checkOK, "found at %s", path)

	if version := toolVersion(ctx, runner, path); version != "" {
		r.add("chrome", checkOK, "version: %s", version)
	}
}

// checkSandbox warns when Chrome will likely fail to start its sandbox.
func checkSandbox(r *doctorReport, getenv func(string) string) {
	if !hints.InCI(getenv) && !hints.IsInContainer() {
		return
	}
	if !hints.NeedsNoSandbox(getenv) {
		r.add("environment", checkOK, "container/CI with sandbox disabled")
		return
	}
	r.add("environment", checkWarn, "container/CI detected but ROD_NO_SANDBOX is not set; set ROD_NO_SANDBOX=1 for PDF outputs")
}

func checkTempDir(r *doctorReport) {
	f, err := os.CreateTemp("", "md2ebook-doctor-*")
	if err != nil {
		r.add("system", checkError, "temp directory not writable: %s", os.TempDir())
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	r.add("system", checkOK, "temp directory writable")
}

// toolVersion returns the first line of `<path> --version`, or "".
func toolVersion(ctx context.Context, runner md2ebook.CommandRunner, path string) string {
	stdout, _, err := runner.Run(ctx, path, "--version")
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return line
}

func printDoctorReport(w io.Writer, r *doctorReport, st styles) {
	fmt.Fprintln(w, st.bold.Render("md2ebook doctor"))
	fmt.Fprintf(w, "platform: %s\n\n", r.Platform)

	labels := map[string]string{
		checkOK:    st.success.Render("[OK]"),
		checkWarn:  st.dim.Render("[WARN]"),
		checkError: st.failure.Render("[ERROR]"),
	}

	section := ""
	for _, c := range r.Checks {
		if c.Section != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = c.Section
			fmt.Fprintln(w, section)
		}
		fmt.Fprintf(w, "  %s %s\n", labels[c.Status], c.Message)
	}
	fmt.Fprintln(w)

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: ready")
	case "warnings":
		fmt.Fprintln(w, "Status: ready with warnings")
	default:
		fmt.Fprintln(w, "Status: not ready (see errors above)")
	}
}
