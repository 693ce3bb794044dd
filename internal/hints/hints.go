// Package hints builds the short "hint:" lines appended to CLI errors.
// Environment-dependent hints read variables through a caller-supplied
// lookup so they can be tested without touching the process environment.
package hints

import (
	"strings"

	"github.com/alnah/go-md2ebook/internal/fileutil"
)

// Getenv looks up an environment variable, like os.Getenv.
type Getenv func(string) string

// ciVariables are set by common CI providers.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsInContainer reports whether /.dockerenv exists. It is a variable so tests
// can replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether any known CI variable is set.
func InCI(getenv Getenv) bool {
	for _, v := range ciVariables {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// NeedsNoSandbox reports whether Chrome likely runs where its sandbox cannot
// start and ROD_NO_SANDBOX is not set.
func NeedsNoSandbox(getenv Getenv) bool {
	return (InCI(getenv) || IsInContainer()) && getenv("ROD_NO_SANDBOX") != "1"
}

func ForConverterNotFound(getenv Getenv) string {
	parts := []string{"install Calibre (https://calibre-ebook.com/download)"}
	if getenv("MD2EBOOK_EBOOK_CONVERT") == "" {
		parts = append(parts, "or set MD2EBOOK_EBOOK_CONVERT to its path")
	}
	return hint(parts...)
}

func ForBrowserConnect(getenv Getenv) string {
	var parts []string
	if NeedsNoSandbox(getenv) {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use a specific Chrome")
	}
	return hint(parts...)
}

func ForTimeout() string {
	return hint("for large books, raise --timeout or MD2EBOOK_TIMEOUT")
}

// ForProjectNotFound names the project files that are searched for.
func ForProjectNotFound(names []string) string {
	if len(names) == 0 {
		return hint("use --project /path/to/project.yaml")
	}
	return hint("use --project /path/to/project.yaml or create " + strings.Join(names, ", "))
}

// ForOutputNotFound lists the declared output names.
func ForOutputNotFound(available []string) string {
	if len(available) == 0 {
		return hint("the project declares no outputs")
	}
	return hint("available outputs: " + strings.Join(available, ", "))
}

// ForConfigNotFound points at --config and the per-user config directory.
func ForConfigNotFound(userDir string) string {
	if userDir == "" {
		return hint("use --config /path/to/file.yaml")
	}
	return hint("use --config /path/to/file.yaml or put the file in " + userDir)
}

func ForOutputDirectory() string {
	return hint("check that the output directory can be created and written")
}

// ForStyleNotFound lists the built-in styles; empty when there are none.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return hint("built-in styles: " + strings.Join(available, ", "))
}

// hint joins parts with "; " behind the hint prefix. No parts, no hint.
func hint(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	return "\n  hint: " + strings.Join(parts, "; ")
}
