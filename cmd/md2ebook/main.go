// Command md2ebook builds the outputs declared by a markdown book project.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], DefaultEnv()))
}

// runMain executes the command line and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd := newRootCmd(env)
	cmd.SetArgs(args)

	err := fang.Execute(ctx, cmd, fang.WithVersion(Version))
	return exitCodeFor(err)
}
