package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	md2ebook "github.com/alnah/go-md2ebook"
)

func newListCmd(env *Environment, flags *commonFlags) *cobra.Command {
	var showStyles bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the project outputs",
		Long: `List the outputs declared by the project document with their kind and
destination, or the built-in stylesheets with --styles.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if showStyles {
				fmt.Fprintln(env.Stdout, strings.Join(md2ebook.StyleNames(), "\n"))
				return nil
			}
			return runList(flags, env)
		},
	}
	cmd.Flags().BoolVar(&showStyles, "styles", false, "list built-in stylesheets instead")
	return cmd
}

func runList(flags *commonFlags, env *Environment) error {
	p, err := loadProject(flags, env)
	if err != nil {
		return hinter{getenv: env.Getenv}.wrap(err)
	}

	st := newStyles(!flags.noColor && isTTY(env.Stdout))
	fmt.Fprintln(env.Stdout, st.bold.Render(p.Book.Title))

	if len(p.Outputs) == 0 {
		fmt.Fprintln(env.Stdout, st.dim.Render("no outputs declared"))
		return nil
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	for _, o := range p.Outputs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", o.Name, o.Kind, o.Path)
	}
	return tw.Flush()
}
