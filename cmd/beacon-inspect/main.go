// Command beacon-inspect pretty-prints a recorded dependency-graph dump, the
// text written by extensions.DebugTree or extensions.Summary, as produced by
// a host process calling one of those functions and redirecting the result
// to a file. It does not construct or drive a Runtime of its own.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), newRoot(),
		fang.WithVersion(version),
		fang.WithCommit(commit),
	); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "beacon-inspect",
		Short: "Render a beacon dependency-graph dump",
		Long: `beacon-inspect reads the text a host wrote with
extensions.DebugTree or extensions.Summary and re-renders it with color.

It never opens a Runtime itself: point it at a file a running process
already dumped, e.g.

  myservice -dump-graph > graph.txt
  beacon-inspect show graph.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newShowCmd())
	return root
}

func newShowCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a dependency-graph dump with styling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading dump: %w", err)
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render(string(data)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "skip styling, print the dump verbatim")
	return cmd
}
