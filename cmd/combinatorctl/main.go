// Command combinatorctl is a small demonstration front end for the
// combinator engine: it compiles one of a handful of built-in grammars and
// runs it against an input string, printing every distinct result the
// engine's incremental result set publishes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "combinatorctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "combinatorctl",
		Short: "Drive the combinator parser engine from the command line",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newGrammarsCmd())
	return root
}
