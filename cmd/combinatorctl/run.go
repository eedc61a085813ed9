package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/debuglog"
	"github.com/tef/combinator/combinator/grammar"
)

var demoGrammars = map[string]func() (combinator.Parser, error){
	"arith": grammar.Arith,
	"json":  grammar.JSONValue,
	"csv":   grammar.CSVRow,
}

func newRunCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run <grammar> <input>",
		Short: "Parse input against one of the built-in demo grammars",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := args[0], args[1]
			build, ok := demoGrammars[name]
			if !ok {
				return errors.Errorf("unknown grammar %q (known: %s)", name, knownGrammarNames())
			}
			p, err := build()
			if err != nil {
				return errors.Wrapf(err, "compiling grammar %q", name)
			}

			logger := debuglog.Discard()
			if debug {
				logger = debuglog.New("combinatorctl")
			}

			var rs *combinator.ResultSet
			runErr := runRecovered(func() {
				rs = combinator.RunWithLogger(p, input, logger)
			})
			if runErr != nil {
				return runErr
			}

			values := rs.Values()
			if len(values) == 0 {
				if f, ok := rs.FurthestFailure(); ok {
					return errors.Errorf("no successful parse; furthest failure at position %d: %s", f.State.Pos(), f.Describe())
				}
				return errors.New("no successful parse")
			}
			for i, v := range values {
				fmt.Printf("result %d: %#v\n", i, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable structured debug logging of the run")
	return cmd
}

func runRecovered(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = combinator.Recover(r)
		}
	}()
	fn()
	return nil
}

func knownGrammarNames() string {
	names := make([]string, 0, len(demoGrammars))
	for name := range demoGrammars {
		names = append(names, name)
	}
	return fmt.Sprint(names)
}
