package main

import (
	"fmt"
	"reflect"

	"github.com/dhamidi/comb/ebnf"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "check [grammar]",
		Short:         "Parse, verify and compile an EBNF grammar file",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.cfg.Grammar.Path = args[0]
			}
			gc := opts.cfg.Grammar
			if gc.Path == "" {
				return errNoGrammar
			}

			src, err := ebnf.LoadGrammar(gc.Path)
			if err != nil {
				printErrors(err)
				return err
			}

			if err := ebnf.Verify(src, gc.Start, gc.Skip); err != nil {
				printErrors(err)
				return err
			}

			g, err := opts.compile(nil)
			if err != nil {
				fmt.Println(err)
				return err
			}
			g.Free()

			fmt.Printf("%s: %d productions, start %s\n", gc.Path, len(src), gc.Start)
			return nil
		},
	}

	return cmd
}

func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}
