package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/comb/ebnf"
	"github.com/dhamidi/comb/format"
	"github.com/spf13/cobra"
)

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <input>",
		Short: "Split input into tokens using the lexical productions of the grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.Grammar.Path == "" {
				return errNoGrammar
			}
			src, err := ebnf.LoadGrammar(opts.cfg.Grammar.Path)
			if err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			lexer, err := ebnf.NewLexer(src, data, args[0])
			if err != nil {
				return err
			}
			defer lexer.Free()

			tokens, err := lexer.Tokenize()
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			log.Debugf("run %s: %d tokens", opts.runID, len(tokens))
			return format.NewTokenLineEncoder(os.Stdout).Encode(tokens)
		},
	}
}
