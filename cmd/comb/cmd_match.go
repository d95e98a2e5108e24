package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/comb/ebnf"
	"github.com/dhamidi/comb/format"
	"github.com/spf13/cobra"
)

func newMatchCmd(opts *options) *cobra.Command {
	var outputFormat string
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "match <input>...",
		Short: "Parse input files with the grammar and print their syntax trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := opts.collector(showMetrics)
			g, err := opts.compile(collector)
			if err != nil {
				return err
			}
			defer g.Free()

			failed := 0
			for _, name := range args {
				data, err := readInput(name)
				if err != nil {
					return err
				}
				if err := matchOne(g, name, data, outputFormat); err != nil {
					var serr *ebnf.SyntaxError
					if !errors.As(err, &serr) {
						return err
					}
					pos := ebnf.PositionAt(name, data, serr.Offset)
					fmt.Fprintf(os.Stderr, "%s: %v\n", pos, serr.Err)
					failed++
				}
			}

			if collector != nil {
				if err := collector.WriteText(os.Stderr); err != nil {
					return err
				}
			}
			log.Infof("run %s: %d of %d inputs matched", opts.runID, len(args)-failed, len(args))
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs did not match %s", failed, len(args), g.Start)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, stack, none)")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print parse metrics to stderr")

	return cmd
}

func matchOne(g *ebnf.Grammar, name string, data []byte, outputFormat string) error {
	if outputFormat == "stack" {
		r, st := g.Match(data)
		defer st.Reset()
		if err := r.Err(); err != nil {
			return g.Check(data)
		}
		if err := format.NewStackJSONEncoder(os.Stdout).Encode(st); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fmt.Println()
		return nil
	}

	node, err := g.Parse(data)
	if err != nil {
		return err
	}

	var encoder format.Encoder
	switch outputFormat {
	case "tree":
		encoder = format.NewTreeEncoder(os.Stdout)
	case "json":
		encoder = format.NewNodeJSONEncoder(os.Stdout, data)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}

	if err := encoder.Encode(node); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if outputFormat == "json" {
		fmt.Println()
	}
	return nil
}
