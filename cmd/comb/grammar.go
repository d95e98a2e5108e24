package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/comb/ebnf"
	"github.com/dhamidi/comb/metrics"
	"github.com/dhamidi/comb/parse"
)

var errNoGrammar = errors.New("no grammar file: use --grammar or grammar.path")

// compile loads and compiles the configured grammar. When collector is
// non-nil every production is instrumented.
func (o *options) compile(collector *metrics.Collector) (*ebnf.Grammar, error) {
	gc := o.cfg.Grammar
	if gc.Path == "" {
		return nil, errNoGrammar
	}

	src, err := ebnf.LoadGrammar(gc.Path)
	if err != nil {
		return nil, err
	}

	var copts []ebnf.Option
	if gc.Skip != "" {
		copts = append(copts, ebnf.WithSkip(gc.Skip))
	}
	if collector != nil {
		copts = append(copts, ebnf.WithWrap(func(name string, p *parse.Parser) *parse.Parser {
			return collector.Instrument(name, p)
		}))
	}

	g, err := ebnf.Compile(src, gc.Start, copts...)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", gc.Path, err)
	}
	log.Infof("run %s: compiled %s from %s", o.runID, gc.Start, gc.Path)
	return g, nil
}

// collector returns a metrics collector when metrics are enabled.
func (o *options) collector(force bool) *metrics.Collector {
	if !force && !o.cfg.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(o.cfg.Metrics.Namespace, nil)
}

// readInput reads a file, or standard input for "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
