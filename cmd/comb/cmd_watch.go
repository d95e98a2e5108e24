package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dhamidi/comb/ebnf"
	"github.com/dhamidi/comb/metrics"
	"github.com/dhamidi/comb/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *options) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch <input>...",
		Short: "Re-check input files whenever they or the grammar change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.Grammar.Path == "" {
				return errNoGrammar
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector := opts.collector(metricsAddr != "")
			r := &rechecker{opts: opts, inputs: args, collector: collector}
			r.reload()
			defer r.free()

			w, err := watch.NewFileWatcher(opts.cfg.Watch.Debounce, r.changed, append([]string{opts.cfg.Grammar.Path}, args...)...)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: collector.Handler()}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Errorf("metrics server: %s", err)
					}
				}()
				defer srv.Shutdown(context.Background())
				log.Noticef("run %s: serving metrics on %s", opts.runID, metricsAddr)
			}

			log.Noticef("run %s: watching %s and %d inputs", opts.runID, opts.cfg.Grammar.Path, len(args))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

// rechecker holds the current grammar and re-runs it on every change.
type rechecker struct {
	opts      *options
	inputs    []string
	collector *metrics.Collector

	mu      sync.Mutex
	grammar *ebnf.Grammar
}

func (r *rechecker) changed(paths []string) {
	for _, p := range paths {
		if sameFile(p, r.opts.cfg.Grammar.Path) {
			r.reload()
			return
		}
	}
	r.check()
}

func (r *rechecker) reload() {
	g, err := r.opts.compile(r.collector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}

	r.mu.Lock()
	if r.grammar != nil {
		r.grammar.Free()
	}
	r.grammar = g
	r.mu.Unlock()

	r.check()
}

func (r *rechecker) check() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grammar == nil {
		return
	}

	for _, name := range r.inputs {
		data, err := readInput(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		err = r.grammar.Check(data)
		var serr *ebnf.SyntaxError
		switch {
		case err == nil:
			fmt.Printf("%s: ok\n", name)
		case errors.As(err, &serr):
			fmt.Printf("%s: %v\n", ebnf.PositionAt(name, data, serr.Offset), serr.Err)
		default:
			fmt.Printf("%s: %v\n", name, err)
		}
	}
}

func (r *rechecker) free() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grammar != nil {
		r.grammar.Free()
		r.grammar = nil
	}
}
