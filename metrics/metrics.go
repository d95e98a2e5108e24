// Package metrics records parse outcomes with Prometheus.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhamidi/comb/parse"
	"github.com/dhamidi/comb/stack"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Collector owns the parse metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	results  *prometheus.CounterVec
	consumed *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

// NewCollector registers the parse metrics under namespace. A nil registry
// gets a fresh one.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "comb"
	}

	c := &Collector{
		registry: registry,
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parse",
				Name:      "results_total",
				Help:      "Parser invocations by outcome.",
			},
			[]string{"parser", "status"},
		),
		consumed: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "parse",
				Name:      "consumed_bytes",
				Help:      "Bytes consumed by matching parser invocations.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"parser"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "parse",
				Name:      "duration_seconds",
				Help:      "Parser invocation latency.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
			},
			[]string{"parser"},
		),
	}

	registry.MustRegister(c.results, c.consumed, c.duration)
	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records one invocation of the parser called name.
func (c *Collector) Observe(name string, r parse.Result, elapsed time.Duration) {
	c.results.WithLabelValues(name, r.Status.String()).Inc()
	if r.Matched() {
		c.consumed.WithLabelValues(name).Observe(float64(r.N))
	}
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// Instrument wraps p so that every invocation is observed under name. The
// returned parser owns p.
func (c *Collector) Instrument(name string, p *parse.Parser) *parse.Parser {
	return parse.Wrap(p, func(p *parse.Parser, input []byte, st *stack.Stack) parse.Result {
		start := time.Now()
		r := parse.Parse(p, input, st)
		c.Observe(name, r, time.Since(start))
		return r
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// WriteText writes every gathered metric family in the text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
