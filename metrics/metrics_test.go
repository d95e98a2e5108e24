package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/comb/parse"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	c := NewCollector("test", nil)

	c.Observe("digit", parse.Ok(1), time.Millisecond)
	c.Observe("digit", parse.Ok(3), time.Millisecond)
	c.Observe("digit", parse.Failed(), time.Millisecond)

	tests := []struct {
		status string
		want   float64
	}{
		{"matched", 2},
		{"fail", 1},
		{"abort", 0},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := testutil.ToFloat64(c.results.WithLabelValues("digit", tt.status))
			if got != tt.want {
				t.Errorf("results{digit,%s} = %v, want %v", tt.status, got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(c.consumed); n != 1 {
		t.Errorf("consumed series = %d, want 1", n)
	}
}

func TestInstrument(t *testing.T) {
	c := NewCollector("", nil)
	p := c.Instrument("ab", parse.String("ab"))
	defer p.Free()

	for _, in := range []string{"ab", "abc", "x"} {
		parse.Parse(p, []byte(in), nil)
	}

	if got := testutil.ToFloat64(c.results.WithLabelValues("ab", "matched")); got != 2 {
		t.Errorf("matched = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.results.WithLabelValues("ab", "fail")); got != 1 {
		t.Errorf("fail = %v, want 1", got)
	}
}

func TestInstrumentKeepsResult(t *testing.T) {
	c := NewCollector("", nil)
	p := c.Instrument("digits", parse.Span(func(b byte) bool { return b >= '0' && b <= '9' }, 1))
	defer p.Free()

	r, st := parse.Match(p, []byte("123x"))
	if !r.Matched() || r.N != 3 || st.Len() != 1 {
		t.Errorf("Match = %v with %d items", r, st.Len())
	}
}

func TestWriteTextAndHandler(t *testing.T) {
	c := NewCollector("comb", nil)
	c.Observe("expr", parse.Ok(4), time.Microsecond)

	var buf bytes.Buffer
	if err := c.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), `comb_parse_results_total{parser="expr",status="matched"} 1`) {
		t.Errorf("text output missing counter:\n%s", buf.String())
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "comb_parse_consumed_bytes") {
		t.Errorf("handler: %d\n%s", rec.Code, rec.Body.String())
	}
}
