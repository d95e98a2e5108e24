package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/comb/ascii"
)

func digit() *Parser { return Pred(ascii.IsDigit) }

func TestRepetition(t *testing.T) {
	runCases(t, []parseCase{
		{"many", func() *Parser { return Many(Char('a')) }, "aaab", StatusMatched, 3, []string{"a", "a", "a"}},
		{"many none", func() *Parser { return Many(Char('a')) }, "b", StatusMatched, 0, nil},
		{"min1", func() *Parser { return Min1(Char('a')) }, "aab", StatusMatched, 2, []string{"a", "a"}},
		{"min1 none", func() *Parser { return Min1(Char('a')) }, "b", StatusFail, 0, nil},
		{"min short", func() *Parser { return Min(2, digit()) }, "1", StatusFail, 0, nil},
		{"min exact", func() *Parser { return Min(2, digit()) }, "12", StatusMatched, 2, []string{"1", "2"}},
		{"min more", func() *Parser { return Min(2, digit()) }, "123x", StatusMatched, 3, []string{"1", "2", "3"}},
		{"min zero", func() *Parser { return Min(0, digit()) }, "x", StatusMatched, 0, nil},
		{"max", func() *Parser { return Max(2, Char('a')) }, "aaa", StatusMatched, 2, []string{"a", "a"}},
		{"max none", func() *Parser { return Max(2, Char('a')) }, "", StatusMatched, 0, nil},
		{"max one", func() *Parser { return Max(1, Char('a')) }, "aa", StatusMatched, 1, []string{"a"}},
		{"max zero", func() *Parser { return Max(0, Char('a')) }, "aa", StatusMatched, 0, nil},
		{"minmax", func() *Parser { return MinMax(1, 3, Char('a')) }, "aaaa", StatusMatched, 3, []string{"a", "a", "a"}},
		{"minmax short", func() *Parser { return MinMax(2, 3, Char('a')) }, "ab", StatusFail, 0, nil},
		{"minmax zero min", func() *Parser { return MinMax(0, 2, Char('a')) }, "b", StatusMatched, 0, nil},
		{"minmax equal", func() *Parser { return MinMax(2, 2, Char('a')) }, "aaa", StatusMatched, 2, []string{"a", "a"}},
		{"repeat", func() *Parser { return Repeat(3, Char('a')) }, "aaaa", StatusMatched, 3, []string{"a", "a", "a"}},
		{"repeat short", func() *Parser { return Repeat(3, Char('a')) }, "aa", StatusFail, 0, nil},
		{"repeat zero", func() *Parser { return Repeat(0, Abort()) }, "x", StatusMatched, 0, nil},
		{"abort in many", func() *Parser { return Many(Or(Char('a'), Abort())) }, "aab", StatusAbort, 0, nil},
		{"abort in max", func() *Parser { return Max(5, Or(Char('a'), Abort())) }, "ab", StatusAbort, 0, nil},
	})
}

func TestRepeatSpecializations(t *testing.T) {
	p := Char('a')
	if q := Repeat(1, p); q != p {
		t.Error("Repeat(1, p) is not p")
	}
	p.Free()

	freed := 0
	for _, q := range []*Parser{
		Repeat(0, Lift("x", 0, 0, counter(&freed))),
		Max(0, Lift("x", 0, 0, counter(&freed))),
	} {
		if freed == 0 {
			t.Error("dropped sub-parser not freed")
		}
		q.Free()
	}
	if freed != 2 {
		t.Errorf("freed = %d, want 2", freed)
	}
}

func TestBadBounds(t *testing.T) {
	tests := []struct {
		name string
		p    func(*Parser) *Parser
	}{
		{"min", func(p *Parser) *Parser { return Min(-1, p) }},
		{"max", func(p *Parser) *Parser { return Max(-2, p) }},
		{"minmax negative", func(p *Parser) *Parser { return MinMax(-1, 2, p) }},
		{"minmax inverted", func(p *Parser) *Parser { return MinMax(3, 2, p) }},
		{"repeat", func(p *Parser) *Parser { return Repeat(-1, p) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			freed := 0
			p := tt.p(Lift("x", 0, 0, counter(&freed)))
			if !errors.Is(p.Err(), ErrBadBound) {
				t.Errorf("Err() = %v, want ErrBadBound", p.Err())
			}
			if freed != 1 {
				t.Errorf("sub-parser freed %d times, want 1", freed)
			}
		})
	}
}

func TestZeroProgressTerminates(t *testing.T) {
	runCases(t, []parseCase{
		{"many maybe", func() *Parser { return Many(Maybe(Char('x'))) }, "yy", StatusMatched, 0, nil},
		{"many maybe after matches", func() *Parser { return Many(Maybe(Char('x'))) }, "xxy", StatusMatched, 2, []string{"x", "x"}},
		{"min1 success", func() *Parser { return Min1(Success()) }, "abc", StatusMatched, 0, nil},
		{"min mandatory empty", func() *Parser { return Min(3, Maybe(Char('x'))) }, "x", StatusMatched, 1, []string{"x"}},
	})

	p := Many(Lift("v", 1, 0, nil))
	defer p.Free()
	r, st := Match(p, nil)
	if !r.Matched() || st.Len() != 1 {
		t.Errorf("many(lift) = %v with %d items, want one item", r, st.Len())
	}
}

func TestRepeatMultipliesConsumption(t *testing.T) {
	for n := 0; n <= 5; n++ {
		p := Repeat(n, String("ab"))
		input := strings.Repeat("ab", n+1)
		r, st := Match(p, []byte(input))
		if !r.Matched() || r.N != 2*n {
			t.Errorf("repeat(%d) = %v, want %d bytes", n, r, 2*n)
		}
		got := matches(t, st)
		if len(got) != n {
			t.Errorf("repeat(%d) pushed %d items", n, len(got))
		}
		for _, s := range got {
			if s != "ab" {
				t.Errorf("repeat(%d) pushed %q", n, s)
			}
		}
		p.Free()
	}
}
