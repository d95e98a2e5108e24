package parse

import (
	"bytes"
	"errors"
	"strings"

	"github.com/dhamidi/comb/stack"
)

// TagMatch tags the items pushed by the byte and string matchers. Their data
// is a []byte view into the parsed input.
const TagMatch stack.Tag = "match"

// ErrNilPred is the build error of a predicate matcher without a predicate.
var ErrNilPred = errors.New("parse: nil predicate")

func push(input []byte, n int, st *stack.Stack) Result {
	st.Push(TagMatch, input[:n:n], n, nil)
	return Ok(n)
}

func byteMatcher(test func(c byte) bool) *Parser {
	return New(func(_ any, input []byte, st *stack.Stack) Result {
		if len(input) == 0 || !test(input[0]) {
			return Failed()
		}
		return push(input, 1, st)
	}, nil, nil)
}

// Any matches one byte.
func Any() *Parser {
	return byteMatcher(func(byte) bool { return true })
}

// Char matches the byte c.
func Char(c byte) *Parser {
	return byteMatcher(func(b byte) bool { return b == c })
}

// NotChar matches any byte except c.
func NotChar(c byte) *Parser {
	return byteMatcher(func(b byte) bool { return b != c })
}

// Pred matches one byte accepted by fn.
func Pred(fn func(c byte) bool) *Parser {
	if fn == nil {
		return broken(ErrNilPred)
	}
	return byteMatcher(fn)
}

// NotPred matches one byte rejected by fn.
func NotPred(fn func(c byte) bool) *Parser {
	if fn == nil {
		return broken(ErrNilPred)
	}
	return byteMatcher(func(b byte) bool { return !fn(b) })
}

// Range matches one byte in lo..hi inclusive.
func Range(lo, hi byte) *Parser {
	switch {
	case lo > hi:
		return Fail()
	case lo == hi:
		return Char(lo)
	case lo == 0 && hi == 0xff:
		return Any()
	}
	return byteMatcher(func(b byte) bool { return b >= lo && b <= hi })
}

// NotRange matches one byte outside lo..hi.
func NotRange(lo, hi byte) *Parser {
	switch {
	case lo > hi:
		return Any()
	case lo == hi:
		return NotChar(lo)
	case lo == 0 && hi == 0xff:
		return Fail()
	}
	return byteMatcher(func(b byte) bool { return b < lo || b > hi })
}

// Accept matches one byte from set.
func Accept(set string) *Parser {
	switch len(set) {
	case 0:
		return Fail()
	case 1:
		return Char(set[0])
	}
	return byteMatcher(func(b byte) bool { return strings.IndexByte(set, b) >= 0 })
}

// Reject matches one byte not in set.
func Reject(set string) *Parser {
	switch len(set) {
	case 0:
		return Any()
	case 1:
		return NotChar(set[0])
	}
	return byteMatcher(func(b byte) bool { return strings.IndexByte(set, b) < 0 })
}

// Escape matches esc followed by one byte from set, or by any byte when set
// is empty. The pushed view covers both bytes.
func Escape(esc byte, set string) *Parser {
	return New(func(_ any, input []byte, st *stack.Stack) Result {
		if len(input) < 2 || input[0] != esc {
			return Failed()
		}
		if set != "" && strings.IndexByte(set, input[1]) < 0 {
			return Failed()
		}
		return push(input, 2, st)
	}, nil, nil)
}

// String matches the literal lit. The empty literal is Success.
func String(lit string) *Parser {
	if lit == "" {
		return Success()
	}
	b := []byte(lit)
	return New(func(_ any, input []byte, st *stack.Stack) Result {
		if !bytes.HasPrefix(input, b) {
			return Failed()
		}
		return push(input, len(b), st)
	}, nil, nil)
}

// Span matches the longest run of bytes accepted by fn, failing when the run
// is shorter than min.
func Span(fn func(c byte) bool, min int) *Parser {
	if fn == nil {
		return broken(ErrNilPred)
	}
	if min < 0 {
		return broken(ErrBadBound)
	}
	return New(func(_ any, input []byte, st *stack.Stack) Result {
		n := 0
		for n < len(input) && fn(input[n]) {
			n++
		}
		if n < min {
			return Failed()
		}
		return push(input, n, st)
	}, nil, nil)
}

// Strings matches the first of alts that prefixes the input, in order.
func Strings(alts ...string) *Parser {
	switch len(alts) {
	case 0:
		return Fail()
	case 1:
		return String(alts[0])
	}
	lits := make([][]byte, len(alts))
	for i, s := range alts {
		lits[i] = []byte(s)
	}
	return New(func(_ any, input []byte, st *stack.Stack) Result {
		for _, lit := range lits {
			if bytes.HasPrefix(input, lit) {
				return push(input, len(lit), st)
			}
		}
		return Failed()
	}, nil, nil)
}
