package parse

import (
	"fmt"

	"github.com/dhamidi/comb/stack"
)

// unbounded marks a repetition without an upper bound.
const unbounded = -1

type repeatCtx struct {
	p        *Parser
	min, max int
}

func freeRepeat(ctx any) {
	ctx.(*repeatCtx).p.Free()
}

// repeatParse runs the first min iterations as mandatory and the rest, up to
// max, as optional. An optional iteration of an unbounded loop that matches
// without consuming input is the last one.
func repeatParse(ctx any, input []byte, st *stack.Stack) Result {
	c := ctx.(*repeatCtx)
	pos := 0
	for i := 0; c.max == unbounded || i < c.max; i++ {
		r := Parse(c.p, input[pos:], st)
		if !r.Matched() {
			if i < c.min || !r.Recoverable() {
				return r
			}
			break
		}
		pos += r.N
		if r.N == 0 && c.max == unbounded && i >= c.min {
			break
		}
	}
	return Ok(pos)
}

func newRepeat(p *Parser, min, max int) *Parser {
	return New(repeatParse, &repeatCtx{p: p, min: min, max: max}, freeRepeat)
}

func badBound(p *Parser, format string, args ...any) *Parser {
	return reject(fmt.Errorf("%w: "+format, append([]any{ErrBadBound}, args...)...), p)
}

// Many matches p zero or more times.
func Many(p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	return newRepeat(p, 0, unbounded)
}

// Min1 matches p one or more times.
func Min1(p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	return newRepeat(p, 1, unbounded)
}

// Min matches p at least n times.
func Min(n int, p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	switch {
	case n < 0:
		return badBound(p, "min %d", n)
	case n == 0:
		return Many(p)
	case n == 1:
		return Min1(p)
	}
	return newRepeat(p, n, unbounded)
}

// Max matches p at most n times. It never fails on a plain Fail of p.
func Max(n int, p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	switch {
	case n < 0:
		return badBound(p, "max %d", n)
	case n == 0:
		p.Free()
		return Success()
	case n == 1:
		return Maybe(p)
	}
	return newRepeat(p, 0, n)
}

// MinMax matches p at least min and at most max times.
func MinMax(min, max int, p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	switch {
	case min < 0 || max < min:
		return badBound(p, "min %d max %d", min, max)
	case min == max:
		return Repeat(min, p)
	case min == 0:
		return Max(max, p)
	}
	return newRepeat(p, min, max)
}

// Repeat matches p exactly n times.
func Repeat(n int, p *Parser) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	switch {
	case n < 0:
		return badBound(p, "repeat %d", n)
	case n == 0:
		p.Free()
		return Success()
	case n == 1:
		return p
	}
	return newRepeat(p, n, n)
}
