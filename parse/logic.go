package parse

import (
	"github.com/dhamidi/comb/stack"
)

type unaryValue struct {
	p       *Parser
	v       Value
	destroy stack.Destructor
}

func freeUnaryValue(ctx any) {
	c := ctx.(*unaryValue)
	c.p.Free()
	if c.destroy != nil {
		c.destroy(c.v.Data)
	}
}

func unaryOp(p *Parser, op Func) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	return New(op, &unary{p: p}, freeUnary)
}

func unaryValueOp(p *Parser, v Value, destroy stack.Destructor, op Func) *Parser {
	if err := check(p); err != nil {
		if destroy != nil {
			destroy(v.Data)
		}
		return reject(err, p)
	}
	return New(op, &unaryValue{p: p, v: v, destroy: destroy}, freeUnaryValue)
}

// Assert turns a plain Fail of p into an Abort.
func Assert(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		r := Parse(ctx.(*unary).p, input, st)
		if r.Recoverable() {
			return Aborted()
		}
		return r
	})
}

// AssertE turns a plain Fail of p into an Error carrying kind.
func AssertE(p *Parser, name string, kind error) *Parser {
	if kind == nil {
		kind = ErrAborted
	}
	err := &KindError{Name: name, Kind: kind}
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		r := Parse(ctx.(*unary).p, input, st)
		if r.Recoverable() {
			return Errored(err)
		}
		return r
	})
}

func invert(r Result) Result {
	switch {
	case r.Matched():
		return Failed()
	case r.Recoverable():
		return Ok(0)
	}
	return r
}

// Not matches, consuming nothing, where p fails. p's stack effect is discarded.
func Not(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		return invert(quiet(ctx.(*unary).p, input, st))
	})
}

// NotLift is Not, pushing data when it matches.
func NotLift(p *Parser, tag stack.Tag, data any, size int, destroy stack.Destructor) *Parser {
	v := Value{Tag: tag, Data: data, Size: size}
	return unaryValueOp(p, v, destroy, func(ctx any, input []byte, st *stack.Stack) Result {
		c := ctx.(*unaryValue)
		r := invert(quiet(c.p, input, st))
		if r.Matched() {
			c.v.push(st)
		}
		return r
	})
}

// Maybe matches p or, when p fails, the empty string.
func Maybe(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		r := Parse(ctx.(*unary).p, input, st)
		if r.Recoverable() {
			return Ok(0)
		}
		return r
	})
}

// MaybeDrop is Maybe with p's stack effect discarded.
func MaybeDrop(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		r := quiet(ctx.(*unary).p, input, st)
		if r.Recoverable() {
			return Ok(0)
		}
		return r
	})
}

// MaybeLift is Maybe, pushing data when p fails.
func MaybeLift(p *Parser, tag stack.Tag, data any, size int, destroy stack.Destructor) *Parser {
	v := Value{Tag: tag, Data: data, Size: size}
	return unaryValueOp(p, v, destroy, func(ctx any, input []byte, st *stack.Stack) Result {
		c := ctx.(*unaryValue)
		r := Parse(c.p, input, st)
		if r.Recoverable() {
			c.v.push(st)
			return Ok(0)
		}
		return r
	})
}

// Check matches, consuming nothing, where p matches.
func Check(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		r := quiet(ctx.(*unary).p, input, st)
		if r.Matched() {
			return Ok(0)
		}
		return r
	})
}

// Drop matches p and discards its stack effect.
func Drop(p *Parser) *Parser {
	return unaryOp(p, func(ctx any, input []byte, st *stack.Stack) Result {
		return quiet(ctx.(*unary).p, input, st)
	})
}

type multi struct {
	ps []*Parser
}

func freeMulti(ctx any) {
	freeAll(ctx.(*multi).ps)
}

// multiOp handles the zero and one argument cases shared by And, Or and Seq.
func multiOp(ps []*Parser, empty func() *Parser, op Func) *Parser {
	if err := check(ps...); err != nil {
		return reject(err, ps...)
	}
	switch len(ps) {
	case 0:
		return empty()
	case 1:
		return ps[0]
	}
	own := make([]*Parser, len(ps))
	copy(own, ps)
	return New(op, &multi{ps: own}, freeMulti)
}

// And matches when every parser matches at the same position. Only the last
// one pushes; the match length is the last one's.
func And(ps ...*Parser) *Parser {
	return multiOp(ps, Success, func(ctx any, input []byte, st *stack.Stack) Result {
		ps := ctx.(*multi).ps
		last := len(ps) - 1
		for _, p := range ps[:last] {
			if r := quiet(p, input, st); !r.Matched() {
				return r
			}
		}
		return Parse(ps[last], input, st)
	})
}

// Or tries each parser in order at the same position and returns the first
// match. Abort and Error stop the search.
func Or(ps ...*Parser) *Parser {
	return multiOp(ps, Fail, func(ctx any, input []byte, st *stack.Stack) Result {
		for _, p := range ctx.(*multi).ps {
			if r := Parse(p, input, st); !r.Recoverable() {
				return r
			}
		}
		return Failed()
	})
}
