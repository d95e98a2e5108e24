package parse

import (
	"slices"

	"github.com/dhamidi/comb/stack"
)

// Seq matches each parser after the previous one. Every parser may push.
func Seq(ps ...*Parser) *Parser {
	return multiOp(ps, Success, func(ctx any, input []byte, st *stack.Stack) Result {
		pos := 0
		for _, p := range ctx.(*multi).ps {
			r := Parse(p, input[pos:], st)
			if !r.Matched() {
				return r
			}
			pos += r.N
		}
		return Ok(pos)
	})
}

// ReduceFunc folds the items pushed by a parser into one value. span is the
// input the parser consumed; rest is the length of the input it started on.
// Ownership of items moves to the function.
type ReduceFunc func(items []stack.Item, span []byte, rest int) (any, error)

// Reduce matches p and replaces everything p pushed by a single item tagged
// tag holding the value returned by fn.
func Reduce(p *Parser, tag stack.Tag, fn ReduceFunc) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	if fn == nil {
		return reject(ErrNilFunc, p)
	}
	return New(func(ctx any, input []byte, st *stack.Stack) Result {
		mark := st.Len()
		r := Parse(ctx.(*unary).p, input, st)
		if !r.Matched() {
			return r
		}
		v, err := fn(st.Cut(mark), input[:r.N:r.N], len(input))
		if err != nil {
			return Errored(err)
		}
		st.Push(tag, v, r.N, nil)
		return r
	}, &unary{p: p}, freeUnary)
}

type linkCtx struct {
	target *Parser
	bound  bool
	active []int
}

func freeLink(ctx any) {
	ctx.(*linkCtx).target.Free()
}

func linkParse(ctx any, input []byte, st *stack.Stack) Result {
	c := ctx.(*linkCtx)
	if !c.bound {
		return Errored(ErrUnbound)
	}
	rest := len(input)
	if slices.Contains(c.active, rest) {
		return Errored(ErrLeftRecursion)
	}
	c.active = append(c.active, rest)
	defer func() { c.active = c.active[:len(c.active)-1] }()
	return Parse(c.target, input, st)
}

// NewLink returns a placeholder for a parser that does not exist yet. The
// link may be embedded in a grammar once directly; further embeddings go
// through Ref. Bind supplies the target.
//
// The link starts with an extra reference held by the builder, so freeing the
// grammar before Bind keeps the placeholder alive; Bind releases it.
func NewLink() *Parser {
	p := New(linkParse, &linkCtx{}, freeLink)
	p.refs = 2
	return p
}

func linkOf(p *Parser) (*linkCtx, bool) {
	if p == nil || p.err != nil || p.state != live {
		return nil, false
	}
	c, ok := p.ctx.(*linkCtx)
	return c, ok
}

// Ref returns link again for another embedding. It only applies to links that
// are not bound yet.
func (p *Parser) Ref() *Parser {
	c, ok := linkOf(p)
	switch {
	case !ok:
		return broken(ErrNotLink)
	case c.bound:
		return broken(ErrBound)
	}
	p.refs++
	return p
}

// Bind makes link forward to target, transferring ownership of target to the
// link. Once bound, the link and its target are torn down with the first
// grammar that frees it. On error target is freed.
func Bind(link, target *Parser) error {
	c, ok := linkOf(link)
	if !ok {
		target.Free()
		return ErrNotLink
	}
	if c.bound {
		target.Free()
		return ErrBound
	}
	if err := check(target); err != nil {
		target.Free()
		return err
	}
	c.target = target
	c.bound = true
	if link.refs <= 1 {
		// the grammar already released the link
		link.Free()
		return nil
	}
	link.refs = 1
	return nil
}
