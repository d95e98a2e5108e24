package parse

import (
	"github.com/dhamidi/comb/stack"
)

// Value is a payload pushed by the lifting parsers.
type Value struct {
	Tag  stack.Tag
	Data any
	Size int
}

func (v Value) push(st *stack.Stack) {
	st.Push(v.Tag, v.Data, v.Size, nil)
}

func succeed(any, []byte, *stack.Stack) Result { return Ok(0) }
func fail(any, []byte, *stack.Stack) Result    { return Failed() }
func abort(any, []byte, *stack.Stack) Result   { return Aborted() }

// Success matches the empty string.
func Success() *Parser {
	return New(succeed, nil, nil)
}

// Fail never matches.
func Fail() *Parser {
	return New(fail, nil, nil)
}

// Abort stops the whole parse. Use it for branches that must not be reached.
func Abort() *Parser {
	return New(abort, nil, nil)
}

// AbortE stops the whole parse with an Error carrying kind.
func AbortE(name string, kind error) *Parser {
	if kind == nil {
		kind = ErrAborted
	}
	err := &KindError{Name: name, Kind: kind}
	return New(func(any, []byte, *stack.Stack) Result {
		return Errored(err)
	}, nil, nil)
}

// End matches only at the end of input.
func End() *Parser {
	return New(func(_ any, input []byte, _ *stack.Stack) Result {
		if len(input) == 0 {
			return Ok(0)
		}
		return Failed()
	}, nil, nil)
}

type liftCtx struct {
	v       Value
	destroy stack.Destructor
}

func liftParse(ctx any, _ []byte, st *stack.Stack) Result {
	ctx.(*liftCtx).v.push(st)
	return Ok(0)
}

func liftFree(ctx any) {
	c := ctx.(*liftCtx)
	if c.destroy != nil {
		c.destroy(c.v.Data)
	}
}

// Lift consumes nothing and pushes data every time it runs. The parser owns
// data; destroy, if set, releases it when the parser is freed. Every pushed
// item aliases that payload and carries no destructor, so a popped lifted
// value stays owned by the parser and must not be released by the caller.
func Lift(tag stack.Tag, data any, size int, destroy stack.Destructor) *Parser {
	return New(liftParse, &liftCtx{v: Value{Tag: tag, Data: data, Size: size}, destroy: destroy}, liftFree)
}

// LiftP is Lift for a payload the parser borrows and never releases.
func LiftP(tag stack.Tag, data any, size int) *Parser {
	return New(liftParse, &liftCtx{v: Value{Tag: tag, Data: data, Size: size}}, nil)
}

// LiftFunc pushes computed values. A non-nil error stops the parse.
type LiftFunc func(ctx any, st *stack.Stack) error

type liftFuncCtx struct {
	fn      LiftFunc
	ctx     any
	destroy Destroy
}

// LiftF consumes nothing and calls fn to push values. destroy releases ctx
// when the parser is freed.
func LiftF(fn LiftFunc, ctx any, destroy Destroy) *Parser {
	if fn == nil {
		if destroy != nil {
			destroy(ctx)
		}
		return broken(ErrNilFunc)
	}
	return New(func(c any, _ []byte, st *stack.Stack) Result {
		lc := c.(*liftFuncCtx)
		if err := lc.fn(lc.ctx, st); err != nil {
			return Errored(err)
		}
		return Ok(0)
	}, &liftFuncCtx{fn: fn, ctx: ctx, destroy: destroy}, func(c any) {
		lc := c.(*liftFuncCtx)
		if lc.destroy != nil {
			lc.destroy(lc.ctx)
		}
	})
}

type rawCtx struct {
	fn      Func
	ctx     any
	destroy Destroy
	v       Value
}

func rawFree(ctx any) {
	c := ctx.(*rawCtx)
	if c.destroy != nil {
		c.destroy(c.ctx)
	}
}

func newRaw(fn Func, ctx any, destroy Destroy, v Value, op Func) *Parser {
	if fn == nil {
		if destroy != nil {
			destroy(ctx)
		}
		return broken(ErrNilFunc)
	}
	return New(op, &rawCtx{fn: fn, ctx: ctx, destroy: destroy, v: v}, rawFree)
}

// NewLiftSuccess runs the match function fn and pushes v when it matches.
// The stack effect of fn itself is kept.
func NewLiftSuccess(fn Func, ctx any, destroy Destroy, v Value) *Parser {
	return newRaw(fn, ctx, destroy, v, func(c any, input []byte, st *stack.Stack) Result {
		rc := c.(*rawCtx)
		r := rc.fn(rc.ctx, input, st)
		if r.Matched() {
			rc.v.push(st)
		}
		return r
	})
}

// NewLiftFail runs the match function fn. A match passes through unchanged;
// a plain Fail becomes a match of zero bytes that pushes v.
func NewLiftFail(fn Func, ctx any, destroy Destroy, v Value) *Parser {
	return newRaw(fn, ctx, destroy, v, func(c any, input []byte, st *stack.Stack) Result {
		rc := c.(*rawCtx)
		mark := st.Len()
		r := rc.fn(rc.ctx, input, st)
		if r.Recoverable() {
			st.Truncate(mark)
			rc.v.push(st)
			return Ok(0)
		}
		return r
	})
}
