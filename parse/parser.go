package parse

import (
	"fmt"

	"github.com/dhamidi/comb/stack"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("comb.parse")

// Func is the operation of a parser node. It receives the context the node
// was built with and the remaining input, and may push onto st.
type Func func(ctx any, input []byte, st *stack.Stack) Result

// Destroy releases a parser context. Combinators free their children here.
type Destroy func(ctx any)

type lifeState int

const (
	live lifeState = iota
	freeing
	freed
)

// Parser is a node in a grammar tree.
type Parser struct {
	fn      Func
	ctx     any
	destroy Destroy
	name    string
	err     error
	refs    int
	state   lifeState
	traced  bool // logs its own entry and exit
}

// New builds a parser node that owns ctx. When fn is nil the node cannot be
// built: destroy still runs on ctx and a broken parser is returned.
func New(fn Func, ctx any, destroy Destroy) *Parser {
	if fn == nil {
		if destroy != nil {
			destroy(ctx)
		}
		return broken(ErrNilFunc)
	}
	return &Parser{fn: fn, ctx: ctx, destroy: destroy, refs: 1}
}

func broken(err error) *Parser {
	return &Parser{err: err, refs: 1}
}

// Err returns the error that prevented the parser from being built.
func (p *Parser) Err() error {
	if p == nil {
		return ErrNilParser
	}
	return p.err
}

// Must panics when p could not be built.
func Must(p *Parser) *Parser {
	if err := p.Err(); err != nil {
		panic(fmt.Sprintf("parse: %v", err))
	}
	return p
}

// Free runs the context destructor, freeing every parser owned by p.
// Freeing a parser that is already freed, or being freed further up the
// tree, does nothing.
func (p *Parser) Free() {
	if p == nil || p.state != live {
		return
	}
	if p.refs > 1 {
		p.refs--
		return
	}
	p.state = freeing
	if p.destroy != nil {
		p.destroy(p.ctx)
	}
	p.ctx = nil
	p.state = freed
}

// Name returns the diagnostic name, if any.
func (p *Parser) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// SetName attaches a diagnostic name. A name can be set only once.
func (p *Parser) SetName(name string) error {
	if p == nil {
		return ErrNilParser
	}
	if p.name != "" {
		return fmt.Errorf("%w: %q", ErrNamed, p.name)
	}
	p.name = name
	return nil
}

// Define names p and returns it. It takes ownership of p: when p already has
// a name, p is freed and a broken parser is returned.
func Define(name string, p *Parser) *Parser {
	if err := p.Err(); err != nil {
		p.Free()
		return broken(err)
	}
	if err := p.SetName(name); err != nil {
		p.Free()
		return broken(err)
	}
	return p
}

func (p *Parser) String() string {
	if p == nil {
		return "<nil>"
	}
	if p.name != "" {
		return p.name
	}
	return fmt.Sprintf("parser@%p", p)
}

// Parse runs p against input. A non-matching outcome leaves st at the size it
// had on entry. A nil st gets a throwaway stack.
func Parse(p *Parser, input []byte, st *stack.Stack) Result {
	if st == nil {
		st = stack.New()
	}
	switch {
	case p == nil:
		return Errored(ErrNilParser)
	case p.err != nil:
		return Errored(p.err)
	case p.state != live:
		return Errored(ErrFreed)
	}

	mark := st.Len()
	r := p.fn(p.ctx, input, st)
	if r.Matched() && (r.N < 0 || r.N > len(input)) {
		r = Errored(fmt.Errorf("%w: %s consumed %d of %d bytes", ErrOverrun, p, r.N, len(input)))
	}
	if !r.Matched() {
		st.Truncate(mark)
	}

	if p.name != "" && !p.traced {
		log.Debugf("%s: %s with %d bytes remaining", p.name, r, len(input))
	}
	return r
}

// Parse is shorthand for Parse(p, input, st).
func (p *Parser) Parse(input []byte, st *stack.Stack) Result {
	return Parse(p, input, st)
}

// Match parses input with a fresh stack and returns both.
func Match(p *Parser, input []byte) (Result, *stack.Stack) {
	st := stack.New()
	r := Parse(p, input, st)
	return r, st
}

// quiet runs p with its stack effect discarded.
func quiet(p *Parser, input []byte, st *stack.Stack) Result {
	mark := st.Len()
	r := Parse(p, input, st)
	st.Truncate(mark)
	return r
}

// check returns the first build error among ps, treating nil as broken.
func check(ps ...*Parser) error {
	for _, p := range ps {
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}

func freeAll(ps []*Parser) {
	for _, p := range ps {
		p.Free()
	}
}

// reject frees every taken parser and returns a broken one.
func reject(err error, ps ...*Parser) *Parser {
	freeAll(ps)
	return broken(err)
}

type unary struct {
	p *Parser
}

func freeUnary(ctx any) {
	ctx.(*unary).p.Free()
}

// Wrap builds a combinator around p that runs fn in place of p. fn decides
// whether and how to call Parse on p. The returned parser owns p.
func Wrap(p *Parser, fn func(p *Parser, input []byte, st *stack.Stack) Result) *Parser {
	if err := check(p); err != nil {
		return reject(err, p)
	}
	if fn == nil {
		return reject(ErrNilFunc, p)
	}
	return New(func(ctx any, input []byte, st *stack.Stack) Result {
		return fn(ctx.(*unary).p, input, st)
	}, &unary{p: p}, freeUnary)
}
