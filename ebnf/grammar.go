package ebnf

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/comb/parse"
	"github.com/dhamidi/comb/stack"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

var log = commonlog.GetLogger("comb.ebnf")

var (
	ErrUndefined   = errors.New("ebnf: undefined production")
	ErrUnsupported = errors.New("ebnf: unsupported expression")
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f)
}

// ParseGrammar reads an EBNF grammar from r.
func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

const verifyRoot = "comb:roots"

// VerifyErrors lists every problem Verify found.
type VerifyErrors []error

func (e VerifyErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e VerifyErrors) Unwrap() []error {
	return e
}

// Verify checks that every production reachable from start is defined, that
// every production is reachable and that lexical productions (upper-case
// names) refer only to lexical productions. A non-empty skip production
// counts as a second root.
func Verify(g ebnf.Grammar, start, skip string) error {
	roots := g
	root := start
	if skip != "" {
		for _, name := range []string{start, skip} {
			if _, ok := g[name]; !ok {
				return fmt.Errorf("%w: %q", ErrUndefined, name)
			}
		}
		roots = make(ebnf.Grammar, len(g)+1)
		maps.Copy(roots, g)
		roots[verifyRoot] = &ebnf.Production{
			Name: &ebnf.Name{String: verifyRoot},
			Expr: ebnf.Alternative{&ebnf.Name{String: start}, &ebnf.Name{String: skip}},
		}
		root = verifyRoot
	}

	var errs VerifyErrors
	// x/exp/ebnf calls lower-case productions lexical; its lexical check is
	// replaced by checkLexical.
	for _, err := range splitErrors(ebnf.Verify(roots, root)) {
		if !strings.Contains(err.Error(), "reference to non-lexical production") {
			errs = append(errs, err)
		}
	}
	errs = append(errs, checkLexical(g)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// splitErrors flattens the error list returned by x/exp/ebnf.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// checkLexical reports references from lexical to syntactic productions, in
// source order.
func checkLexical(g ebnf.Grammar) []error {
	names := make([]string, 0, len(g))
	for name := range g {
		if isLexical(name) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := g[names[i]].Pos(), g[names[j]].Pos()
		if pi.Offset != pj.Offset {
			return pi.Offset < pj.Offset
		}
		return names[i] < names[j]
	})

	var errs []error
	for _, name := range names {
		walkNames(g[name].Expr, func(ref *ebnf.Name) {
			if !isLexical(ref.String) {
				errs = append(errs, fmt.Errorf("%s: lexical production %s refers to syntactic production %s", ref.Pos(), name, ref.String))
			}
		})
	}
	return errs
}

func walkNames(x ebnf.Expression, fn func(*ebnf.Name)) {
	switch e := x.(type) {
	case ebnf.Alternative:
		for _, alt := range e {
			walkNames(alt, fn)
		}
	case ebnf.Sequence:
		for _, item := range e {
			walkNames(item, fn)
		}
	case *ebnf.Group:
		walkNames(e.Body, fn)
	case *ebnf.Option:
		walkNames(e.Body, fn)
	case *ebnf.Repetition:
		walkNames(e.Body, fn)
	case *ebnf.Name:
		fn(e)
	}
}

// Option configures Compile.
type Option func(*compiler)

// WithSkip names a lexical production that is skipped before every terminal
// of a syntactic production and at the end of the input.
func WithSkip(name string) Option {
	return func(c *compiler) {
		c.skip = name
	}
}

// WithWrap installs a hook that may wrap the parser of every production,
// for example to instrument it. The hook takes ownership of p.
func WithWrap(fn func(name string, p *parse.Parser) *parse.Parser) Option {
	return func(c *compiler) {
		c.wrap = fn
	}
}

// Grammar is a compiled grammar.
type Grammar struct {
	Source ebnf.Grammar
	Start  string

	root   *parse.Parser
	prefix *parse.Parser
}

// SyntaxError reports input the grammar rejected. Offset is the length of
// the longest prefix the start production matched.
type SyntaxError struct {
	Start  string
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse %s: %v at offset %d", e.Start, e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Compile builds a parser for the start production of g that must consume
// the whole input.
func Compile(g ebnf.Grammar, start string, opts ...Option) (*Grammar, error) {
	root, prefix, err := build(g, start, true, opts)
	if err != nil {
		return nil, err
	}
	return &Grammar{Source: g, Start: start, root: root, prefix: prefix}, nil
}

// Root returns the compiled parser. It stays owned by the grammar.
func (g *Grammar) Root() *parse.Parser {
	return g.root
}

// Free releases the compiled parser tree.
func (g *Grammar) Free() {
	g.root.Free()
	g.root = nil
	g.prefix = nil
}

// Match runs the compiled parser on input.
func (g *Grammar) Match(input []byte) (parse.Result, *stack.Stack) {
	return parse.Match(g.root, input)
}

// Parse parses input and returns its syntax tree.
func (g *Grammar) Parse(input []byte) (*Node, error) {
	r, st := g.Match(input)
	defer st.Reset()
	if err := r.Err(); err != nil {
		return nil, g.syntaxError(input, err)
	}
	v, err := st.Pop(TagNode)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", g.Start, err)
	}
	node := v.(*Node)
	node.resolve(len(input))
	return node, nil
}

// Check reports whether input matches, without building a tree.
func (g *Grammar) Check(input []byte) error {
	r, st := g.Match(input)
	st.Reset()
	if err := r.Err(); err != nil {
		return g.syntaxError(input, err)
	}
	return nil
}

func (g *Grammar) syntaxError(input []byte, err error) *SyntaxError {
	serr := &SyntaxError{Start: g.Start, Err: err}
	st := stack.New()
	if r := parse.Parse(g.prefix, input, st); r.Matched() {
		serr.Offset = r.N
	}
	st.Reset()
	return serr
}

// isLexical reports whether name denotes a lexical production.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(ch)
}

type compiler struct {
	grammar ebnf.Grammar
	skip    string
	wrap    func(name string, p *parse.Parser) *parse.Parser
	links   map[string]*parse.Parser
	order   []string
	err     error
}

// build compiles start and returns the parser to run along with the link of
// the start production, which the first result owns.
func build(g ebnf.Grammar, start string, full bool, opts []Option) (*parse.Parser, *parse.Parser, error) {
	c := &compiler{
		grammar: g,
		links:   make(map[string]*parse.Parser),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := g[start]; !ok {
		return nil, nil, fmt.Errorf("%w: start production %q", ErrUndefined, start)
	}
	if c.skip != "" {
		if _, ok := g[c.skip]; !ok {
			return nil, nil, fmt.Errorf("%w: skip production %q", ErrUndefined, c.skip)
		}
	}

	link := c.ref(start)
	root := link
	var tail *parse.Parser
	if full {
		tail = c.skipped(parse.End())
	}
	bodies := make(map[string]*parse.Parser)
	for i := 0; i < len(c.order); i++ {
		name := c.order[i]
		bodies[name] = c.production(name)
	}
	for _, name := range c.order {
		if err := parse.Bind(c.links[name], bodies[name]); err != nil && c.err == nil {
			c.err = fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if full {
		root = parse.Seq(root, tail)
	}
	if c.err == nil {
		c.err = root.Err()
	}
	if c.err != nil {
		root.Free()
		return nil, nil, c.err
	}
	log.Debugf("compiled %s: %d productions", start, len(bodies))
	return root, link, nil
}

// ref returns a parser referring to the production name.
func (c *compiler) ref(name string) *parse.Parser {
	if l, ok := c.links[name]; ok {
		return l.Ref()
	}
	if _, ok := c.grammar[name]; !ok {
		if c.err == nil {
			c.err = fmt.Errorf("%w: %q", ErrUndefined, name)
		}
		return parse.Fail()
	}
	l := parse.NewLink()
	c.links[name] = l
	c.order = append(c.order, name)
	return l
}

// skipped prefixes p with the skip production, if any.
func (c *compiler) skipped(p *parse.Parser) *parse.Parser {
	if c.skip == "" {
		return p
	}
	return parse.Seq(parse.Drop(parse.Many(c.ref(c.skip))), p)
}

func (c *compiler) production(name string) *parse.Parser {
	prod := c.grammar[name]
	lexical := isLexical(name)

	var body *parse.Parser
	if prod.Expr == nil {
		body = parse.Success()
	} else {
		body = c.expr(prod.Expr, lexical)
	}

	var p *parse.Parser
	if lexical {
		p = parse.Reduce(body, TagNode, func(_ []stack.Item, span []byte, rest int) (any, error) {
			n := newNode(name, rest, len(span))
			n.Text = string(span)
			return n, nil
		})
	} else {
		p = parse.Reduce(body, TagNode, func(items []stack.Item, span []byte, rest int) (any, error) {
			n := newNode(name, rest, len(span))
			for _, it := range items {
				if child, ok := it.Data.(*Node); ok {
					n.AddChild(child)
				}
			}
			return n, nil
		})
	}
	p = parse.Define(name, p)
	if c.wrap != nil {
		p = c.wrap(name, p)
	}
	return p
}

// terminal wraps a literal matcher of a syntactic production so that it
// yields a node.
func (c *compiler) terminal(p *parse.Parser) *parse.Parser {
	return c.skipped(parse.Reduce(p, TagNode, func(_ []stack.Item, span []byte, rest int) (any, error) {
		n := newNode(strconv.Quote(string(span)), rest, len(span))
		n.Text = string(span)
		return n, nil
	}))
}

func (c *compiler) expr(x ebnf.Expression, lexical bool) *parse.Parser {
	switch e := x.(type) {
	case nil:
		return parse.Success()

	case *ebnf.Token:
		if lexical {
			return parse.String(e.String)
		}
		return c.terminal(parse.String(e.String))

	case *ebnf.Range:
		lo, hi := e.Begin.String, e.End.String
		if len(lo) != 1 || len(hi) != 1 {
			if c.err == nil {
				c.err = fmt.Errorf("%w: range %q … %q is not a byte range", ErrUnsupported, lo, hi)
			}
			return parse.Fail()
		}
		if lexical {
			return parse.Range(lo[0], hi[0])
		}
		return c.terminal(parse.Range(lo[0], hi[0]))

	case ebnf.Sequence:
		ps := make([]*parse.Parser, len(e))
		for i, item := range e {
			ps[i] = c.expr(item, lexical)
		}
		return parse.Seq(ps...)

	case ebnf.Alternative:
		ps := make([]*parse.Parser, len(e))
		for i, alt := range e {
			ps[i] = c.expr(alt, lexical)
		}
		return parse.Or(ps...)

	case *ebnf.Repetition:
		return parse.Many(c.expr(e.Body, lexical))

	case *ebnf.Option:
		return parse.Maybe(c.expr(e.Body, lexical))

	case *ebnf.Group:
		return c.expr(e.Body, lexical)

	case *ebnf.Name:
		if !lexical && isLexical(e.String) {
			return c.skipped(c.ref(e.String))
		}
		return c.ref(e.String)
	}

	if c.err == nil {
		c.err = fmt.Errorf("%w: %T", ErrUnsupported, x)
	}
	return parse.Fail()
}
