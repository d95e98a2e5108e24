package ebnf

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/comb/parse"
	"github.com/dhamidi/comb/stack"
	"golang.org/x/exp/ebnf"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionAt computes the line and column of offset in input.
func PositionAt(filename string, input []byte, offset int) Position {
	pos := Position{Filename: filename, Line: 1, Column: 1}
	if offset > len(input) {
		offset = len(input)
	}
	for _, ch := range input[:offset] {
		if ch == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Offset = offset
	return pos
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

type lexeme struct {
	name string
	p    *parse.Parser
}

// Lexer tokenizes input based on the lexical productions of an EBNF grammar.
type Lexer struct {
	lexemes  []lexeme
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	st       *stack.Stack
}

// NewLexer compiles every lexical production (upper-case first letter) of
// grammar and returns a lexer over input.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string) (*Lexer, error) {
	names := make([]string, 0, len(grammar))
	for name, prod := range grammar {
		if prod.Expr != nil && isLexical(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		st:       stack.New(),
	}
	for _, name := range names {
		p, _, err := build(grammar, name, false, nil)
		if err != nil {
			l.Free()
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		l.lexemes = append(l.lexemes, lexeme{name: name, p: p})
	}
	return l, nil
}

// Free releases the compiled productions.
func (l *Lexer) Free() {
	for _, lx := range l.lexemes {
		lx.p.Free()
	}
	l.lexemes = nil
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// NextToken returns the next token from the input.
// It tries every lexical production and returns the longest match; ties go
// to the production whose name sorts first.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: "EOF", Position: l.Position()}, io.EOF
	}

	startPos := l.Position()
	rest := l.input[l.pos:]

	var bestKind string
	var bestLen int

	for _, lx := range l.lexemes {
		r := parse.Parse(lx.p, rest, l.st)
		l.st.Reset()
		if r.Fatal() {
			return Token{Kind: "ERROR", Position: startPos}, fmt.Errorf("%s: %s: %w", startPos, lx.name, r.Err())
		}
		if r.Matched() && r.N > bestLen {
			bestLen = r.N
			bestKind = lx.name
		}
	}

	if bestLen == 0 {
		// No match - emit single character as error token
		ch := l.advance()
		return Token{
			Kind:     "ERROR",
			Literal:  string(ch),
			Position: startPos,
		}, nil
	}

	literal := string(rest[:bestLen])
	for i := 0; i < bestLen; i++ {
		l.advance()
	}

	return Token{
		Kind:     bestKind,
		Literal:  literal,
		Position: startPos,
	}, nil
}

// Tokenize reads all tokens from input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			tokens = append(tokens, tok)
			break
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
