package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/comb/ebnf"
)

// TreeEncoder writes a syntax tree as indented lines of
// "kind start-end [text]".
type TreeEncoder struct {
	w    io.Writer
	node *ebnf.Node
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *ebnf.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.node != nil {
		writeTree(&sb, e.node, 0)
	}
	return []byte(sb.String()), nil
}

func writeTree(sb *strings.Builder, n *ebnf.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s %d-%d", n.Kind, n.Span.Start, n.Span.End)
	if len(n.Children) == 0 && n.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(n.Text))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		writeTree(sb, c, depth+1)
	}
}

// TokenLineEncoder writes one tab separated line per token.
type TokenLineEncoder struct {
	w      io.Writer
	tokens []ebnf.Token
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(tokens []ebnf.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", tok.Position, tok.Kind, strconv.Quote(tok.Literal))
	}
	return []byte(sb.String()), nil
}
