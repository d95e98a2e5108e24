// Package ebnf builds parsers from EBNF grammars at run time.
//
// Grammars use the notation of golang.org/x/exp/ebnf. Compile turns each
// production into a tree of package parse combinators; references between
// productions go through links, so recursive grammars work without any code
// generation. A successful parse yields a concrete syntax tree of *Node.
package ebnf

import "github.com/dhamidi/comb/stack"

// TagNode tags the *Node items pushed by compiled productions.
const TagNode stack.Tag = "node"

// Span is a range of byte offsets into the parsed input.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Node represents a node in the concrete syntax tree.
// Terminals carry Text; productions carry Children.
type Node struct {
	Kind     string  // Production name, or the quoted literal of a terminal
	Children []*Node // Child nodes (nil for terminals)
	Text     string  // Matched text (terminals and lexical productions)
	Span     Span    // Source span covering this node

	rest int // input length remaining where the node started
}

// IsTerminal returns true if this node has no children and carries text.
func (n *Node) IsTerminal() bool {
	return len(n.Children) == 0 && n.Text != ""
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Walk calls fn for n and its descendants in depth-first order until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// resolve turns the recorded remaining lengths into offsets from the start
// of an input of total bytes.
func (n *Node) resolve(total int) {
	n.Walk(func(c *Node) bool {
		size := c.Span.Len()
		c.Span.Start = total - c.rest
		c.Span.End = c.Span.Start + size
		return true
	})
}

func newNode(kind string, rest, size int) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: 0, End: size},
		rest: rest,
	}
}
