package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/comb/ebnf"
)

// NodeJSONEncoder writes a syntax tree as indented JSON. When the source is
// known, spans also carry line and column.
type NodeJSONEncoder struct {
	w      io.Writer
	source []byte
	node   *ebnf.Node
}

func NewNodeJSONEncoder(w io.Writer, source []byte) *NodeJSONEncoder {
	return &NodeJSONEncoder{w: w, source: source}
}

func (e *NodeJSONEncoder) Encode(node *ebnf.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *NodeJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(e.node, e.source), "", "  ")
}

type nodeJSON struct {
	Kind     string      `json:"kind"`
	Span     nodeSpan    `json:"span"`
	Text     string      `json:"text,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

type nodeSpan struct {
	Start int           `json:"start"`
	End   int           `json:"end"`
	From  *nodePosition `json:"from,omitempty"`
	To    *nodePosition `json:"to,omitempty"`
}

type nodePosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func position(source []byte, offset int) *nodePosition {
	pos := ebnf.PositionAt("", source, offset)
	return &nodePosition{Line: pos.Line, Column: pos.Column}
}

func nodeToJSON(n *ebnf.Node, source []byte) *nodeJSON {
	if n == nil {
		return nil
	}
	jn := &nodeJSON{
		Kind: n.Kind,
		Span: nodeSpan{Start: n.Span.Start, End: n.Span.End},
		Text: n.Text,
	}

	if source != nil {
		jn.Span.From = position(source, n.Span.Start)
		jn.Span.To = position(source, n.Span.End)
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*nodeJSON, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child, source)
		}
	}

	return jn
}
