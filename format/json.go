package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/comb/ebnf"
	"github.com/dhamidi/comb/stack"
)

// StackJSONEncoder writes the items of a result stack, bottom to top.
type StackJSONEncoder struct {
	w     io.Writer
	items []stack.Item
}

func NewStackJSONEncoder(w io.Writer) *StackJSONEncoder {
	return &StackJSONEncoder{w: w}
}

func (e *StackJSONEncoder) Encode(st *stack.Stack) error {
	e.items = st.Items()
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *StackJSONEncoder) MarshalText() ([]byte, error) {
	out := make([]jsonItem, len(e.items))
	for i, it := range e.items {
		out[i] = jsonItem{
			Tag:   string(it.Tag),
			Size:  it.Size,
			Value: itemValue(it.Data),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

type jsonItem struct {
	Tag   string `json:"tag"`
	Size  int    `json:"size"`
	Value any    `json:"value,omitempty"`
}

func itemValue(data any) any {
	switch v := data.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case *ebnf.Node:
		return nodeToJSON(v, nil)
	case string, bool, int, int64, float64:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", data)
}
