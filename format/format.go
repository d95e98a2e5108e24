package format

import (
	"encoding"

	"github.com/dhamidi/comb/ebnf"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *ebnf.Node) error
}
