package parse

import (
	"github.com/dhamidi/comb/stack"
)

// Trace names p and logs every entry and exit at debug level, including the
// number of items p left on the stack.
func Trace(name string, p *Parser) *Parser {
	t := Define(name, Wrap(p, func(p *Parser, input []byte, st *stack.Stack) Result {
		log.Debugf("%s: enter with %d bytes remaining", name, len(input))
		mark := st.Len()
		r := Parse(p, input, st)
		log.Debugf("%s: exit %s, %d items pushed", name, r, st.Len()-mark)
		return r
	}))
	if t.err == nil {
		t.traced = true
	}
	return t
}
