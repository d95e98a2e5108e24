// Package parse is a runtime parser-combinator engine.
//
// # Overview
//
// Small parser values are composed into larger ones. A parse call runs the
// root parser against a prefix of an in-memory buffer and threads a shared
// [stack.Stack] through the tree; parsers that produce values push them there.
//
//	digits := parse.Min1(parse.Pred(ascii.IsDigit))
//	list := parse.Seq(digits, parse.Many(parse.Seq(parse.Drop(parse.Char(',')), digits)))
//	defer list.Free()
//
//	st := stack.New()
//	r := parse.Parse(list, []byte("1,22,333"), st)
//
// # Outcomes
//
// Every parse returns a [Result]:
//
//   - StatusMatched: the parser consumed Result.N bytes.
//   - StatusFail: no match here. Or, Maybe, Not and the optional iterations of
//     the repetition combinators recover from it.
//   - StatusAbort: fatal, propagates through every combinator.
//   - StatusError: fatal like Abort, carrying an error kind (see AssertE and AbortE).
//
// A parser that does not match leaves the stack exactly as it found it.
//
// # Ownership
//
// A combinator owns the parsers passed to it from the moment it is called,
// even when it cannot be built. Freeing the root frees the whole tree once.
// Invalid arguments produce a broken parser whose Err method reports the
// problem; broken parsers propagate through enclosing combinators so a grammar
// can be written as one expression and checked once.
//
// # Recursion
//
// Trees are built bottom-up. Recursive grammars use NewLink to create a
// placeholder, embed it, and Bind it to the finished parser:
//
//	expr := parse.NewLink()
//	group := parse.Seq(parse.Char('('), expr, parse.Char(')'))
//	root := parse.Or(group, parse.Char('x'))
//	parse.Bind(expr, root)
//
// Parsers hold per-call state in their links and are not safe for concurrent
// use by multiple goroutines.
package parse
