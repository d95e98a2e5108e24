package parse

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatch       = errors.New("parse: no match")
	ErrAborted       = errors.New("parse: aborted")
	ErrNilParser     = errors.New("parse: nil parser")
	ErrNilFunc       = errors.New("parse: nil parse function")
	ErrFreed         = errors.New("parse: parser already freed")
	ErrNamed         = errors.New("parse: parser already named")
	ErrBadBound      = errors.New("parse: invalid repetition bound")
	ErrNotLink       = errors.New("parse: not a link")
	ErrBound         = errors.New("parse: link already bound")
	ErrUnbound       = errors.New("parse: link not bound")
	ErrLeftRecursion = errors.New("parse: left recursion")
	ErrOverrun       = errors.New("parse: consumed past end of input")
)

// Status classifies the outcome of a parse.
type Status int

const (
	StatusMatched Status = iota
	StatusFail
	StatusAbort
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusFail:
		return "fail"
	case StatusAbort:
		return "abort"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is returned by every parse operation. N is the number of bytes
// consumed when Status is StatusMatched. Kind is set when Status is StatusError.
type Result struct {
	Status Status
	N      int
	Kind   error
}

func Ok(n int) Result {
	return Result{Status: StatusMatched, N: n}
}

func Failed() Result {
	return Result{Status: StatusFail}
}

func Aborted() Result {
	return Result{Status: StatusAbort}
}

func Errored(kind error) Result {
	return Result{Status: StatusError, Kind: kind}
}

func (r Result) Matched() bool {
	return r.Status == StatusMatched
}

// Recoverable reports whether r is a plain Fail.
func (r Result) Recoverable() bool {
	return r.Status == StatusFail
}

// Fatal reports whether r is an Abort or an Error.
func (r Result) Fatal() bool {
	return r.Status == StatusAbort || r.Status == StatusError
}

// Err converts a failed result into an error. It returns nil for a match.
func (r Result) Err() error {
	switch r.Status {
	case StatusMatched:
		return nil
	case StatusFail:
		return ErrNoMatch
	case StatusAbort:
		return ErrAborted
	}
	if r.Kind == nil {
		return ErrAborted
	}
	return r.Kind
}

func (r Result) String() string {
	switch r.Status {
	case StatusMatched:
		return fmt.Sprintf("matched(%d)", r.N)
	case StatusError:
		return fmt.Sprintf("error(%v)", r.Kind)
	}
	return r.Status.String()
}

// KindError is the error carried by results of AssertE and AbortE.
type KindError struct {
	Name string
	Kind error
}

func (e *KindError) Error() string {
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Kind)
}

func (e *KindError) Unwrap() error {
	return e.Kind
}
