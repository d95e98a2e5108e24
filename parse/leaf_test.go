package parse

import (
	"errors"
	"testing"

	"github.com/dhamidi/comb/stack"
)

func TestConstantParsers(t *testing.T) {
	kind := errors.New("unreachable")
	tests := []struct {
		name   string
		p      *Parser
		status Status
	}{
		{"success", Success(), StatusMatched},
		{"fail", Fail(), StatusFail},
		{"abort", Abort(), StatusAbort},
		{"abort with kind", AbortE("branch", kind), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.p.Free()
			r, st := Match(tt.p, []byte("input"))
			if r.Status != tt.status {
				t.Errorf("status = %v, want %v", r.Status, tt.status)
			}
			if r.Matched() && r.N != 0 {
				t.Errorf("consumed %d", r.N)
			}
			if st.Len() != 0 {
				t.Errorf("stack size = %d", st.Len())
			}
		})
	}

	p := AbortE("branch", kind)
	defer p.Free()
	r, _ := Match(p, nil)
	var ke *KindError
	if !errors.As(r.Err(), &ke) || ke.Name != "branch" || !errors.Is(r.Err(), kind) {
		t.Errorf("Err() = %v", r.Err())
	}
}

func TestLift(t *testing.T) {
	var destroyed []any
	p := Lift("answer", 42, 8, func(d any) { destroyed = append(destroyed, d) })

	for i := 0; i < 2; i++ {
		r, st := Match(p, []byte("xyz"))
		if !r.Matched() || r.N != 0 {
			t.Fatalf("result = %v", r)
		}
		it, ok := st.Top()
		if !ok || it.Tag != "answer" || it.Data != 42 || it.Size != 8 || it.Destroy != nil {
			t.Errorf("top item = %+v", it)
		}
	}
	_, st := Match(p, nil)
	if v, err := st.Pop("answer"); err != nil || v != 42 {
		t.Errorf("Pop = %v, %v", v, err)
	}
	if len(destroyed) != 0 {
		t.Fatalf("payload destroyed while parser alive")
	}
	p.Free()
	if len(destroyed) != 1 || destroyed[0] != 42 {
		t.Errorf("destroyed = %v, want [42]", destroyed)
	}
}

func TestLiftP(t *testing.T) {
	payload := &struct{ n int }{7}
	p := LiftP("ptr", payload, 0)
	defer p.Free()
	_, st := Match(p, nil)
	v, err := st.Pop("ptr")
	if err != nil || v != payload {
		t.Errorf("Pop = %v, %v", v, err)
	}
}

func TestLiftF(t *testing.T) {
	freed := false
	p := LiftF(func(ctx any, st *stack.Stack) error {
		n := ctx.(int)
		st.Push("n", n, 0, nil)
		st.Push("n", n*2, 0, nil)
		return nil
	}, 21, func(any) { freed = true })

	_, st := Match(p, nil)
	if v, _ := st.Peek("n", 0); v != 42 {
		t.Errorf("top = %v, want 42", v)
	}
	if v, _ := st.Peek("n", 1); v != 21 {
		t.Errorf("below top = %v, want 21", v)
	}
	p.Free()
	if !freed {
		t.Error("LiftF context not released")
	}

	boom := errors.New("boom")
	q := LiftF(func(_ any, st *stack.Stack) error {
		st.Push("partial", nil, 0, nil)
		return boom
	}, nil, nil)
	defer q.Free()
	r, st := Match(q, nil)
	if !errors.Is(r.Err(), boom) || st.Len() != 0 {
		t.Errorf("result = %v, stack = %d", r, st.Len())
	}

	if LiftF(nil, nil, nil).Err() != ErrNilFunc {
		t.Error("LiftF(nil) was built")
	}
}

// digitRun is a raw match function consuming leading ASCII digits.
func digitRun(_ any, input []byte, _ *stack.Stack) Result {
	n := 0
	for n < len(input) && input[n] >= '0' && input[n] <= '9' {
		n++
	}
	if n == 0 {
		return Failed()
	}
	return Ok(n)
}

func TestNewLiftSuccess(t *testing.T) {
	p := NewLiftSuccess(digitRun, nil, nil, Value{Tag: "number", Data: true})
	defer p.Free()

	r, st := Match(p, []byte("123x"))
	if !r.Matched() || r.N != 3 || st.Len() != 1 {
		t.Errorf("on digits: %v, stack %d", r, st.Len())
	}
	r, st = Match(p, []byte("x"))
	if r.Status != StatusFail || st.Len() != 0 {
		t.Errorf("on letter: %v, stack %d", r, st.Len())
	}
}

func TestNewLiftFail(t *testing.T) {
	p := NewLiftFail(digitRun, nil, nil, Value{Tag: "default", Data: 0})
	defer p.Free()

	r, st := Match(p, []byte("12"))
	if !r.Matched() || r.N != 2 || st.Len() != 0 {
		t.Errorf("on digits: %v, stack %d", r, st.Len())
	}
	r, st = Match(p, []byte("x"))
	if !r.Matched() || r.N != 0 {
		t.Fatalf("on letter: %v", r)
	}
	if _, err := st.Pop("default"); err != nil {
		t.Errorf("no default pushed: %v", err)
	}

	q := NewLiftFail(func(any, []byte, *stack.Stack) Result { return Aborted() }, nil, nil, Value{Tag: "default"})
	defer q.Free()
	if r, _ := Match(q, nil); r.Status != StatusAbort {
		t.Errorf("abort re-interpreted as %v", r)
	}

	released := false
	if NewLiftFail(nil, "ctx", func(any) { released = true }, Value{}).Err() != ErrNilFunc || !released {
		t.Error("nil match function not rejected")
	}
}
