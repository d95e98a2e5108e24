package stack

import (
	"errors"
	"testing"
)

func TestPushPop(t *testing.T) {
	s := New()
	s.Push("int", 1, 8, nil)
	s.Push("str", "two", 3, nil)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if _, err := s.Pop("int"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Pop(int) error = %v, want ErrTypeMismatch", err)
	}
	if s.Len() != 2 {
		t.Errorf("mismatched pop removed an item")
	}

	v, err := s.Pop("str")
	if err != nil {
		t.Fatalf("Pop(str): %v", err)
	}
	if v != "two" {
		t.Errorf("Pop(str) = %v, want two", v)
	}

	v, err = s.Pop("int")
	if err != nil {
		t.Fatalf("Pop(int): %v", err)
	}
	if v != 1 {
		t.Errorf("Pop(int) = %v, want 1", v)
	}

	if _, err := s.Pop("int"); !errors.Is(err, ErrEmpty) {
		t.Errorf("Pop on empty stack error = %v, want ErrEmpty", err)
	}
}

func TestPopTransfersOwnership(t *testing.T) {
	destroyed := 0
	s := New()
	s.Push("x", "payload", 7, func(any) { destroyed++ })
	if _, err := s.Pop("x"); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if destroyed != 0 {
		t.Errorf("destructor ran %d times after Pop, want 0", destroyed)
	}
}

func TestPeek(t *testing.T) {
	s := New()
	s.Push("a", "bottom", 0, nil)
	s.Push("b", "top", 0, nil)

	tests := []struct {
		name  string
		tag   Tag
		depth int
		want  any
		err   error
	}{
		{"top", "b", 0, "top", nil},
		{"below", "a", 1, "bottom", nil},
		{"wrong tag", "a", 0, nil, ErrTypeMismatch},
		{"too deep", "a", 2, nil, ErrEmpty},
		{"negative", "b", -1, nil, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Peek(tt.tag, tt.depth)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if s.Len() != 2 {
		t.Errorf("Peek changed the size to %d", s.Len())
	}
}

func TestDrop(t *testing.T) {
	var order []int
	s := New()
	for i := 0; i < 3; i++ {
		s.Push("n", i, 0, func(d any) { order = append(order, d.(int)) })
	}

	if err := s.Drop(2); err != nil {
		t.Fatalf("Drop(2): %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("destroy order = %v, want [2 1]", order)
	}

	if err := s.Drop(5); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Drop(5) error = %v, want ErrUnderflow", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after underflow = %d, want 0", s.Len())
	}
	if len(order) != 3 {
		t.Errorf("destructor calls = %d, want 3", len(order))
	}
}

func TestDropNegative(t *testing.T) {
	s := New()
	s.Push("n", 1, 0, nil)
	if err := s.Drop(-1); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Drop(-1) error = %v, want ErrUnderflow", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() after Drop(-1) = %d, want 1", s.Len())
	}
}

func TestCut(t *testing.T) {
	destroyed := 0
	s := New()
	for i := 0; i < 4; i++ {
		s.Push("n", i, 0, func(any) { destroyed++ })
	}
	items := s.Cut(1)
	if len(items) != 3 {
		t.Fatalf("Cut returned %d items, want 3", len(items))
	}
	for i, it := range items {
		if it.Data != i+1 {
			t.Errorf("items[%d] = %v, want %d", i, it.Data, i+1)
		}
	}
	if destroyed != 0 {
		t.Errorf("Cut ran %d destructors", destroyed)
	}
	if s.Cut(5) != nil {
		t.Errorf("Cut above size should return nil")
	}
}
