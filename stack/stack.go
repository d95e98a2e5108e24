// Package stack implements the result stack shared by one parse call.
//
// Items are tagged at run time. A tag is an arbitrary string chosen by the
// grammar; Pop and Peek compare it against the requested tag and report a
// mismatch instead of handing out a value of the wrong shape.
package stack

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty        = errors.New("stack: empty")
	ErrTypeMismatch = errors.New("stack: type mismatch")
	ErrUnderflow    = errors.New("stack: drop exceeds size")
)

// Tag names the type of a stack item.
type Tag string

// Destructor releases a payload that is discarded by the stack.
type Destructor func(data any)

// Item is one value on the stack.
type Item struct {
	Tag     Tag
	Size    int
	Data    any
	Destroy Destructor
}

func (it Item) String() string {
	return fmt.Sprintf("%s(%d) %v", it.Tag, it.Size, it.Data)
}

func (it Item) release() {
	if it.Destroy != nil {
		it.Destroy(it.Data)
	}
}

// Stack is an ordered, heterogeneous sequence of tagged values.
type Stack struct {
	items []Item
}

func New() *Stack {
	return &Stack{items: make([]Item, 0, 16)}
}

// Push appends one item.
func (s *Stack) Push(tag Tag, data any, size int, destroy Destructor) {
	s.items = append(s.items, Item{Tag: tag, Size: size, Data: data, Destroy: destroy})
}

// PushItem appends an already built item.
func (s *Stack) PushItem(it Item) {
	s.items = append(s.items, it)
}

// Pop removes the top item and returns its payload. Ownership of the payload
// moves to the caller, so the item's destructor is not run. A top item with a
// different tag stays on the stack.
func (s *Stack) Pop(tag Tag) (any, error) {
	it, err := s.at(tag, 0)
	if err != nil {
		return nil, err
	}
	s.items[len(s.items)-1] = Item{}
	s.items = s.items[:len(s.items)-1]
	return it.Data, nil
}

// Peek returns the payload depth items below the top without removing it.
func (s *Stack) Peek(tag Tag, depth int) (any, error) {
	it, err := s.at(tag, depth)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

func (s *Stack) at(tag Tag, depth int) (Item, error) {
	if depth < 0 || depth >= len(s.items) {
		return Item{}, ErrEmpty
	}
	it := s.items[len(s.items)-1-depth]
	if it.Tag != tag {
		return Item{}, fmt.Errorf("%w: want %q, have %q", ErrTypeMismatch, tag, it.Tag)
	}
	return it, nil
}

// Top returns the top item regardless of its tag.
func (s *Stack) Top() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[len(s.items)-1], true
}

// Drop destroys the n topmost items. When n exceeds the size the whole stack
// is destroyed and ErrUnderflow is returned. A negative n leaves the stack
// untouched and returns ErrUnderflow.
func (s *Stack) Drop(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: dropping %d items", ErrUnderflow, n)
	}
	if n <= len(s.items) {
		s.Truncate(len(s.items) - n)
		return nil
	}
	have := len(s.items)
	s.Truncate(0)
	return fmt.Errorf("%w: dropping %d of %d", ErrUnderflow, n, have)
}

// Truncate destroys items from the top until only n remain.
func (s *Stack) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	for i := len(s.items) - 1; i >= n; i-- {
		s.items[i].release()
		s.items[i] = Item{}
	}
	if n < len(s.items) {
		s.items = s.items[:n]
	}
}

// Cut removes the items above n and returns them bottom-to-top without
// running their destructors.
func (s *Stack) Cut(n int) []Item {
	if n < 0 {
		n = 0
	}
	if n >= len(s.items) {
		return nil
	}
	out := make([]Item, len(s.items)-n)
	copy(out, s.items[n:])
	for i := n; i < len(s.items); i++ {
		s.items[i] = Item{}
	}
	s.items = s.items[:n]
	return out
}

// Len returns the number of items.
func (s *Stack) Len() int {
	return len(s.items)
}

// Items returns a bottom-to-top copy of the stack.
func (s *Stack) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Reset destroys every item.
func (s *Stack) Reset() {
	s.Truncate(0)
}
