package router

import "slices"

// Stack manages navigation history above the root.
// It stores routes in push order; the last entry is the top-most screen.
type Stack[T any] struct {
	entries []T
}

// NewStack creates a new empty navigation stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		entries: make([]T, 0),
	}
}

// Push adds a route to the top of the stack.
// Called when navigating forward to a new screen.
func (s *Stack[T]) Push(route T) {
	s.entries = append(s.entries, route)
}

// Pop removes and returns the top route.
// Returns false if the stack is empty; popping an empty stack is a no-op.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.entries) == 0 {
		return zero, false
	}
	route := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = zero
	s.entries = s.entries[:len(s.entries)-1]
	return route, true
}

// Peek returns the top route without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.entries) == 0 {
		var zero T
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Clear removes all entries from the stack.
func (s *Stack[T]) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// Entries returns a copy of the stack, bottom first.
func (s *Stack[T]) Entries() []T {
	return slices.Clone(s.entries)
}
