package router

import "slices"

// Slot holds at most one route for an overlay surface.
type Slot[T comparable] struct {
	route   T
	showing bool
}

// Showing returns a slot presenting route.
func Showing[T comparable](route T) Slot[T] {
	return Slot[T]{route: route, showing: true}
}

// Get returns the presented route, or false if the slot is empty.
func (s Slot[T]) Get() (T, bool) {
	return s.route, s.showing
}

// IsEmpty returns true if nothing is presented in the slot.
func (s Slot[T]) IsEmpty() bool {
	return !s.showing
}

// State is an immutable snapshot of everything a renderer needs to draw.
// Stack is a copy and may be kept by the receiver.
type State[T comparable] struct {
	Root            T
	Stack           []T
	Sheet           Slot[T]
	FullscreenCover Slot[T]
	Popover         Slot[T]
}

// Overlay returns the slot for an overlay option.
// Navigation has no slot and always reports empty.
func (s State[T]) Overlay(option PresentationOption) Slot[T] {
	switch option {
	case Sheet:
		return s.Sheet
	case FullscreenCover:
		return s.FullscreenCover
	case Popover:
		return s.Popover
	default:
		return Slot[T]{}
	}
}

// Top returns the route currently on top of the navigation hierarchy,
// ignoring overlays: the last pushed route, or the root.
func (s State[T]) Top() T {
	if len(s.Stack) == 0 {
		return s.Root
	}
	return s.Stack[len(s.Stack)-1]
}

// Equal reports whether two snapshots hold the same routes.
func (s State[T]) Equal(other State[T]) bool {
	return s.Root == other.Root &&
		slices.Equal(s.Stack, other.Stack) &&
		s.Sheet == other.Sheet &&
		s.FullscreenCover == other.FullscreenCover &&
		s.Popover == other.Popover
}
