// Package textview renders navigation state as one line of text per change.
//
// It is the simplest possible rendering surface: useful for terminals, logs,
// and tests. Like any renderer it owns the timing of dismiss callbacks. When
// an overlay it was showing disappears, it treats the overlay as fully closed
// and asks the controller to fire that overlay's callback.
package textview

import (
	"fmt"
	"io"
	"strings"

	"github.com/BrandonKowalski/voyager/pkg/voyager/locale"
	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
)

// Formatter renders a route for display.
type Formatter[T comparable] func(route T) string

// View writes a line for every navigation change.
type View[T comparable] struct {
	out        io.Writer
	controller *router.Controller[T]
	labels     *locale.Localizer
	format     Formatter[T]
	previous   router.State[T]
}

// New creates a View for controller. A nil format uses fmt's %v.
// The view is not subscribed until Attach is called.
func New[T comparable](out io.Writer, controller *router.Controller[T], labels *locale.Localizer, format Formatter[T]) *View[T] {
	if format == nil {
		format = func(route T) string { return fmt.Sprintf("%v", route) }
	}

	return &View[T]{
		out:        out,
		controller: controller,
		labels:     labels,
		format:     format,
		previous:   controller.Snapshot(),
	}
}

// Attach subscribes the view to its controller.
func (v *View[T]) Attach() *router.Subscription {
	return v.controller.Subscribe(v)
}

// NavigationChanged implements router.Observer.
func (v *View[T]) NavigationChanged(change router.Change[T]) {
	fmt.Fprintf(v.out, "#%d %s %s | %s\n",
		change.Revision,
		v.labels.Operation(change.Op),
		v.labels.Option(change.Option),
		v.Render(change.State),
	)

	previous := v.previous
	v.previous = change.State

	for _, option := range router.Overlays {
		if !previous.Overlay(option).IsEmpty() && change.State.Overlay(option).IsEmpty() {
			v.controller.FireDismiss(option)
		}
	}
}

// Render describes a state without the change header.
func (v *View[T]) Render(state router.State[T]) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s=%s", v.labels.Root(), v.format(state.Root))

	if len(state.Stack) == 0 {
		fmt.Fprintf(&b, " [%s]", v.labels.Empty())
	} else {
		names := make([]string, 0, len(state.Stack))
		for _, route := range state.Stack {
			names = append(names, v.format(route))
		}
		fmt.Fprintf(&b, " [%s] (%s)", strings.Join(names, " > "), v.labels.Depth(len(state.Stack)))
	}

	for _, option := range router.Overlays {
		if route, ok := state.Overlay(option).Get(); ok {
			fmt.Fprintf(&b, " %s=%s", v.labels.Option(option), v.format(route))
		}
	}

	return b.String()
}
