// Package input turns hardware button presses into navigation dismissals.
//
// Button events may be produced on any goroutine (see Listen) but must be
// applied on the UI loop that owns the controller:
//
//	events := make(chan input.ButtonEvent, 16)
//	go input.Listen(ctx, "/dev/input/event0", input.DefaultKeymap(), events)
//
//	d := input.NewDispatcher(nav, input.DefaultBindings())
//	for running {
//	    d.Drain(events)
//	    d.Update()
//	    render()
//	}
package input

import (
	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/BrandonKowalski/voyager/pkg/voyager/internal"
	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
	"github.com/jonboulle/clockwork"
)

// ButtonEvent is a press or release of a virtual button.
type ButtonEvent struct {
	Button  constants.VirtualButton
	Pressed bool
}

// Binding describes what a button dismisses.
// An untargeted binding uses the controller's fallback precedence.
type Binding struct {
	Targeted bool
	Option   router.PresentationOption
	Repeat   bool // Keep dismissing while held
}

// DefaultBindings maps B to the front-most dismissal (with hold repeat) and
// Select to a plain back navigation.
func DefaultBindings() map[constants.VirtualButton]Binding {
	return map[constants.VirtualButton]Binding{
		constants.VirtualButtonB:      {Repeat: true},
		constants.VirtualButtonSelect: {Targeted: true, Option: router.Navigation},
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherSettings)

type dispatcherSettings struct {
	clock clockwork.Clock
}

// WithClock sets the clock used for hold-repeat timing.
func WithClock(clock clockwork.Clock) DispatcherOption {
	return func(s *dispatcherSettings) {
		s.clock = clock
	}
}

// Dispatcher applies button events to a controller.
type Dispatcher[T comparable] struct {
	controller *router.Controller[T]
	bindings   map[constants.VirtualButton]Binding
	repeat     internal.HeldRepeater
}

// NewDispatcher creates a Dispatcher for controller.
func NewDispatcher[T comparable](controller *router.Controller[T], bindings map[constants.VirtualButton]Binding, opts ...DispatcherOption) *Dispatcher[T] {
	s := dispatcherSettings{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&s)
	}

	return &Dispatcher[T]{
		controller: controller,
		bindings:   bindings,
		repeat:     internal.NewHeldRepeater(s.clock),
	}
}

// HandleButton applies a press or release. It returns true if the button
// is bound. Dismissal happens on press; repeat timing starts on press and
// stops on release.
func (d *Dispatcher[T]) HandleButton(button constants.VirtualButton, pressed bool) bool {
	binding, ok := d.bindings[button]
	if !ok {
		return false
	}

	if binding.Repeat {
		d.repeat.SetHeld(button, pressed)
	}

	if pressed {
		d.apply(binding)
	}
	return true
}

// Update fires hold repeats. Call once per frame.
func (d *Dispatcher[T]) Update() {
	button := d.repeat.Update()
	if button == constants.VirtualButtonUnassigned {
		return
	}
	if binding, ok := d.bindings[button]; ok {
		d.apply(binding)
	}
}

// Drain applies every event currently buffered in events without blocking.
// It returns the number of events applied.
func (d *Dispatcher[T]) Drain(events <-chan ButtonEvent) int {
	n := 0
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return n
			}
			d.HandleButton(ev.Button, ev.Pressed)
			n++
		default:
			return n
		}
	}
}

func (d *Dispatcher[T]) apply(binding Binding) {
	if binding.Targeted {
		d.controller.DismissOption(binding.Option)
		return
	}
	d.controller.Dismiss()
}
