package router

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Op identifies the public operation that produced a Change.
type Op int

const (
	OpUpdateRoot Op = iota // Root replaced, stack cleared
	OpPresent              // Route presented (pushed or shown in an overlay)
	OpDismiss              // Overlay cleared or stack popped
)

func (op Op) String() string {
	switch op {
	case OpUpdateRoot:
		return "update_root"
	case OpPresent:
		return "present"
	case OpDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Field is a bitmask of the state fields written by a mutation.
type Field uint8

const (
	FieldRoot Field = 1 << iota
	FieldStack
	FieldSheet
	FieldFullscreenCover
	FieldPopover
)

// FieldFor returns the field an option writes.
func FieldFor(option PresentationOption) Field {
	switch option {
	case Sheet:
		return FieldSheet
	case FullscreenCover:
		return FieldFullscreenCover
	case Popover:
		return FieldPopover
	default:
		return FieldStack
	}
}

// Has reports whether all fields in f are set.
func (f Field) Has(other Field) bool {
	return f&other == other
}

func (f Field) String() string {
	names := []struct {
		field Field
		name  string
	}{
		{FieldRoot, "root"},
		{FieldStack, "stack"},
		{FieldSheet, "sheet"},
		{FieldFullscreenCover, "fullscreen_cover"},
		{FieldPopover, "popover"},
	}

	var parts []string
	for _, n := range names {
		if f.Has(n.field) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Change is the notification delivered to observers after every mutation.
type Change[T comparable] struct {
	Revision uint64             // Monotonic per controller, starting at 1
	Op       Op                 // Operation that caused the change
	Option   PresentationOption // Surface the operation targeted
	Fields   Field              // Fields written by the operation
	State    State[T]           // State after the mutation
	At       time.Time          // Controller clock time of the mutation
}

// Observer receives navigation changes. Renderers implement this to redraw.
type Observer[T comparable] interface {
	NavigationChanged(change Change[T])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T comparable] func(change Change[T])

func (f ObserverFunc[T]) NavigationChanged(change Change[T]) {
	f(change)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     uuid.UUID
	active *atomic.Bool
}

func newSubscription() *Subscription {
	return &Subscription{
		id:     uuid.New(),
		active: atomic.NewBool(true),
	}
}

// ID returns the unique identifier of the subscription.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Cancel stops delivery to the observer. It is safe to call more than once
// and from inside a notification.
func (s *Subscription) Cancel() {
	s.active.Store(false)
}

type subscriber[T comparable] struct {
	sub      *Subscription
	observer Observer[T]
}
