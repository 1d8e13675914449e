package router

import (
	"log/slog"
	"net/url"
	"slices"

	"github.com/BrandonKowalski/voyager/pkg/voyager/internal"
	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"
)

// DismissFunc is called by the rendering layer once an overlay it was
// registered for has finished closing.
type DismissFunc func()

// DeeplinkResolver turns an external link into a route and the option to
// present it with. Returning ok=false means the link is not handled.
type DeeplinkResolver[T comparable] func(link *url.URL) (route T, option PresentationOption, ok bool)

// Option configures a Controller.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	clock  clockwork.Clock
}

// WithLogger sets the logger used for transition tracing.
// Defaults to the framework's internal logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithClock sets the clock used to timestamp changes.
func WithClock(clock clockwork.Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

type pendingDismiss struct {
	option PresentationOption
	fn     DismissFunc
}

// Controller owns the navigation state of one UI scope: a root route, a stack
// of pushed routes, and three independent overlay slots.
// All mutation goes through the controller; renderers observe it through
// Subscribe and call back into Dismiss on user gestures.
//
// A Controller is not safe for concurrent mutation. It is meant to be driven
// from a single UI loop.
type Controller[T comparable] struct {
	root            T
	stack           *Stack[T]
	sheet           Slot[T]
	fullscreenCover Slot[T]
	popover         Slot[T]

	onDismiss pendingDismiss
	resolver  DeeplinkResolver[T]

	subscribers []subscriber[T]
	pending     []Change[T]
	notifying   bool
	revision    *atomic.Uint64

	logger *slog.Logger
	clock  clockwork.Clock
}

// New creates a Controller starting at root.
// resolver may be nil, in which case HandleDeeplink is always a no-op.
func New[T comparable](root T, resolver DeeplinkResolver[T], opts ...Option) *Controller[T] {
	s := settings{
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = internal.GetInternalLogger()
	}

	return &Controller[T]{
		root:     root,
		stack:    NewStack[T](),
		resolver: resolver,
		revision: atomic.NewUint64(0),
		logger:   s.logger,
		clock:    s.clock,
	}
}

// NewFromProducer creates a Controller whose root is built by calling root once.
func NewFromProducer[T comparable](root func() T, resolver DeeplinkResolver[T], opts ...Option) *Controller[T] {
	return New(root(), resolver, opts...)
}

// UpdateRoot replaces the root route and clears the navigation stack.
func (c *Controller[T]) UpdateRoot(route T) {
	c.root = route
	c.stack.Clear()

	c.logger.Debug("navigation root updated", "root", route)
	c.emit(OpUpdateRoot, Navigation, FieldRoot|FieldStack)
}

// Present shows route using option.
//
// Navigation pushes onto the stack. Sheet and FullscreenCover fill their slot
// and store onDismiss, replacing any previously stored callback. Popover fills
// its slot but never stores a callback; onDismiss is ignored. Presenting into
// an occupied slot swaps its content.
func (c *Controller[T]) Present(route T, option PresentationOption, onDismiss DismissFunc) {
	switch option {
	case FullscreenCover:
		c.fullscreenCover = Showing(route)
		c.onDismiss = pendingDismiss{option: FullscreenCover, fn: onDismiss}
	case Popover:
		c.popover = Showing(route)
	case Sheet:
		c.sheet = Showing(route)
		c.onDismiss = pendingDismiss{option: Sheet, fn: onDismiss}
	default:
		option = Navigation
		c.push(route)
	}

	c.logger.Debug("navigation presented", "route", route, "option", option.String())
	c.emit(OpPresent, option, FieldFor(option))
}

// Dismiss closes the front-most surface. Overlays are checked in the fixed
// order sheet, fullscreen cover, popover; the first one showing is cleared.
// If no overlay is showing the navigation stack is popped.
func (c *Controller[T]) Dismiss() {
	switch {
	case !c.sheet.IsEmpty():
		c.DismissOption(Sheet)
	case !c.fullscreenCover.IsEmpty():
		c.DismissOption(FullscreenCover)
	case !c.popover.IsEmpty():
		c.DismissOption(Popover)
	default:
		c.DismissOption(Navigation)
	}
}

// DismissOption closes the surface named by option. Navigation pops the
// stack. Dismissing an empty slot or popping an empty stack does nothing.
//
// The stored dismiss callback is not invoked; see FireDismiss.
func (c *Controller[T]) DismissOption(option PresentationOption) {
	var changed bool

	switch option {
	case FullscreenCover:
		changed = clearSlot(&c.fullscreenCover)
	case Popover:
		changed = clearSlot(&c.popover)
	case Sheet:
		changed = clearSlot(&c.sheet)
	default:
		option = Navigation
		changed = c.pop()
	}

	if !changed {
		return
	}

	c.logger.Debug("navigation dismissed", "option", option.String())
	c.emit(OpDismiss, option, FieldFor(option))
}

// HandleDeeplink resolves link and presents the result.
// Unresolvable links, and any link when no resolver is configured, are ignored.
func (c *Controller[T]) HandleDeeplink(link *url.URL) {
	if c.resolver == nil || link == nil {
		return
	}

	route, option, ok := c.resolver(link)
	if !ok {
		c.logger.Debug("deeplink not resolved", "link", link.String())
		return
	}

	c.Present(route, option, nil)
}

// FireDismiss invokes and clears the stored dismiss callback, but only if it
// was registered for option and that overlay is no longer showing. It returns
// true if a callback ran. Renderers call this when their overlay teardown
// completes.
func (c *Controller[T]) FireDismiss(option PresentationOption) bool {
	pending := c.onDismiss
	if pending.fn == nil || pending.option != option {
		return false
	}
	if !c.slot(option).IsEmpty() {
		return false
	}

	c.onDismiss = pendingDismiss{}
	pending.fn()
	return true
}

// OnDismiss returns the currently stored dismiss callback, or nil.
func (c *Controller[T]) OnDismiss() DismissFunc {
	return c.onDismiss.fn
}

// Root returns the current root route.
func (c *Controller[T]) Root() T {
	return c.root
}

// Stack returns a copy of the navigation stack, bottom first.
func (c *Controller[T]) Stack() []T {
	return c.stack.Entries()
}

// Sheet returns the route shown as a sheet.
func (c *Controller[T]) Sheet() (T, bool) {
	return c.sheet.Get()
}

// FullscreenCover returns the route shown as a fullscreen cover.
func (c *Controller[T]) FullscreenCover() (T, bool) {
	return c.fullscreenCover.Get()
}

// Popover returns the route shown as a popover.
func (c *Controller[T]) Popover() (T, bool) {
	return c.popover.Get()
}

// Overlay returns the route shown for an overlay option.
func (c *Controller[T]) Overlay(option PresentationOption) (T, bool) {
	return c.slot(option).Get()
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	return State[T]{
		Root:            c.root,
		Stack:           c.stack.Entries(),
		Sheet:           c.sheet,
		FullscreenCover: c.fullscreenCover,
		Popover:         c.popover,
	}
}

// Revision returns the revision of the last emitted change. It may be read
// from any goroutine.
func (c *Controller[T]) Revision() uint64 {
	return c.revision.Load()
}

// Subscribe registers an observer for every subsequent change.
func (c *Controller[T]) Subscribe(observer Observer[T]) *Subscription {
	sub := newSubscription()
	c.subscribers = append(c.subscribers, subscriber[T]{sub: sub, observer: observer})
	return sub
}

func (c *Controller[T]) push(route T) {
	c.stack.Push(route)
}

func (c *Controller[T]) pop() bool {
	_, ok := c.stack.Pop()
	return ok
}

func (c *Controller[T]) slot(option PresentationOption) Slot[T] {
	switch option {
	case Sheet:
		return c.sheet
	case FullscreenCover:
		return c.fullscreenCover
	case Popover:
		return c.popover
	default:
		return Slot[T]{}
	}
}

func clearSlot[T comparable](s *Slot[T]) bool {
	if s.IsEmpty() {
		return false
	}
	*s = Slot[T]{}
	return true
}

// emit queues a change and, unless a notification round is already running
// further up the call stack, delivers queued changes in order.
func (c *Controller[T]) emit(op Op, option PresentationOption, fields Field) {
	c.pending = append(c.pending, Change[T]{
		Revision: c.revision.Inc(),
		Op:       op,
		Option:   option,
		Fields:   fields,
		State:    c.Snapshot(),
		At:       c.clock.Now(),
	})

	if c.notifying {
		return
	}

	// A panicking observer abandons the rest of the round.
	c.notifying = true
	defer func() {
		c.notifying = false
		c.pending = nil
	}()

	for len(c.pending) > 0 {
		change := c.pending[0]
		c.pending = c.pending[1:]
		c.deliver(change)
	}
}

func (c *Controller[T]) deliver(change Change[T]) {
	c.subscribers = slices.DeleteFunc(c.subscribers, func(s subscriber[T]) bool {
		return !s.sub.Active()
	})

	for _, s := range slices.Clone(c.subscribers) {
		if s.sub.Active() {
			s.observer.NavigationChanged(change)
		}
	}
}
