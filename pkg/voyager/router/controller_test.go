package router

import (
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screen string

func newTestController(t *testing.T, root screen, resolver DeeplinkResolver[screen]) (*Controller[screen], *[]Change[screen]) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(root, resolver, WithLogger(logger))

	var changes []Change[screen]
	c.Subscribe(ObserverFunc[screen](func(change Change[screen]) {
		changes = append(changes, change)
	}))
	return c, &changes
}

func TestNew(t *testing.T) {
	c, changes := newTestController(t, "home", nil)

	assert.Equal(t, screen("home"), c.Root())
	assert.Empty(t, c.Stack())
	for _, option := range Overlays {
		_, ok := c.Overlay(option)
		assert.False(t, ok, option.String())
	}
	assert.Nil(t, c.OnDismiss())
	assert.Zero(t, c.Revision())
	assert.Empty(t, *changes)
}

func TestNewFromProducer(t *testing.T) {
	calls := 0
	c := NewFromProducer(func() screen {
		calls++
		return "splash"
	}, nil)

	assert.Equal(t, screen("splash"), c.Root())
	assert.Equal(t, 1, calls)
}

func TestUpdateRootClearsStack(t *testing.T) {
	for _, depth := range []int{0, 1, 5, 50} {
		c, changes := newTestController(t, "home", nil)
		for i := 0; i < depth; i++ {
			c.Present("page", Navigation, nil)
		}
		*changes = nil

		c.UpdateRoot("library")

		assert.Equal(t, screen("library"), c.Root())
		assert.Empty(t, c.Stack(), "depth %d", depth)
		require.Len(t, *changes, 1)
		assert.Equal(t, OpUpdateRoot, (*changes)[0].Op)
		assert.True(t, (*changes)[0].Fields.Has(FieldRoot|FieldStack))
	}
}

func TestUpdateRootKeepsOverlays(t *testing.T) {
	c, _ := newTestController(t, "home", nil)
	c.Present("share", Sheet, nil)

	c.UpdateRoot("library")

	sheet, ok := c.Sheet()
	require.True(t, ok)
	assert.Equal(t, screen("share"), sheet)
}

func TestPopEmptyStack(t *testing.T) {
	c, changes := newTestController(t, "home", nil)

	assert.NotPanics(t, func() {
		c.DismissOption(Navigation)
		c.Dismiss()
	})
	assert.Empty(t, c.Stack())
	assert.Equal(t, screen("home"), c.Root())
	assert.Empty(t, *changes, "no-op dismissals must not notify")
}

func TestPresentOverlayLeavesOthersUnchanged(t *testing.T) {
	tests := []struct {
		option PresentationOption
		field  Field
	}{
		{Sheet, FieldSheet},
		{FullscreenCover, FieldFullscreenCover},
		{Popover, FieldPopover},
	}

	for _, tt := range tests {
		t.Run(tt.option.String(), func(t *testing.T) {
			c, changes := newTestController(t, "home", nil)
			c.Present("a", Navigation, nil)

			c.Present("r", tt.option, nil)

			route, ok := c.Overlay(tt.option)
			require.True(t, ok)
			assert.Equal(t, screen("r"), route)
			assert.Equal(t, []screen{"a"}, c.Stack())

			for _, other := range Overlays {
				if other == tt.option {
					continue
				}
				_, ok := c.Overlay(other)
				assert.False(t, ok, "%s should stay empty", other)
			}

			last := (*changes)[len(*changes)-1]
			assert.Equal(t, OpPresent, last.Op)
			assert.Equal(t, tt.option, last.Option)
			assert.Equal(t, tt.field, last.Fields)
		})
	}
}

func TestPresentReplacesSlotContent(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	c.Present("first", Sheet, nil)
	c.Present("second", Sheet, nil)

	sheet, ok := c.Sheet()
	require.True(t, ok)
	assert.Equal(t, screen("second"), sheet)
}

func TestPopoverNeverStoresCallback(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	called := false
	c.Present("tip", Popover, func() { called = true })
	assert.Nil(t, c.OnDismiss())

	c.Dismiss()
	assert.False(t, c.FireDismiss(Popover))
	assert.False(t, called)
}

func TestPopoverKeepsExistingCallback(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	fired := ""
	c.Present("share", Sheet, func() { fired = "sheet" })
	c.Present("tip", Popover, func() { fired = "popover" })

	require.NotNil(t, c.OnDismiss())
	c.DismissOption(Sheet)
	assert.True(t, c.FireDismiss(Sheet))
	assert.Equal(t, "sheet", fired)
}

func TestNavigationIgnoresCallback(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	c.Present("page", Navigation, func() {})
	assert.Nil(t, c.OnDismiss())
}

func TestStoredCallbackIsOverwritten(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	var fired []string
	c.Present("x", Sheet, func() { fired = append(fired, "f") })
	c.Present("y", Sheet, func() { fired = append(fired, "g") })

	c.OnDismiss()()
	assert.Equal(t, []string{"g"}, fired)
}

func TestPresentWithNilCallbackClearsStoredCallback(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	c.Present("x", FullscreenCover, func() {})
	c.Present("y", Sheet, nil)

	assert.Nil(t, c.OnDismiss())
}

func TestDismissPrecedence(t *testing.T) {
	c, _ := newTestController(t, "home", nil)
	c.Present("a", Navigation, nil)
	c.Present("b", Navigation, nil)
	c.Present("s", Sheet, nil)
	c.Present("f", FullscreenCover, nil)
	c.Present("p", Popover, nil)

	c.Dismiss()
	_, sheet := c.Sheet()
	_, cover := c.FullscreenCover()
	_, popover := c.Popover()
	assert.False(t, sheet)
	assert.True(t, cover)
	assert.True(t, popover)

	c.Dismiss()
	_, cover = c.FullscreenCover()
	_, popover = c.Popover()
	assert.False(t, cover)
	assert.True(t, popover)

	c.Dismiss()
	_, popover = c.Popover()
	assert.False(t, popover)
	assert.Equal(t, []screen{"a", "b"}, c.Stack())

	c.Dismiss()
	assert.Equal(t, []screen{"a"}, c.Stack())
}

func TestDismissReportsTargetedOption(t *testing.T) {
	c, changes := newTestController(t, "home", nil)
	c.Present("f", FullscreenCover, nil)
	c.Present("p", Popover, nil)
	*changes = nil

	c.Dismiss()
	c.Dismiss()

	require.Len(t, *changes, 2)
	assert.Equal(t, FullscreenCover, (*changes)[0].Option)
	assert.Equal(t, FieldFullscreenCover, (*changes)[0].Fields)
	assert.Equal(t, Popover, (*changes)[1].Option)
}

func TestDismissNavigation(t *testing.T) {
	for n := 0; n <= 3; n++ {
		c, _ := newTestController(t, "home", nil)
		for i := 0; i < n; i++ {
			c.Present("page", Navigation, nil)
		}
		c.Present("s", Sheet, nil)

		c.DismissOption(Navigation)

		assert.Len(t, c.Stack(), max(n-1, 0))
		_, ok := c.Sheet()
		assert.True(t, ok, "targeted pop must not touch overlays")
	}
}

func TestDismissSheetIsIdempotent(t *testing.T) {
	c, changes := newTestController(t, "home", nil)

	c.Present("r1", Sheet, nil)
	c.DismissOption(Sheet)
	_, ok := c.Sheet()
	assert.False(t, ok)

	count := len(*changes)
	c.DismissOption(Sheet)
	_, ok = c.Sheet()
	assert.False(t, ok)
	assert.Len(t, *changes, count)
}

func TestDismissDoesNotInvokeCallback(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	called := false
	c.Present("s", Sheet, func() { called = true })
	c.Dismiss()

	assert.False(t, called)
	assert.NotNil(t, c.OnDismiss())
}

func TestFireDismiss(t *testing.T) {
	t.Run("requires overlay to be closed", func(t *testing.T) {
		c, _ := newTestController(t, "home", nil)
		calls := 0
		c.Present("s", Sheet, func() { calls++ })

		assert.False(t, c.FireDismiss(Sheet))
		c.DismissOption(Sheet)
		assert.True(t, c.FireDismiss(Sheet))
		assert.False(t, c.FireDismiss(Sheet), "callback fires once")
		assert.Equal(t, 1, calls)
		assert.Nil(t, c.OnDismiss())
	})

	t.Run("requires matching kind", func(t *testing.T) {
		c, _ := newTestController(t, "home", nil)
		var fired []string
		c.Present("s", Sheet, func() { fired = append(fired, "sheet") })
		c.Present("f", FullscreenCover, func() { fired = append(fired, "cover") })

		c.DismissOption(Sheet)
		assert.False(t, c.FireDismiss(Sheet), "sheet callback was replaced by the cover's")

		c.DismissOption(FullscreenCover)
		assert.True(t, c.FireDismiss(FullscreenCover))
		assert.Equal(t, []string{"cover"}, fired)
	})

	t.Run("stale callback after re-presentation", func(t *testing.T) {
		c, _ := newTestController(t, "home", nil)
		var fired []string
		c.Present("x", Sheet, func() { fired = append(fired, "f") })
		c.DismissOption(Sheet)
		c.Present("y", Sheet, func() { fired = append(fired, "g") })

		assert.False(t, c.FireDismiss(Sheet), "new sheet is showing")
		c.DismissOption(Sheet)
		assert.True(t, c.FireDismiss(Sheet))
		assert.Equal(t, []string{"g"}, fired)
	})
}

func TestNavigationScenario(t *testing.T) {
	c, _ := newTestController(t, "A", nil)

	c.Present("B", Navigation, nil)
	assert.Equal(t, []screen{"B"}, c.Stack())

	c.Present("C", Navigation, nil)
	assert.Equal(t, []screen{"B", "C"}, c.Stack())

	c.DismissOption(Navigation)
	assert.Equal(t, []screen{"B"}, c.Stack())

	c.UpdateRoot("D")
	assert.Equal(t, screen("D"), c.Root())
	assert.Empty(t, c.Stack())
}

func TestUnknownOptionFallsBackToNavigation(t *testing.T) {
	c, changes := newTestController(t, "home", nil)

	c.Present("page", PresentationOption(99), nil)
	assert.Equal(t, []screen{"page"}, c.Stack())
	assert.Equal(t, Navigation, (*changes)[0].Option)

	c.DismissOption(PresentationOption(99))
	assert.Empty(t, c.Stack())
}

func TestHandleDeeplink(t *testing.T) {
	resolver := func(link *url.URL) (screen, PresentationOption, bool) {
		switch link.Host {
		case "item":
			return screen("item" + link.Path), Sheet, true
		case "page":
			return "page", Navigation, true
		}
		return "", Navigation, false
	}

	t.Run("resolved", func(t *testing.T) {
		c, _ := newTestController(t, "home", resolver)

		c.HandleDeeplink(mustParse(t, "app://item/7"))
		c.HandleDeeplink(mustParse(t, "app://page"))

		sheet, ok := c.Sheet()
		require.True(t, ok)
		assert.Equal(t, screen("item/7"), sheet)
		assert.Equal(t, []screen{"page"}, c.Stack())
		assert.Nil(t, c.OnDismiss())
	})

	t.Run("unresolved is a no-op", func(t *testing.T) {
		c, changes := newTestController(t, "home", resolver)

		c.HandleDeeplink(mustParse(t, "app://unknown"))
		c.HandleDeeplink(nil)

		assert.Empty(t, *changes)
		assert.True(t, c.Snapshot().Equal(State[screen]{Root: "home", Stack: []screen{}}))
	})

	t.Run("no resolver", func(t *testing.T) {
		c, changes := newTestController(t, "home", nil)

		c.HandleDeeplink(mustParse(t, "app://item/7"))

		assert.Empty(t, *changes)
	})
}

func TestSubscriptionCancel(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	calls := 0
	sub := c.Subscribe(ObserverFunc[screen](func(Change[screen]) { calls++ }))
	assert.True(t, sub.Active())
	assert.NotEqual(t, sub.ID().String(), "")

	c.Present("a", Navigation, nil)
	sub.Cancel()
	sub.Cancel()
	c.Present("b", Navigation, nil)

	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
}

func TestCancelDuringNotification(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	var second int
	var sub *Subscription
	sub = c.Subscribe(ObserverFunc[screen](func(Change[screen]) { sub.Cancel() }))
	c.Subscribe(ObserverFunc[screen](func(Change[screen]) { second++ }))

	c.Present("a", Navigation, nil)
	c.Present("b", Navigation, nil)

	assert.Equal(t, 2, second)
}

func TestReentrantMutationIsDeliveredInOrder(t *testing.T) {
	c, _ := newTestController(t, "home", nil)

	// Renderer dismisses the sheet as soon as it sees it.
	c.Subscribe(ObserverFunc[screen](func(change Change[screen]) {
		if change.Op == OpPresent && change.Option == Sheet {
			c.Dismiss()
		}
	}))

	var seen []uint64
	var ops []Op
	c.Subscribe(ObserverFunc[screen](func(change Change[screen]) {
		seen = append(seen, change.Revision)
		ops = append(ops, change.Op)
	}))

	c.Present("s", Sheet, nil)

	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, []Op{OpPresent, OpDismiss}, ops)
	assert.Equal(t, uint64(2), c.Revision())
	_, ok := c.Sheet()
	assert.False(t, ok)
}

func TestPanickingObserverDropsQueuedChanges(t *testing.T) {
	c, changes := newTestController(t, "home", nil)

	sub := c.Subscribe(ObserverFunc[screen](func(change Change[screen]) {
		if change.Op == OpPresent && change.State.Top() == "a" {
			c.Present("queued", Navigation, nil)
			panic("observer failed")
		}
	}))

	assert.Panics(t, func() { c.Present("a", Navigation, nil) })
	sub.Cancel()
	*changes = nil

	c.Present("b", Navigation, nil)

	require.Len(t, *changes, 1)
	assert.Equal(t, uint64(3), (*changes)[0].Revision)
	assert.Equal(t, screen("b"), (*changes)[0].State.Top())
	assert.Equal(t, []screen{"a", "queued", "b"}, c.Stack())
}

func TestChangeCarriesSnapshotAndTime(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	c := New[screen]("home", nil, WithClock(clock), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	var changes []Change[screen]
	c.Subscribe(ObserverFunc[screen](func(change Change[screen]) {
		changes = append(changes, change)
	}))

	c.Present("a", Navigation, nil)
	clock.Advance(time.Second)
	c.Present("b", Navigation, nil)

	require.Len(t, changes, 2)
	assert.Equal(t, start, changes[0].At)
	assert.Equal(t, start.Add(time.Second), changes[1].At)
	assert.Equal(t, []screen{"a"}, changes[0].State.Stack, "snapshots are not aliased")
	assert.Equal(t, screen("b"), changes[1].State.Top())
}

func TestStackReturnsCopy(t *testing.T) {
	c, _ := newTestController(t, "home", nil)
	c.Present("a", Navigation, nil)

	stack := c.Stack()
	stack[0] = "mutated"

	assert.Equal(t, []screen{"a"}, c.Stack())
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
