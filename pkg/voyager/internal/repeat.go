package internal

import (
	"time"

	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/jonboulle/clockwork"
)

// HeldRepeater tracks a single held button and handles repeat timing.
// Input dispatchers embed it so holding a back button keeps dismissing.
type HeldRepeater struct {
	held           constants.VirtualButton
	lastRepeatTime time.Time
	repeatDelay    time.Duration
	repeatInterval time.Duration
	hasRepeated    bool
	clock          clockwork.Clock
}

// NewHeldRepeater creates a HeldRepeater with default timing.
func NewHeldRepeater(clock clockwork.Clock) HeldRepeater {
	return NewHeldRepeaterWithTiming(clock, constants.DefaultRepeatDelay, constants.DefaultRepeatInterval)
}

// NewHeldRepeaterWithTiming creates a HeldRepeater with custom timing.
func NewHeldRepeaterWithTiming(clock clockwork.Clock, delay, interval time.Duration) HeldRepeater {
	return HeldRepeater{
		repeatDelay:    delay,
		repeatInterval: interval,
		lastRepeatTime: clock.Now(),
		clock:          clock,
	}
}

// SetHeld records a press or release. Pressing a new button replaces the
// held one; releasing a button that is not held is ignored.
func (r *HeldRepeater) SetHeld(button constants.VirtualButton, held bool) {
	if held {
		r.held = button
		r.hasRepeated = false
		r.lastRepeatTime = r.clock.Now()
		return
	}
	if r.held == button {
		r.Reset()
	}
}

// Held returns the held button, or VirtualButtonUnassigned.
func (r *HeldRepeater) Held() constants.VirtualButton {
	return r.held
}

// Update checks if a repeat should fire based on timing.
// Call this every frame. It returns the button to process again,
// or VirtualButtonUnassigned if no repeat should occur.
//
// The first repeat occurs after repeatDelay, subsequent repeats after repeatInterval.
func (r *HeldRepeater) Update() constants.VirtualButton {
	if r.held == constants.VirtualButtonUnassigned {
		return constants.VirtualButtonUnassigned
	}

	threshold := r.repeatInterval
	if !r.hasRepeated {
		threshold = r.repeatDelay
	}

	if r.clock.Since(r.lastRepeatTime) >= threshold {
		r.lastRepeatTime = r.clock.Now()
		r.hasRepeated = true
		return r.held
	}

	return constants.VirtualButtonUnassigned
}

// Reset clears the held button and timing state.
func (r *HeldRepeater) Reset() {
	r.held = constants.VirtualButtonUnassigned
	r.hasRepeated = false
	r.lastRepeatTime = r.clock.Now()
}
