package input

import (
	"errors"

	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
)

// ErrUnsupported is returned by Listen on platforms without evdev.
var ErrUnsupported = errors.New("input: evdev is not supported on this platform")

// Keymap maps Linux input event key codes to virtual buttons.
type Keymap map[uint16]constants.VirtualButton

// Lookup returns the virtual button for a key code.
func (k Keymap) Lookup(code uint16) (constants.VirtualButton, bool) {
	button, ok := k[code]
	return button, ok
}

// buttonEvent converts a raw EV_KEY value into a ButtonEvent.
// Kernel autorepeat (value 2) is dropped; the dispatcher does its own repeat.
func (k Keymap) buttonEvent(code uint16, value int32) (ButtonEvent, bool) {
	button, ok := k.Lookup(code)
	if !ok || value > 1 || value < 0 {
		return ButtonEvent{}, false
	}
	return ButtonEvent{Button: button, Pressed: value == 1}, true
}
