//go:build !linux

package input

import "context"

// DefaultKeymap is empty on platforms without evdev.
func DefaultKeymap() Keymap {
	return Keymap{}
}

// Listen always fails with ErrUnsupported on platforms without evdev.
func Listen(_ context.Context, _ string, _ Keymap, _ chan<- ButtonEvent) error {
	return ErrUnsupported
}
