//go:build linux

package input

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/BrandonKowalski/voyager/pkg/voyager/internal"
	"github.com/holoplot/go-evdev"
)

// DefaultKeymap covers keyboards and common gamepads: Escape, Backspace and
// the east face button map to B; Tab and the select button map to Select.
func DefaultKeymap() Keymap {
	return Keymap{
		uint16(evdev.KEY_ESC):       constants.VirtualButtonB,
		uint16(evdev.KEY_BACKSPACE): constants.VirtualButtonB,
		uint16(evdev.BTN_EAST):      constants.VirtualButtonB,
		uint16(evdev.KEY_TAB):       constants.VirtualButtonSelect,
		uint16(evdev.BTN_SELECT):    constants.VirtualButtonSelect,
		uint16(evdev.KEY_ENTER):     constants.VirtualButtonA,
		uint16(evdev.BTN_SOUTH):     constants.VirtualButtonA,
		uint16(evdev.BTN_START):     constants.VirtualButtonStart,
	}
}

// Listen reads key events from the evdev device at path and sends mapped
// button events to out until ctx is cancelled or the device fails.
// It blocks; run it on its own goroutine and drain out on the UI loop.
func Listen(ctx context.Context, path string, keymap Keymap, out chan<- ButtonEvent) error {
	logger := internal.GetInternalLogger()

	dev, err := evdev.Open(path)
	if err != nil {
		return fmt.Errorf("input: open %s: %w", path, err)
	}

	name, _ := dev.Name()
	logger.Debug("listening for input", "device", path, "name", name)

	// Closing the device unblocks ReadOne.
	stop := context.AfterFunc(ctx, func() {
		dev.Close()
	})
	defer func() {
		if stop() {
			dev.Close()
		}
	}()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("input: read %s: %w", path, err)
		}

		if ev.Type != evdev.EV_KEY {
			continue
		}

		button, ok := keymap.buttonEvent(uint16(ev.Code), ev.Value)
		if !ok {
			continue
		}

		select {
		case out <- button:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
