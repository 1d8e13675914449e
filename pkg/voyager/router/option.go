package router

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when a presentation option name cannot be parsed.
var ErrUnknownOption = errors.New("unknown presentation option")

// PresentationOption selects how Present shows a route and which surface
// DismissOption closes.
type PresentationOption int

const (
	Navigation      PresentationOption = iota // Push onto the navigation stack (default)
	Sheet                                     // Modal sheet overlay
	FullscreenCover                           // Fullscreen cover overlay
	Popover                                   // Popover overlay, never carries a dismiss callback
)

// Overlays lists the overlay options in dismissal precedence order.
var Overlays = []PresentationOption{Sheet, FullscreenCover, Popover}

func (o PresentationOption) String() string {
	switch o {
	case Navigation:
		return "navigation"
	case Sheet:
		return "sheet"
	case FullscreenCover:
		return "fullscreen_cover"
	case Popover:
		return "popover"
	default:
		return fmt.Sprintf("PresentationOption(%d)", int(o))
	}
}

// IsOverlay reports whether the option names one of the three overlay slots.
func (o PresentationOption) IsOverlay() bool {
	return o == Sheet || o == FullscreenCover || o == Popover
}

// AcceptsDismissCallback reports whether presenting with this option stores
// the onDismiss callback. Only sheets and fullscreen covers do.
func (o PresentationOption) AcceptsDismissCallback() bool {
	return o == Sheet || o == FullscreenCover
}

// ParseOption parses an option name as written in config files and deep link
// tables. Matching is case-insensitive and accepts "-" or "_" separators.
// An empty string parses as Navigation.
func ParseOption(s string) (PresentationOption, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")

	switch normalized {
	case "", "navigation", "push":
		return Navigation, nil
	case "sheet":
		return Sheet, nil
	case "fullscreen_cover", "fullscreencover", "cover":
		return FullscreenCover, nil
	case "popover":
		return Popover, nil
	}
	return Navigation, fmt.Errorf("%w: %q", ErrUnknownOption, s)
}
