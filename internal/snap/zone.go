package snap

import (
	"fmt"
	"strings"

	"github.com/fjtughy/winscroll/internal/platform"
)

// Zone is one of the fixed screen regions a window can be snapped into.
type Zone int

// Zone values double as the global hotkey identifiers, so they must stay
// stable and distinct.
const (
	FullLeft Zone = iota + 1
	UpperRight
	LowerRight
	FullRight
)

// Zones lists every zone in hotkey registration order.
var Zones = []Zone{FullLeft, UpperRight, LowerRight, FullRight}

func (z Zone) String() string {
	switch z {
	case FullLeft:
		return "full_left"
	case UpperRight:
		return "upper_right"
	case LowerRight:
		return "lower_right"
	case FullRight:
		return "full_right"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// HotkeyID returns the global hotkey identifier bound to z.
func (z Zone) HotkeyID() platform.HotkeyID {
	return platform.HotkeyID(z)
}

// Key returns the arrow key that triggers z together with Ctrl+Alt.
func (z Zone) Key() platform.Key {
	switch z {
	case FullLeft:
		return platform.KeyLeft
	case UpperRight:
		return platform.KeyUp
	case LowerRight:
		return platform.KeyDown
	case FullRight:
		return platform.KeyRight
	default:
		return 0
	}
}

// Toggles reports whether a repeated activation of z alternates between a
// primary and an alternate rectangle.
func (z Zone) Toggles() bool {
	return z == UpperRight || z == LowerRight
}

// ZoneForHotkey maps a hotkey identifier back to its zone.
func ZoneForHotkey(id platform.HotkeyID) (Zone, bool) {
	z := Zone(id)
	for _, known := range Zones {
		if z == known {
			return z, true
		}
	}
	return 0, false
}

// ParseZone accepts the snake_case zone names and a few short aliases.
func ParseZone(s string) (Zone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full_left", "full-left", "left":
		return FullLeft, nil
	case "upper_right", "upper-right", "up":
		return UpperRight, nil
	case "lower_right", "lower-right", "down":
		return LowerRight, nil
	case "full_right", "full-right", "right":
		return FullRight, nil
	default:
		return 0, fmt.Errorf("unknown zone %q (expected: full_left, upper_right, lower_right, full_right)", s)
	}
}
