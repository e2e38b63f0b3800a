package platform

import (
	"errors"
	"fmt"
	"time"
)

// WindowID is a platform-neutral window identifier.
type WindowID uintptr

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Clamp moves p to the nearest point inside r. Empty rectangles leave p
// unchanged.
func (r Rect) Clamp(p Point) Point {
	if r.Width <= 0 || r.Height <= 0 {
		return p
	}
	p.X = min(max(p.X, r.X), r.X+r.Width-1)
	p.Y = min(max(p.Y, r.Y), r.Y+r.Height-1)
	return p
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

var (
	// ErrWindowQuery is returned when a window's geometry cannot be read,
	// usually because the handle is stale.
	ErrWindowQuery = errors.New("window query failed")
	// ErrWindowMove is returned when a window cannot be moved or resized.
	ErrWindowMove = errors.New("window move failed")
	// ErrNoActiveWindow is returned when no window currently has focus.
	ErrNoActiveWindow = errors.New("no active window")
)

// Modifier is a bitmask of keyboard modifiers for global hotkeys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// Key is one of the keys a global hotkey can be bound to.
type Key int

const (
	KeyLeft Key = iota + 1
	KeyUp
	KeyDown
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "Left"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyRight:
		return "Right"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// HotkeyID identifies a registered global hotkey for the process lifetime.
type HotkeyID int

// Activation is delivered each time a registered global hotkey fires.
type Activation struct {
	ID HotkeyID
	At time.Time
}

// Signal is an out-of-band request from another process.
type Signal int

const (
	// SignalShow asks the running instance to restore and raise its window.
	SignalShow Signal = iota + 1
)

// EventSource exposes the asynchronous input a backend produces.
type EventSource interface {
	Activations() <-chan Activation
	Signals() <-chan Signal
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	EventSource

	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	WindowRect(windowID WindowID) (Rect, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Restore(windowID WindowID) error

	CursorPos() (Point, error)
	// ClipCursor confines the cursor to r. A nil r removes the confinement.
	ClipCursor(r *Rect) error

	RegisterHotkey(id HotkeyID, mods Modifier, key Key) error
	UnregisterHotkey(id HotkeyID) error

	PostSignal(sig Signal)
	EventLoop()
	Disconnect()
}
