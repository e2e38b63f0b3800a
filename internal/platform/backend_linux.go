//go:build linux

package platform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/fjtughy/winscroll/internal/x11"
)

// LinuxBackend implements Backend on top of an X11 connection.
type LinuxBackend struct {
	*Events

	conn *x11.Connection

	mu      sync.Mutex
	hotkeys map[HotkeyID]string
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		Events:  NewEvents(),
		conn:    conn,
		hotkeys: make(map[HotkeyID]string),
	}
}

// NewNativeBackend opens a connection to the X server named by $DISPLAY.
func NewNativeBackend() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect stops the event loop and closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b == nil || b.conn == nil {
		return
	}
	b.conn.Quit()
	b.conn.Close()
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Bounds:  rectFromBox(m.Bounds),
			Usable:  rectFromBox(m.WorkArea),
			Primary: m.Primary,
		})
	}
	return displays, nil
}

// ActiveWindow returns the currently focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	wid, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoActiveWindow, err)
	}
	if wid == 0 {
		return 0, ErrNoActiveWindow
	}
	return WindowID(wid), nil
}

// WindowRect returns the window's current rectangle in screen coordinates.
func (b *LinuxBackend) WindowRect(windowID WindowID) (Rect, error) {
	box, err := b.conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, fmt.Errorf("%w: %v", ErrWindowQuery, err)
	}
	return rectFromBox(box), nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	err := b.conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWindowMove, err)
	}
	return nil
}

// Restore maps, raises and focuses a window.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	if !b.conn.WindowExists(xproto.Window(windowID)) {
		return fmt.Errorf("%w: window 0x%x no longer exists", ErrWindowQuery, uint32(windowID))
	}
	return b.conn.RestoreWindow(xproto.Window(windowID))
}

// CursorPos returns the pointer position.
func (b *LinuxBackend) CursorPos() (Point, error) {
	x, y, err := b.conn.PointerPosition()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// ClipCursor warps the pointer back inside r when it has left it. X11 has no
// persistent clip, so releasing (nil) has nothing to undo.
func (b *LinuxBackend) ClipCursor(r *Rect) error {
	if r == nil {
		return nil
	}
	pos, err := b.CursorPos()
	if err != nil {
		return err
	}
	clamped := r.Clamp(pos)
	if clamped == pos {
		return nil
	}
	return b.conn.WarpPointer(clamped.X, clamped.Y)
}

// RegisterHotkey grabs mods+key on the root window. Presses are delivered
// on Activations with the given id.
func (b *LinuxBackend) RegisterHotkey(id HotkeyID, mods Modifier, key Key) error {
	seq, err := keySequence(mods, key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.hotkeys[id]; ok && existing != seq {
		return fmt.Errorf("hotkey id %d already bound to %s", id, existing)
	}

	if err := b.conn.GrabKey(seq, func() { b.PostActivation(id) }); err != nil {
		return err
	}
	b.hotkeys[id] = seq
	return nil
}

// UnregisterHotkey releases the grab for id.
func (b *LinuxBackend) UnregisterHotkey(id HotkeyID) error {
	b.mu.Lock()
	seq, ok := b.hotkeys[id]
	delete(b.hotkeys, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	return b.conn.UngrabKey(seq)
}

// keySequence renders a hotkey in xgbutil keybind notation.
func keySequence(mods Modifier, key Key) (string, error) {
	var parts []string
	if mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if mods&ModCtrl != 0 {
		parts = append(parts, "Control")
	}
	if mods&ModAlt != 0 {
		parts = append(parts, "Mod1")
	}
	if mods&ModSuper != 0 {
		parts = append(parts, "Mod4")
	}
	switch key {
	case KeyLeft, KeyUp, KeyDown, KeyRight:
		parts = append(parts, key.String())
	default:
		return "", fmt.Errorf("unsupported hotkey key %s", key)
	}
	return strings.Join(parts, "-"), nil
}

func rectFromBox(b x11.Box) Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}
