//go:build windows

package platform

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.design/x/hotkey"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procMoveWindow          = user32.NewProc("MoveWindow")
	procIsWindow            = user32.NewProc("IsWindow")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procClipCursor          = user32.NewProc("ClipCursor")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const (
	swRestore          = 9
	monitorInfoPrimary = 1
)

type point32 struct {
	X int32
	Y int32
}

type monitorInfo struct {
	Size    uint32
	Monitor windows.Rect
	Work    windows.Rect
	Flags   uint32
}

// WindowsBackend implements Backend with user32 and RegisterHotKey.
type WindowsBackend struct {
	*Events

	mu      sync.Mutex
	hotkeys map[HotkeyID]*registeredHotkey

	done     chan struct{}
	doneOnce sync.Once
}

type registeredHotkey struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
}

var _ Backend = (*WindowsBackend)(nil)

// NewNativeBackend returns the user32 backend.
func NewNativeBackend() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return &WindowsBackend{
		Events:  NewEvents(),
		hotkeys: make(map[HotkeyID]*registeredHotkey),
		done:    make(chan struct{}),
	}, nil
}

// EventLoop blocks until Disconnect. Hotkey messages are pumped by the
// hotkey package on its own locked thread.
func (b *WindowsBackend) EventLoop() {
	<-b.done
}

// Disconnect releases every hotkey and the cursor clip, then ends EventLoop.
func (b *WindowsBackend) Disconnect() {
	b.mu.Lock()
	ids := make([]HotkeyID, 0, len(b.hotkeys))
	for id := range b.hotkeys {
		ids = append(ids, id)
	}
	b.mu.Unlock()
	for _, id := range ids {
		_ = b.UnregisterHotkey(id)
	}
	_ = b.ClipCursor(nil)
	b.doneOnce.Do(func() { close(b.done) })
}

// syscall.NewCallback slots are never freed, so one callback serves every
// enumeration and appends into enumDisplays under enumMu.
var (
	enumMu       sync.Mutex
	enumDisplays []Display
	enumCallback = syscall.NewCallback(func(hMonitor, hdc, lprc, data uintptr) uintptr {
		var mi monitorInfo
		mi.Size = uint32(unsafe.Sizeof(mi))
		if ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi))); ret != 0 {
			n := len(enumDisplays)
			enumDisplays = append(enumDisplays, Display{
				ID:      n,
				Name:    fmt.Sprintf("Monitor%d", n),
				Bounds:  rectFromWin(mi.Monitor),
				Usable:  rectFromWin(mi.Work),
				Primary: mi.Flags&monitorInfoPrimary != 0,
			})
		}
		return 1
	})
)

// Displays enumerates monitors with their work areas.
func (b *WindowsBackend) Displays() ([]Display, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumDisplays = nil
	if ret, _, err := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0); ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}
	if len(enumDisplays) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	displays := enumDisplays
	enumDisplays = nil
	return displays, nil
}

// ActiveWindow returns the foreground window.
func (b *WindowsBackend) ActiveWindow() (WindowID, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0, ErrNoActiveWindow
	}
	return WindowID(hwnd), nil
}

// WindowRect returns the window's outer rectangle.
func (b *WindowsBackend) WindowRect(windowID WindowID) (Rect, error) {
	var r windows.Rect
	if ret, _, err := procGetWindowRect.Call(uintptr(windowID), uintptr(unsafe.Pointer(&r))); ret == 0 {
		return Rect{}, fmt.Errorf("%w: GetWindowRect(0x%x): %v", ErrWindowQuery, uintptr(windowID), err)
	}
	return rectFromWin(r), nil
}

// MoveResize moves and resizes the window with repaint.
func (b *WindowsBackend) MoveResize(windowID WindowID, bounds Rect) error {
	ret, _, err := procMoveWindow.Call(
		uintptr(windowID),
		uintptr(int32(bounds.X)),
		uintptr(int32(bounds.Y)),
		uintptr(int32(bounds.Width)),
		uintptr(int32(bounds.Height)),
		1,
	)
	if ret == 0 {
		return fmt.Errorf("%w: MoveWindow(0x%x): %v", ErrWindowMove, uintptr(windowID), err)
	}
	return nil
}

// Restore un-minimizes the window and brings it to the foreground.
func (b *WindowsBackend) Restore(windowID WindowID) error {
	if ret, _, _ := procIsWindow.Call(uintptr(windowID)); ret == 0 {
		return fmt.Errorf("%w: window 0x%x no longer exists", ErrWindowQuery, uintptr(windowID))
	}
	procShowWindow.Call(uintptr(windowID), swRestore)
	procSetForegroundWindow.Call(uintptr(windowID))
	return nil
}

// CursorPos returns the cursor position in screen coordinates.
func (b *WindowsBackend) CursorPos() (Point, error) {
	var p point32
	if ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p))); ret == 0 {
		return Point{}, fmt.Errorf("GetCursorPos: %w", err)
	}
	return Point{X: int(p.X), Y: int(p.Y)}, nil
}

// ClipCursor confines the cursor with the OS clip; nil releases it.
func (b *WindowsBackend) ClipCursor(r *Rect) error {
	var arg uintptr
	if r != nil {
		wr := windows.Rect{
			Left:   int32(r.X),
			Top:    int32(r.Y),
			Right:  int32(r.X + r.Width),
			Bottom: int32(r.Y + r.Height),
		}
		arg = uintptr(unsafe.Pointer(&wr))
	}
	if ret, _, err := procClipCursor.Call(arg); ret == 0 {
		return fmt.Errorf("ClipCursor: %w", err)
	}
	return nil
}

// RegisterHotkey registers a system-wide hotkey and forwards its key-down
// events to Activations.
func (b *WindowsBackend) RegisterHotkey(id HotkeyID, mods Modifier, key Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.hotkeys[id]; ok {
		return nil
	}

	hkKey, err := hotkeyKey(key)
	if err != nil {
		return err
	}
	hk := hotkey.New(hotkeyModifiers(mods), hkKey)
	if err := hk.Register(); err != nil {
		return err
	}

	reg := &registeredHotkey{hk: hk, stop: make(chan struct{})}
	b.hotkeys[id] = reg
	go func() {
		for {
			select {
			case <-reg.stop:
				return
			case _, ok := <-hk.Keydown():
				if !ok {
					return
				}
				b.PostActivation(id)
			}
		}
	}()
	return nil
}

// UnregisterHotkey releases the hotkey registered under id.
func (b *WindowsBackend) UnregisterHotkey(id HotkeyID) error {
	b.mu.Lock()
	reg, ok := b.hotkeys[id]
	delete(b.hotkeys, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	close(reg.stop)
	return reg.hk.Unregister()
}

func hotkeyModifiers(mods Modifier) []hotkey.Modifier {
	var out []hotkey.Modifier
	if mods&ModCtrl != 0 {
		out = append(out, hotkey.ModCtrl)
	}
	if mods&ModAlt != 0 {
		out = append(out, hotkey.ModAlt)
	}
	if mods&ModShift != 0 {
		out = append(out, hotkey.ModShift)
	}
	if mods&ModSuper != 0 {
		out = append(out, hotkey.ModWin)
	}
	return out
}

func hotkeyKey(key Key) (hotkey.Key, error) {
	switch key {
	case KeyLeft:
		return hotkey.KeyLeft, nil
	case KeyUp:
		return hotkey.KeyUp, nil
	case KeyDown:
		return hotkey.KeyDown, nil
	case KeyRight:
		return hotkey.KeyRight, nil
	default:
		return 0, fmt.Errorf("unsupported hotkey key %s", key)
	}
}

func rectFromWin(r windows.Rect) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}
