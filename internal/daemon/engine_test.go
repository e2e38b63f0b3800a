package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/snap"
)

type fakeBackend struct {
	*platform.Events

	mu         sync.Mutex
	displays   []platform.Display
	active     platform.WindowID
	rects      map[platform.WindowID]platform.Rect
	rectErr    error
	moveErr    error
	moves      []platform.Rect
	cursor     platform.Point
	clips      []*platform.Rect
	registered map[platform.HotkeyID]platform.Key
	refuse     map[platform.Key]bool
	restored   []platform.WindowID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		Events: platform.NewEvents(),
		displays: []platform.Display{{
			ID:      0,
			Name:    "HDMI-1",
			Bounds:  platform.Rect{Width: 1920, Height: 1080},
			Usable:  platform.Rect{Width: 1920, Height: 1080},
			Primary: true,
		}},
		active:     7,
		rects:      map[platform.WindowID]platform.Rect{7: {X: 100, Y: 100, Width: 800, Height: 600}},
		cursor:     platform.Point{X: 500, Y: 500},
		registered: make(map[platform.HotkeyID]platform.Key),
		refuse:     make(map[platform.Key]bool),
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Display(nil), f.displays...), nil
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == 0 {
		return 0, platform.ErrNoActiveWindow
	}
	return f.active, nil
}

func (f *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rectErr != nil {
		return platform.Rect{}, f.rectErr
	}
	r, ok := f.rects[id]
	if !ok {
		return platform.Rect{}, platform.ErrWindowQuery
	}
	return r, nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil {
		return f.moveErr
	}
	f.rects[id] = bounds
	f.moves = append(f.moves, bounds)
	return nil
}

func (f *fakeBackend) Restore(id platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakeBackend) CursorPos() (platform.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, nil
}

func (f *fakeBackend) ClipCursor(r *platform.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r != nil {
		copied := *r
		r = &copied
	}
	f.clips = append(f.clips, r)
	return nil
}

func (f *fakeBackend) RegisterHotkey(id platform.HotkeyID, mods platform.Modifier, key platform.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse[key] {
		return errors.New("already grabbed by another client")
	}
	if _, ok := f.registered[id]; ok {
		return errors.New("duplicate registration")
	}
	f.registered[id] = key
	return nil
}

func (f *fakeBackend) UnregisterHotkey(id platform.HotkeyID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.registered, id)
	return nil
}

func (f *fakeBackend) EventLoop()  {}
func (f *fakeBackend) Disconnect() {}

func (f *fakeBackend) registeredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registered)
}

func (f *fakeBackend) lastClip() (*platform.Rect, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clips) == 0 {
		return nil, 0
	}
	return f.clips[len(f.clips)-1], len(f.clips)
}

func (f *fakeBackend) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.moves)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, backend *fakeBackend, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewEngine(backend, Options{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "settings.yaml"),
		Logger:     quietLogger(),
	})
}

func runEngine(t *testing.T, e *Engine) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-e.Done():
		case <-time.After(2 * time.Second):
			t.Errorf("engine did not stop")
		}
	})
	return cancel
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSnapForeground_FullRight(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, nil)

	result, err := e.snapForeground(snap.FullRight)
	if err != nil {
		t.Fatalf("snapForeground: %v", err)
	}
	want := platform.Rect{X: 1440, Y: 0, Width: 480, Height: 1080}
	if result.Target.Rect() != want {
		t.Fatalf("target = %v, want %v", result.Target.Rect(), want)
	}
	if b.rects[7] != want {
		t.Fatalf("window moved to %v, want %v", b.rects[7], want)
	}
	if _, ok := e.lastApplied[snap.FullRight]; ok {
		t.Fatalf("non-toggling zone must not be recorded")
	}
}

func TestSnapForeground_UpperRightCycles(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, nil)

	primary := platform.Rect{X: 1440, Y: 0, Width: 480, Height: 675}
	alternate := platform.Rect{X: 960, Y: 0, Width: 960, Height: 675}

	for i, want := range []platform.Rect{primary, alternate, primary} {
		result, err := e.snapForeground(snap.UpperRight)
		if err != nil {
			t.Fatalf("activation %d: %v", i+1, err)
		}
		if got := result.Target.Rect(); got != want {
			t.Fatalf("activation %d: target %v, want %v", i+1, got, want)
		}
		if result.Alternate != (want == alternate) {
			t.Fatalf("activation %d: alternate = %v", i+1, result.Alternate)
		}
		if e.lastApplied[snap.UpperRight] != want {
			t.Fatalf("activation %d: memory %v, want %v", i+1, e.lastApplied[snap.UpperRight], want)
		}
	}
}

func TestSnapForeground_UnreadableWindowUsesPrimary(t *testing.T) {
	b := newFakeBackend()
	b.rects[7] = platform.Rect{X: 1440, Y: 675, Width: 480, Height: 405}
	b.rectErr = platform.ErrWindowQuery
	e := newTestEngine(t, b, nil)

	result, err := e.snapForeground(snap.LowerRight)
	if err != nil {
		t.Fatalf("snapForeground: %v", err)
	}
	if want := (platform.Rect{X: 1440, Y: 675, Width: 480, Height: 405}); result.Target.Rect() != want {
		t.Fatalf("target = %v, want primary %v", result.Target.Rect(), want)
	}
}

func TestSnapForeground_MoveFailureIsDropped(t *testing.T) {
	b := newFakeBackend()
	b.moveErr = platform.ErrWindowMove
	e := newTestEngine(t, b, nil)

	if _, err := e.snapForeground(snap.UpperRight); !errors.Is(err, platform.ErrWindowMove) {
		t.Fatalf("expected ErrWindowMove, got %v", err)
	}
	if _, ok := e.lastApplied[snap.UpperRight]; ok {
		t.Fatalf("failed move must not update memory")
	}
}

func TestSnapForeground_NoActiveWindow(t *testing.T) {
	b := newFakeBackend()
	b.active = 0
	e := newTestEngine(t, b, nil)

	if _, err := e.snapForeground(snap.FullLeft); !errors.Is(err, platform.ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow, got %v", err)
	}
	if b.moveCount() != 0 {
		t.Fatalf("expected no move")
	}
}

func TestSnapForeground_UsesDisplayUnderCursor(t *testing.T) {
	b := newFakeBackend()
	b.displays = append(b.displays, platform.Display{
		ID:     1,
		Name:   "DP-1",
		Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
		Usable: platform.Rect{X: 1920, Y: 30, Width: 2560, Height: 1410},
	})
	b.cursor = platform.Point{X: 3000, Y: 700}
	e := newTestEngine(t, b, nil)

	result, err := e.snapForeground(snap.FullLeft)
	if err != nil {
		t.Fatalf("snapForeground: %v", err)
	}
	col, row := 2560/12, 1410/8
	want := platform.Rect{X: 1920, Y: 30, Width: col * 9, Height: row*8 + 1410%8}
	if result.Target.Rect() != want {
		t.Fatalf("target = %v, want %v", result.Target.Rect(), want)
	}
}

func TestEngine_HotkeyActivationMovesWindow(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, nil)
	runEngine(t, e)

	waitFor(t, "hotkey registration", func() bool { return b.registeredCount() == 4 })

	b.PostActivation(snap.FullLeft.HotkeyID())
	waitFor(t, "window move", func() bool { return b.moveCount() == 1 })

	b.mu.Lock()
	got := b.rects[7]
	b.mu.Unlock()
	if want := (platform.Rect{X: 0, Y: 0, Width: 1440, Height: 1080}); got != want {
		t.Fatalf("window at %v, want %v", got, want)
	}
}

func TestEngine_SnappingToggleReleasesHotkeys(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, nil)
	runEngine(t, e)

	for i := 0; i < 3; i++ {
		if err := e.SetSnapping(false); err != nil {
			t.Fatalf("SetSnapping(false): %v", err)
		}
		if n := b.registeredCount(); n != 0 {
			t.Fatalf("cycle %d: expected 0 registrations, got %d", i, n)
		}
		if err := e.SetSnapping(true); err != nil {
			t.Fatalf("SetSnapping(true): %v", err)
		}
		if n := b.registeredCount(); n != 4 {
			t.Fatalf("cycle %d: expected 4 registrations, got %d", i, n)
		}
	}

	if err := e.SetSnapping(false); err != nil {
		t.Fatalf("SetSnapping(false): %v", err)
	}
	b.PostActivation(snap.FullRight.HotkeyID())
	// A status round trip gives the loop a chance to drain the activation.
	_ = e.Status()
	_ = e.Status()
	if b.moveCount() != 0 {
		t.Fatalf("activation while disabled must not move windows")
	}
}

func TestEngine_HotkeyConflictReportedInStatus(t *testing.T) {
	b := newFakeBackend()
	b.refuse[platform.KeyDown] = true
	e := newTestEngine(t, b, nil)
	runEngine(t, e)

	st := e.Status()
	if !st.WindowSnapping || st.HotkeyState != "active" {
		t.Fatalf("expected active snapping, got %+v", st)
	}
	if len(st.InertZones) != 1 || st.InertZones[0] != "lower_right" {
		t.Fatalf("expected lower_right inert, got %v", st.InertZones)
	}
	if b.registeredCount() != 3 {
		t.Fatalf("expected other zones to stay registered")
	}
}

func TestEngine_CaptureLifecycle(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, func(c *config.Config) {
		c.CaptureX, c.CaptureY, c.CaptureWidth, c.CaptureHeight = 10, 10, 500, 500
	})
	runEngine(t, e)

	if err := e.SetCapture(true); err != nil {
		t.Fatalf("SetCapture(true): %v", err)
	}
	clip, _ := b.lastClip()
	if clip == nil || *clip != (platform.Rect{X: 10, Y: 10, Width: 490, Height: 490}) {
		t.Fatalf("expected immediate clip to region, got %v", clip)
	}

	applied, err := e.SetCaptureRegion(capture.Region{X: 600, Y: 0, Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("SetCaptureRegion: %v", err)
	}
	if want := (capture.Region{X: 600, Y: 0, Width: 601, Height: 100}); applied != want {
		t.Fatalf("applied region %+v, want %+v", applied, want)
	}
	waitFor(t, "tick with new region", func() bool {
		clip, _ := b.lastClip()
		return clip != nil && clip.X == 600 && clip.Width == 1
	})

	if err := e.SetCapture(false); err != nil {
		t.Fatalf("SetCapture(false): %v", err)
	}
	clip, n := b.lastClip()
	if clip != nil {
		t.Fatalf("expected release after disable, got %v", clip)
	}

	// No ticks while disabled.
	time.Sleep(5 * capture.TickInterval)
	if _, after := b.lastClip(); after != n {
		t.Fatalf("clip calls continued after disable: %d -> %d", n, after)
	}

	st := e.Status()
	if st.CaptureEnabled {
		t.Fatalf("expected capture disabled in status")
	}
	if st.Cursor == nil || st.Cursor.Display != "HDMI-1" {
		t.Fatalf("expected cursor on HDMI-1, got %+v", st.Cursor)
	}
}

func TestEngine_ShowRestoresHost(t *testing.T) {
	b := newFakeBackend()
	e := newTestEngine(t, b, nil)
	runEngine(t, e)

	if err := e.Show(); !errors.Is(err, ErrNoHostWindow) {
		t.Fatalf("expected ErrNoHostWindow, got %v", err)
	}

	hb := newFakeBackend()
	hosted := NewEngine(hb, Options{Config: config.DefaultConfig(), HostWindow: 99, Logger: quietLogger()})
	runEngine(t, hosted)
	hb.PostSignal(platform.SignalShow)
	waitFor(t, "restore", func() bool {
		hb.mu.Lock()
		defer hb.mu.Unlock()
		return len(hb.restored) == 1 && hb.restored[0] == 99
	})
}

func TestEngine_QuitReleasesEverythingAndSaves(t *testing.T) {
	b := newFakeBackend()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	e := NewEngine(b, Options{Config: config.DefaultConfig(), ConfigPath: path, Logger: quietLogger()})
	go func() { _ = e.Run(context.Background()) }()

	if err := e.SetCapture(true); err != nil {
		t.Fatalf("SetCapture: %v", err)
	}
	if _, err := e.SetCaptureRegion(capture.Region{X: 5, Y: 5, Width: 300, Height: 200}); err != nil {
		t.Fatalf("SetCaptureRegion: %v", err)
	}

	e.Quit()
	select {
	case <-e.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("engine did not stop after Quit")
	}

	if b.registeredCount() != 0 {
		t.Fatalf("expected all hotkeys released on shutdown")
	}
	if clip, _ := b.lastClip(); clip != nil {
		t.Fatalf("expected cursor released on shutdown, got %v", clip)
	}

	saved, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved settings: %v", err)
	}
	if saved.CaptureX != 5 || saved.CaptureWidth != 300 {
		t.Fatalf("unexpected saved settings %+v", saved)
	}

	if err := e.SetSnapping(true); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after shutdown, got %v", err)
	}
}

func TestEngine_ReloadAppliesSettings(t *testing.T) {
	b := newFakeBackend()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	level := new(slog.LevelVar)
	e := NewEngine(b, Options{Config: config.DefaultConfig(), ConfigPath: path, Logger: quietLogger(), LogLevel: level})
	runEngine(t, e)
	waitFor(t, "hotkey registration", func() bool { return b.registeredCount() == 4 })

	body := "window_snapping: \"false\"\nlog_level: debug\ngrid:\n  columns: 12\n  rows: 8\ncapture_x: 40\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := e.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if b.registeredCount() != 0 {
		t.Fatalf("expected hotkeys released after reload disabled snapping")
	}
	if level.Level() != slog.LevelDebug {
		t.Fatalf("expected log level debug, got %v", level.Level())
	}
	if st := e.Status(); st.CaptureRegion.X != 40 {
		t.Fatalf("expected capture_x 40, got %+v", st.CaptureRegion)
	}

	if err := os.WriteFile(path, []byte("bogus_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := e.Reload(); !errors.Is(err, config.ErrConfigurationUnavailable) {
		t.Fatalf("expected ErrConfigurationUnavailable, got %v", err)
	}
	if st := e.Status(); st.CaptureRegion.X != 40 {
		t.Fatalf("failed reload must keep current settings")
	}
}

func TestEngine_KeepsUnreadableSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	broken := "capture_x: 300\ncapture_width: 900\nwindow_snaping: \"false\"\n"
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, loadErr := config.LoadFromPath(path)
	if loadErr == nil {
		t.Fatalf("expected the misspelled key to be rejected")
	}

	b := newFakeBackend()
	e := NewEngine(b, Options{Config: cfg, ConfigPath: path, KeepSettingsFile: true, Logger: quietLogger()})
	runEngine(t, e)

	if err := e.SetSnapping(false); err != nil {
		t.Fatalf("SetSnapping: %v", err)
	}
	if _, err := e.SetCaptureRegion(capture.Region{X: 1, Y: 1, Width: 50, Height: 50}); err != nil {
		t.Fatalf("SetCaptureRegion: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != broken {
		t.Fatalf("settings file rewritten:\n%s", data)
	}

	fixed := "capture_x: 300\ncapture_width: 900\nwindow_snapping: \"false\"\n"
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := e.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if err := e.SetSnapping(true); err != nil {
		t.Fatalf("SetSnapping: %v", err)
	}
	loaded, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !loaded.WindowSnapping || loaded.CaptureX != 300 || loaded.CaptureWidth != 900 {
		t.Fatalf("expected saves to resume after reload, got %+v", loaded)
	}
}

func TestEngine_PinnedHostFollowsRegion(t *testing.T) {
	b := newFakeBackend()
	e := NewEngine(b, Options{
		Config: func() *config.Config {
			c := config.DefaultConfig()
			c.PinHostWindow = true
			c.CaptureX, c.CaptureY = 200, 100
			return c
		}(),
		HostWindow: 55,
		Logger:     quietLogger(),
	})
	runEngine(t, e)

	if err := e.SetCapture(true); err != nil {
		t.Fatalf("SetCapture: %v", err)
	}
	b.mu.Lock()
	got := b.rects[55]
	b.mu.Unlock()
	want := platform.Rect{X: 200, Y: 100, Width: capture.HostWidth, Height: capture.HostHeight}
	if got != want {
		t.Fatalf("host at %v, want %v", got, want)
	}
}
