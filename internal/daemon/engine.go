package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/hotkeys"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/snap"
)

var (
	// ErrStopped is returned by requests made after the loop has exited.
	ErrStopped = errors.New("daemon loop stopped")
	// ErrNoHostWindow is returned by Show when the daemon has no window of
	// its own to bring forward.
	ErrNoHostWindow = errors.New("no host window")
)

// Options configures an Engine.
type Options struct {
	Config *config.Config
	// ConfigPath is where settings are saved on change and at shutdown.
	// Empty disables saving.
	ConfigPath string
	// KeepSettingsFile holds off every save until a reload succeeds. It is
	// set when the file exists but could not be loaded, so the defaults in
	// use never replace what the user wrote.
	KeepSettingsFile bool
	// HostWindow is the window Show restores and, with pin_host_window,
	// the window parked on the capture region.
	HostWindow platform.WindowID
	Logger     *slog.Logger
	// LogLevel, when set, follows log_level across reloads.
	LogLevel *slog.LevelVar
}

// Engine owns all snapping and capture state. Every mutation runs on the
// goroutine executing Run.
type Engine struct {
	backend    platform.Backend
	cfg        *config.Config
	configPath string
	keepFile   bool
	logger     *slog.Logger
	logLevel   *slog.LevelVar

	hotkeys *hotkeys.Manager
	clipper *capture.Clipper
	host    platform.WindowID

	// lastApplied holds the last rectangle applied per toggling zone.
	lastApplied map[snap.Zone]platform.Rect

	startTime time.Time
	ticker    *time.Ticker
	tickC     <-chan time.Time

	commands chan func()
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

var _ ipc.Controller = (*Engine)(nil)

// NewEngine wires the hotkey manager and cursor clipper to backend.
func NewEngine(backend platform.Backend, opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		backend:     backend,
		cfg:         cfg,
		configPath:  opts.ConfigPath,
		keepFile:    opts.KeepSettingsFile,
		logger:      logger,
		logLevel:    opts.LogLevel,
		host:        opts.HostWindow,
		lastApplied: make(map[snap.Zone]platform.Rect),
		startTime:   time.Now(),
		commands:    make(chan func()),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	e.hotkeys = hotkeys.NewManager(backend, e.onHotkey, logger.With("component", "hotkeys"))
	e.clipper = capture.NewClipper(backend, cfg.CaptureRegion(), logger.With("component", "capture"))
	e.applyHostPinning()
	return e
}

// Run enables the configured features and processes events until ctx is
// cancelled or Quit is called. On exit capture is released, every hotkey is
// unregistered and settings are saved.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	if e.cfg.WindowSnapping {
		e.enableHotkeys()
	}
	e.logger.Info("engine started",
		"window_snapping", bool(e.cfg.WindowSnapping),
		"grid", fmt.Sprintf("%dx%d", e.cfg.Grid.Columns, e.cfg.Grid.Rows),
		"capture_region", e.clipper.Region().Rect().String(),
	)

	activations := e.backend.Activations()
	signals := e.backend.Signals()

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case <-e.quit:
			e.shutdown()
			return nil
		case a := <-activations:
			if !e.hotkeys.Dispatch(a) {
				e.logger.Debug("activation dropped", "id", int(a.ID))
			}
		case sig := <-signals:
			e.handleSignal(sig)
		case fn := <-e.commands:
			fn()
		case <-e.tickC:
			e.clipper.Tick()
		}
	}
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// do runs fn on the loop goroutine and waits for it.
func (e *Engine) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case e.commands <- func() {
		defer close(finished)
		fn()
	}:
	case <-e.done:
		return ErrStopped
	}
	<-finished
	return nil
}

func (e *Engine) onHotkey(zone snap.Zone, at time.Time) {
	result, err := e.snapForeground(zone)
	if err != nil {
		e.logger.Warn("snap failed", "zone", zone.String(), "error", err)
		return
	}
	e.logger.Debug("window snapped",
		"zone", zone.String(),
		"window", result.Window,
		"target", result.Target.Rect().String(),
		"alternate", result.Alternate,
		"latency", time.Since(at),
	)
}

// snapForeground moves the foreground window into zone on the display
// under the cursor.
func (e *Engine) snapForeground(zone snap.Zone) (ipc.SnapData, error) {
	window, err := e.backend.ActiveWindow()
	if err != nil {
		return ipc.SnapData{}, err
	}

	cursor, err := e.backend.CursorPos()
	if err != nil {
		// An unknown position falls back to the primary display.
		e.logger.Debug("cursor position unavailable", "error", err)
		cursor = platform.Point{X: -1 << 30, Y: -1 << 30}
	}
	displays, err := e.backend.Displays()
	if err != nil {
		return ipc.SnapData{}, fmt.Errorf("list displays: %w", err)
	}
	display := snap.LocateDisplay(displays, cursor)

	req := snap.Request{
		Zone:     zone,
		WorkArea: display.Usable,
		Grid:     e.cfg.Grid,
		Spans:    e.cfg.Spans,
	}
	if current, err := e.backend.WindowRect(window); err == nil {
		req.Current = current
		req.HaveCurrent = true
	} else {
		e.logger.Debug("window rect unavailable, using primary target", "window", uint64(window), "error", err)
	}

	target, err := snap.Resolve(req)
	if err != nil {
		return ipc.SnapData{}, err
	}
	if err := e.backend.MoveResize(window, target); err != nil {
		return ipc.SnapData{}, err
	}

	if zone.Toggles() {
		e.lastApplied[zone] = target
	}
	return ipc.SnapData{
		Zone:      zone.String(),
		Window:    uint64(window),
		Target:    ipc.RectDataFrom(target),
		Alternate: snap.IsAlternate(req, target),
	}, nil
}

func (e *Engine) enableHotkeys() {
	if err := e.hotkeys.Enable(); err != nil {
		// Conflicts leave individual zones inert; the rest keep working.
		e.logger.Warn("some snap hotkeys are unavailable", "error", err)
	}
}

func (e *Engine) setSnapping(enabled bool) {
	e.cfg.WindowSnapping = config.Flag(enabled)
	if enabled {
		e.enableHotkeys()
	} else {
		e.hotkeys.Disable()
	}
}

func (e *Engine) setCapture(enabled bool) {
	if enabled == e.clipper.Enabled() {
		if !enabled {
			// Releasing is idempotent and always reaches the OS.
			e.clipper.Disable()
		}
		return
	}
	if enabled {
		e.ticker = time.NewTicker(capture.TickInterval)
		e.tickC = e.ticker.C
		e.clipper.Enable()
		e.logger.Info("cursor capture enabled", "region", e.clipper.Region().Rect().String())
		return
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	e.tickC = nil
	e.clipper.Disable()
	e.logger.Info("cursor capture disabled")
}

func (e *Engine) applyHostPinning() {
	if e.cfg.PinHostWindow {
		e.clipper.SetHost(e.host)
	} else {
		e.clipper.SetHost(0)
	}
}

func (e *Engine) handleSignal(sig platform.Signal) {
	switch sig {
	case platform.SignalShow:
		if err := e.show(); err != nil {
			e.logger.Info("show request ignored", "error", err)
		}
	default:
		e.logger.Debug("unknown signal", "signal", int(sig))
	}
}

func (e *Engine) show() error {
	if e.host == 0 {
		return ErrNoHostWindow
	}
	return e.backend.Restore(e.host)
}

func (e *Engine) reload() error {
	if e.configPath == "" {
		return fmt.Errorf("%w: no settings path", config.ErrConfigurationUnavailable)
	}
	cfg, err := config.LoadFromPath(e.configPath)
	if err != nil {
		return err
	}

	snapping := bool(cfg.WindowSnapping)
	e.cfg = cfg
	e.keepFile = false
	e.clipper.SetRegion(cfg.CaptureRegion())
	e.applyHostPinning()
	if e.logLevel != nil {
		if level, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
			e.logLevel.Set(level)
		}
	}
	if snapping != (e.hotkeys.State() == hotkeys.Active) {
		e.setSnapping(snapping)
	}
	e.logger.Info("settings reloaded", "path", e.configPath)
	return nil
}

func (e *Engine) save() {
	if e.configPath == "" {
		return
	}
	if e.keepFile {
		e.logger.Warn("settings not saved, fix the file and reload", "path", e.configPath)
		return
	}
	if err := e.cfg.SaveTo(e.configPath); err != nil {
		e.logger.Warn("failed to save settings", "path", e.configPath, "error", err)
	}
}

func (e *Engine) shutdown() {
	e.setCapture(false)
	e.hotkeys.Disable()
	e.save()
	e.logger.Info("engine stopped")
}

func (e *Engine) status() ipc.StatusData {
	inert := e.hotkeys.Inert()
	inertNames := make([]string, 0, len(inert))
	for _, z := range inert {
		inertNames = append(inertNames, z.String())
	}

	last := make(map[string]ipc.RectData, len(e.lastApplied))
	for z, r := range e.lastApplied {
		last[z.String()] = ipc.RectDataFrom(r)
	}

	st := ipc.StatusData{
		DaemonRunning:  true,
		UptimeSeconds:  int64(time.Since(e.startTime).Seconds()),
		WindowSnapping: bool(e.cfg.WindowSnapping),
		HotkeyState:    e.hotkeys.State().String(),
		InertZones:     inertNames,
		CaptureEnabled: e.clipper.Enabled(),
		CaptureRegion:  e.clipper.Region(),
		HideTrayIcon:   bool(e.cfg.HideTrayIcon),
		PinHostWindow:  bool(e.cfg.PinHostWindow),
		HostWindow:     uint64(e.host),
		Grid:           e.cfg.Grid,
		LastApplied:    last,
		ConfigPath:     e.configPath,
	}

	if p, err := e.backend.CursorPos(); err == nil {
		cursor := &ipc.CursorData{X: p.X, Y: p.Y}
		if displays, err := e.backend.Displays(); err == nil {
			cursor.Display = snap.LocateDisplay(displays, p).Name
		}
		st.Cursor = cursor
	}
	return st
}

// Status implements ipc.Controller.
func (e *Engine) Status() ipc.StatusData {
	var st ipc.StatusData
	if err := e.do(func() { st = e.status() }); err != nil {
		return ipc.StatusData{}
	}
	return st
}

// Snap implements ipc.Controller.
func (e *Engine) Snap(zone snap.Zone) (ipc.SnapData, error) {
	var (
		result  ipc.SnapData
		snapErr error
	)
	if err := e.do(func() { result, snapErr = e.snapForeground(zone) }); err != nil {
		return ipc.SnapData{}, err
	}
	return result, snapErr
}

// SetSnapping implements ipc.Controller.
func (e *Engine) SetSnapping(enabled bool) error {
	return e.do(func() {
		e.setSnapping(enabled)
		e.save()
	})
}

// SetCapture implements ipc.Controller.
func (e *Engine) SetCapture(enabled bool) error {
	return e.do(func() { e.setCapture(enabled) })
}

// SetCaptureRegion implements ipc.Controller. The region is auto-corrected
// and takes effect on the next tick.
func (e *Engine) SetCaptureRegion(r capture.Region) (capture.Region, error) {
	var applied capture.Region
	err := e.do(func() {
		applied = e.clipper.SetRegion(r)
		e.cfg.SetCaptureRegion(applied)
		e.save()
	})
	return applied, err
}

// Show implements ipc.Controller.
func (e *Engine) Show() error {
	var showErr error
	if err := e.do(func() { showErr = e.show() }); err != nil {
		return err
	}
	return showErr
}

// Reload implements ipc.Controller.
func (e *Engine) Reload() error {
	var reloadErr error
	if err := e.do(func() { reloadErr = e.reload() }); err != nil {
		return err
	}
	return reloadErr
}

// Quit implements ipc.Controller. It returns immediately; Done reports when
// shutdown has finished.
func (e *Engine) Quit() {
	e.quitOnce.Do(func() { close(e.quit) })
}
