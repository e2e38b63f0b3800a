package capture

import (
	"log/slog"
	"time"

	"github.com/fjtughy/winscroll/internal/platform"
)

// TickInterval is the cursor sampling period while capture is enabled.
const TickInterval = 10 * time.Millisecond

// Host window geometry forced while capture is active.
const (
	HostWidth  = 464
	HostHeight = 249
)

// Cursor is the subset of the backend the clipper drives.
type Cursor interface {
	ClipCursor(r *platform.Rect) error
	MoveResize(windowID platform.WindowID, bounds platform.Rect) error
}

// Clipper confines the cursor to a region on every tick while enabled.
type Clipper struct {
	cursor  Cursor
	logger  *slog.Logger
	region  Region
	host    platform.WindowID
	enabled bool
}

// NewClipper creates a disabled clipper for the given region.
func NewClipper(cursor Cursor, region Region, logger *slog.Logger) *Clipper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clipper{
		cursor: cursor,
		logger: logger,
		region: region.Normalize(),
	}
}

// SetHost sets the window pinned next to the capture region. Zero disables
// pinning.
func (c *Clipper) SetHost(id platform.WindowID) {
	c.host = id
}

// SetRegion replaces the capture region, applying the auto-correction.
// The new region takes effect on the next tick.
func (c *Clipper) SetRegion(r Region) Region {
	c.region = r.Normalize()
	return c.region
}

func (c *Clipper) Region() Region {
	return c.region
}

func (c *Clipper) Enabled() bool {
	return c.enabled
}

// Enable turns capture on and applies the clip immediately.
func (c *Clipper) Enable() {
	c.enabled = true
	c.Tick()
}

// Disable turns capture off and removes any clip, even one that was never set.
func (c *Clipper) Disable() {
	c.enabled = false
	if err := c.cursor.ClipCursor(nil); err != nil {
		c.logger.Debug("release cursor clip failed", "error", err)
	}
}

// Tick refreshes the clip. It is a no-op while disabled.
func (c *Clipper) Tick() {
	if !c.enabled {
		return
	}
	rect := c.region.Rect()
	if err := c.cursor.ClipCursor(&rect); err != nil {
		c.logger.Debug("cursor clip failed", "region", rect, "error", err)
	}
	if c.host == 0 {
		return
	}
	pinned := platform.Rect{X: c.region.X, Y: c.region.Y, Width: HostWidth, Height: HostHeight}
	if err := c.cursor.MoveResize(c.host, pinned); err != nil {
		c.logger.Debug("pin host window failed", "window", c.host, "error", err)
	}
}
