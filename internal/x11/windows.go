package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow moves and resizes a window to the specified geometry.
// Maximized windows are unmaximized first so the window manager honors the
// request.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Not every window exposes _NET_WM_STATE; that is not fatal.
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// No EWMH-compliant WM; configure the window directly.
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// WindowGeometry returns the window's rectangle in the frame the move
// request uses: the origin is the decoration's top-left corner and the size
// is the client size, so a window just moved to r reports r again.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Box, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Box{}, fmt.Errorf("get geometry of 0x%x: %w", uint32(windowID), err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Box{}, fmt.Errorf("translate coordinates of 0x%x: %w", uint32(windowID), err)
	}

	client := Box{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	return withFrameOrigin(client, c.GetFrameExtents(windowID)), nil
}

// GetFrameExtents returns the window decoration sizes. Undecorated windows
// and window managers without _NET_FRAME_EXTENTS report zeros.
func (c *Connection) GetFrameExtents(windowID xproto.Window) ewmh.FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil || extents == nil {
		return ewmh.FrameExtents{}
	}
	return *extents
}

// withFrameOrigin shifts a client rectangle to its frame's top-left corner.
// _NET_MOVERESIZE_WINDOW with NorthWest gravity places the frame there.
func withFrameOrigin(client Box, ext ewmh.FrameExtents) Box {
	client.X -= ext.Left
	client.Y -= ext.Top
	return client
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
