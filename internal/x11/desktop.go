package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// The client message is built by hand because the xgbutil ewmh request
// helpers panic on this library version (uint vs int type assertion).
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	const sourceIndication = 2 // pager/direct action
	return c.sendRootMessage(windowID, atom, sourceIndication, 0, 0, 0, 0)
}

// RestoreWindow maps a hidden or minimized window and brings it to the front.
// Windows that are neither are only focused.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	minimized := false
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil && containsString(states, "_NET_WM_STATE_HIDDEN") {
		_ = ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_HIDDEN")
		minimized = true
	}
	if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil && st.State == icccm.StateIconic {
		minimized = true
	}
	if minimized {
		// Mapping an iconic window moves it back to NormalState.
		if err := xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
			return fmt.Errorf("map window 0x%x: %w", uint32(windowID), err)
		}
	}
	return c.FocusWindow(windowID)
}

// WindowExists reports whether the server still knows windowID.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (c *Connection) sendRootMessage(windowID xproto.Window, atom xproto.Atom, data ...uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
