package x11

import "github.com/BurntSushi/xgb/xproto"

// PointerPosition returns the pointer location in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// WarpPointer moves the pointer to an absolute root position.
func (c *Connection) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(
		c.XUtil.Conn(),
		xproto.WindowNone,
		c.Root,
		0, 0, 0, 0,
		int16(x), int16(y),
	).Check()
}
