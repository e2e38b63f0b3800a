package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display and the part of it not covered by
// panels or docks.
type Monitor struct {
	ID       int
	Name     string
	Primary  bool
	Bounds   Box
	WorkArea Box
}

// Box is an axis-aligned rectangle in root window coordinates.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (b Box) right() int  { return b.X + b.Width }
func (b Box) bottom() int { return b.Y + b.Height }

// Intersect returns the overlap of a and b, or a zero Box when they are
// disjoint.
func (b Box) Intersect(o Box) Box {
	x1, y1 := max(b.X, o.X), max(b.Y, o.Y)
	x2, y2 := min(b.right(), o.right()), min(b.bottom(), o.bottom())
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (b Box) empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// GetMonitors retrieves all active monitors using XRandR, with their work
// areas resolved from dock struts or _NET_WORKAREA.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primaryOutput = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		primary := false
		for _, o := range info.Outputs {
			if primaryOutput != 0 && o == primaryOutput {
				primary = true
			}
		}

		bounds := Box{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		monitors = append(monitors, Monitor{
			ID:       i,
			Name:     name,
			Primary:  primary,
			Bounds:   bounds,
			WorkArea: bounds,
		})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	// Without a primary output the monitor at the root origin plays that role.
	if !hasPrimary(monitors) {
		for i := range monitors {
			if monitors[i].Bounds.X == 0 && monitors[i].Bounds.Y == 0 {
				monitors[i].Primary = true
				break
			}
		}
	}

	c.applyWorkAreas(monitors)
	return monitors, nil
}

func hasPrimary(monitors []Monitor) bool {
	for _, m := range monitors {
		if m.Primary {
			return true
		}
	}
	return false
}

// applyWorkAreas shrinks each monitor by the dock struts touching it. When no
// dock advertises struts, the desktop-wide _NET_WORKAREA is intersected
// instead.
func (c *Connection) applyWorkAreas(monitors []Monitor) {
	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return
	}
	struts := c.dockStruts(int(root.Width), int(root.Height))

	var desktopArea Box
	if len(struts) == 0 {
		desktopArea = c.desktopWorkArea()
	}

	for i := range monitors {
		m := &monitors[i]
		if len(struts) > 0 {
			m.WorkArea = shrinkByStruts(m.Bounds, struts)
			continue
		}
		if desktopArea.empty() {
			continue
		}
		if isect := m.Bounds.Intersect(desktopArea); !isect.empty() {
			m.WorkArea = isect
		}
	}
}

func (c *Connection) desktopWorkArea() Box {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return Box{}
	}
	idx := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(areas) {
		idx = int(current)
	}
	wa := areas[idx]
	return Box{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}
}

// strut is the screen band reserved by a dock on one edge.
type strut struct {
	edge int
	area Box
}

const (
	edgeLeft = iota
	edgeRight
	edgeTop
	edgeBottom
)

func (c *Connection) dockStruts(rootWidth, rootHeight int) []strut {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []strut
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !containsString(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Some docks only set _NET_WM_STRUT, which spans the whole edge.
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rootHeight - 1), RightEndY: uint(rootHeight - 1),
				TopEndX: uint(rootWidth - 1), BottomEndX: uint(rootWidth - 1),
			}
		}
		out = append(out, strutsFromPartial(sp, rootWidth, rootHeight)...)
	}
	return out
}

func strutsFromPartial(sp *ewmh.WmStrutPartial, rootWidth, rootHeight int) []strut {
	var out []strut
	if sp.Left > 0 {
		out = append(out, strut{edgeLeft, Box{
			X: 0, Y: int(sp.LeftStartY),
			Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1,
		}})
	}
	if sp.Right > 0 {
		out = append(out, strut{edgeRight, Box{
			X: rootWidth - int(sp.Right), Y: int(sp.RightStartY),
			Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}})
	}
	if sp.Top > 0 {
		out = append(out, strut{edgeTop, Box{
			X: int(sp.TopStartX), Y: 0,
			Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top),
		}})
	}
	if sp.Bottom > 0 {
		out = append(out, strut{edgeBottom, Box{
			X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom),
			Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom),
		}})
	}
	return out
}

func shrinkByStruts(bounds Box, struts []strut) Box {
	var left, right, top, bottom int
	for _, s := range struts {
		isect := bounds.Intersect(s.area)
		if isect.empty() {
			continue
		}
		switch s.edge {
		case edgeLeft:
			left = max(left, isect.Width)
		case edgeRight:
			right = max(right, isect.Width)
		case edgeTop:
			top = max(top, isect.Height)
		case edgeBottom:
			bottom = max(bottom, isect.Height)
		}
	}

	area := Box{
		X:      bounds.X + left,
		Y:      bounds.Y + top,
		Width:  max(bounds.Width-left-right, 1),
		Height: max(bounds.Height-top-bottom, 1),
	}
	return area
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
