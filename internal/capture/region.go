package capture

import "github.com/fjtughy/winscroll/internal/platform"

// Region is the user-entered cursor confinement rectangle. Width and Height
// hold the right and bottom edges in screen coordinates, the way the values
// reach ClipCursor's RECT, so the default 0,0,1920,1080 covers one FHD screen
// whatever the origin.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Normalize restores x < x+width and y < y+height by bumping the dependent
// field: an x at or beyond the width raises the width to x+1, likewise for
// y and height.
func (r Region) Normalize() Region {
	if r.X >= r.Width {
		r.Width = r.X + 1
	}
	if r.Y >= r.Height {
		r.Height = r.Y + 1
	}
	return r
}

// Rect converts the edge form to an origin and size rectangle.
func (r Region) Rect() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width - r.X, Height: r.Height - r.Y}
}

// ClampPoint clamps p so it stays inside rect. Empty rectangles leave p
// unchanged.
func ClampPoint(rect platform.Rect, p platform.Point) platform.Point {
	return rect.Clamp(p)
}
