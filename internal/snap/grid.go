package snap

import (
	"fmt"

	"github.com/fjtughy/winscroll/internal/platform"
)

// Grid divides a display's work area into equal cells.
type Grid struct {
	Columns int `yaml:"columns" json:"columns"`
	Rows    int `yaml:"rows" json:"rows"`
}

// DefaultGrid is the 12x8 grid the zone spans are expressed against.
func DefaultGrid() Grid {
	return Grid{Columns: 12, Rows: 8}
}

// Cell is the size of a single grid cell in pixels.
type Cell struct {
	Width  int
	Height int
}

// CellSize computes the cell dimensions for workArea using floor division.
func CellSize(workArea platform.Rect, grid Grid) (Cell, error) {
	if grid.Columns < 1 || grid.Rows < 1 {
		return Cell{}, fmt.Errorf("invalid grid dimensions: columns=%d rows=%d", grid.Columns, grid.Rows)
	}
	return Cell{
		Width:  workArea.Width / grid.Columns,
		Height: workArea.Height / grid.Rows,
	}, nil
}

// LocateDisplay returns the display containing p. When p is outside every
// display it falls back to the primary display, then the first one.
func LocateDisplay(displays []platform.Display, p platform.Point) platform.Display {
	for _, d := range displays {
		if d.Bounds.Contains(p) {
			return d
		}
	}
	for _, d := range displays {
		if d.Primary {
			return d
		}
	}
	if len(displays) > 0 {
		return displays[0]
	}
	return platform.Display{}
}
