package snap

import (
	"fmt"

	"github.com/fjtughy/winscroll/internal/platform"
)

// Spans expresses each zone in grid cells. The defaults describe a 12x8 grid.
type Spans struct {
	LeftColumns     int `yaml:"left_columns" json:"left_columns"`
	RightColumn     int `yaml:"right_column" json:"right_column"`
	RightWidth      int `yaml:"right_width" json:"right_width"`
	AlternateColumn int `yaml:"alternate_column" json:"alternate_column"`
	AlternateWidth  int `yaml:"alternate_width" json:"alternate_width"`
	UpperRows       int `yaml:"upper_rows" json:"upper_rows"`
	LowerRows       int `yaml:"lower_rows" json:"lower_rows"`
	FullRows        int `yaml:"full_rows" json:"full_rows"`
}

// DefaultSpans returns the spans used when the settings file has none.
func DefaultSpans() Spans {
	return Spans{
		LeftColumns:     9,
		RightColumn:     9,
		RightWidth:      3,
		AlternateColumn: 6,
		AlternateWidth:  6,
		UpperRows:       5,
		LowerRows:       3,
		FullRows:        8,
	}
}

// Validate rejects negative spans and zero-sized zones.
func (s Spans) Validate() error {
	fields := []struct {
		name  string
		value int
		min   int
	}{
		{"left_columns", s.LeftColumns, 1},
		{"right_column", s.RightColumn, 0},
		{"right_width", s.RightWidth, 1},
		{"alternate_column", s.AlternateColumn, 0},
		{"alternate_width", s.AlternateWidth, 1},
		{"upper_rows", s.UpperRows, 1},
		{"lower_rows", s.LowerRows, 1},
		{"full_rows", s.FullRows, 1},
	}
	for _, f := range fields {
		if f.value < f.min {
			return fmt.Errorf("%s must be >= %d", f.name, f.min)
		}
	}
	return nil
}

// Request carries everything Resolve needs for one activation.
type Request struct {
	Zone     Zone
	WorkArea platform.Rect
	Grid     Grid
	Spans    Spans
	// Current is the window's actual rectangle. HaveCurrent is false when it
	// could not be read, in which case the primary target is always chosen.
	Current     platform.Rect
	HaveCurrent bool
}

// Primary computes the zone's first target rectangle.
func Primary(zone Zone, workArea platform.Rect, cell Cell, grid Grid, spans Spans) platform.Rect {
	col := cell.Width
	row := cell.Height
	// Floor division loses up to rows-1 pixels; zones touching the bottom
	// edge absorb them. Uses this work area, not a cached one.
	remainder := workArea.Height % grid.Rows

	switch zone {
	case FullLeft:
		return platform.Rect{
			X:      workArea.X,
			Y:      workArea.Y,
			Width:  col * spans.LeftColumns,
			Height: row*spans.FullRows + remainder,
		}
	case FullRight:
		return platform.Rect{
			X:      workArea.X + col*spans.RightColumn,
			Y:      workArea.Y,
			Width:  col * spans.RightWidth,
			Height: row * spans.FullRows,
		}
	case UpperRight:
		return platform.Rect{
			X:      workArea.X + col*spans.RightColumn,
			Y:      workArea.Y,
			Width:  col * spans.RightWidth,
			Height: row * spans.UpperRows,
		}
	case LowerRight:
		return platform.Rect{
			X:      workArea.X + col*spans.RightColumn,
			Y:      workArea.Y + row*spans.UpperRows,
			Width:  col * spans.RightWidth,
			Height: row*spans.LowerRows + remainder,
		}
	default:
		return platform.Rect{}
	}
}

// Alternate computes the wider target used when a toggling zone is
// activated while the window already sits on its primary target.
func Alternate(zone Zone, workArea platform.Rect, cell Cell, grid Grid, spans Spans) platform.Rect {
	alt := Primary(zone, workArea, cell, grid, spans)
	if !zone.Toggles() {
		return alt
	}
	alt.X = workArea.X + cell.Width*spans.AlternateColumn
	alt.Width = cell.Width * spans.AlternateWidth
	return alt
}

// Resolve returns the rectangle the window should be moved to. A toggling
// zone switches to its alternate only when the current rectangle matches the
// primary exactly on all four edges.
func Resolve(req Request) (platform.Rect, error) {
	if _, ok := ZoneForHotkey(req.Zone.HotkeyID()); !ok {
		return platform.Rect{}, fmt.Errorf("unknown zone %d", int(req.Zone))
	}
	cell, err := CellSize(req.WorkArea, req.Grid)
	if err != nil {
		return platform.Rect{}, err
	}

	primary := Primary(req.Zone, req.WorkArea, cell, req.Grid, req.Spans)
	if req.Zone.Toggles() && req.HaveCurrent && req.Current == primary {
		return Alternate(req.Zone, req.WorkArea, cell, req.Grid, req.Spans), nil
	}
	return primary, nil
}

// IsAlternate reports whether target is the alternate rectangle for req,
// i.e. the toggle fired.
func IsAlternate(req Request, target platform.Rect) bool {
	if !req.Zone.Toggles() {
		return false
	}
	cell, err := CellSize(req.WorkArea, req.Grid)
	if err != nil {
		return false
	}
	return target != Primary(req.Zone, req.WorkArea, cell, req.Grid, req.Spans)
}
