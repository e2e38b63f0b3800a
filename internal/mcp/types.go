package mcp

import (
	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/ipc"
)

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	Zone string `json:"zone" jsonschema:"required,Target zone: full_left, upper_right, lower_right or full_right. Repeating upper_right or lower_right on a window already in place switches to the wider alternate."`
}

// SnapWindowOutput is the output for the snap_window tool.
type SnapWindowOutput struct {
	Zone      string       `json:"zone"`
	Window    uint64       `json:"window"`
	Target    ipc.RectData `json:"target"`
	Alternate bool         `json:"alternate"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// SetWindowSnappingInput is the input for the set_window_snapping tool.
type SetWindowSnappingInput struct {
	Enabled bool `json:"enabled" jsonschema:"required,true registers the Ctrl+Alt+Arrow hotkeys, false releases them"`
}

// SetWindowSnappingOutput is the output for the set_window_snapping tool.
type SetWindowSnappingOutput struct {
	Enabled    bool     `json:"enabled"`
	InertZones []string `json:"inert_zones,omitempty"`
}

// SetCursorCaptureInput is the input for the set_cursor_capture tool.
type SetCursorCaptureInput struct {
	Enabled *bool `json:"enabled,omitempty" jsonschema:"Turn cursor capture on or off. Omit to leave unchanged."`
	X       *int  `json:"x,omitempty" jsonschema:"Left edge of the capture region in screen pixels"`
	Y       *int  `json:"y,omitempty" jsonschema:"Top edge of the capture region in screen pixels"`
	Width   *int  `json:"width,omitempty" jsonschema:"Right edge of the capture region in screen coordinates; raised to x+1 when x >= width"`
	Height  *int  `json:"height,omitempty" jsonschema:"Bottom edge of the capture region in screen coordinates; raised to y+1 when y >= height"`
}

func (in SetCursorCaptureInput) touchesRegion() bool {
	return in.X != nil || in.Y != nil || in.Width != nil || in.Height != nil
}

// SetCursorCaptureOutput is the output for the set_cursor_capture tool.
type SetCursorCaptureOutput struct {
	Enabled bool           `json:"enabled"`
	Region  capture.Region `json:"region"`
}
