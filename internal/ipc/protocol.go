package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/snap"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandSnap             CommandType = "SNAP"
	CommandSetSnapping      CommandType = "SET_SNAPPING"
	CommandSetCapture       CommandType = "SET_CAPTURE"
	CommandSetCaptureRegion CommandType = "SET_CAPTURE_REGION"
	CommandShow             CommandType = "SHOW"
	CommandReload           CommandType = "RELOAD"
	CommandQuit             CommandType = "QUIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RectData is a rectangle on the wire.
type RectData struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func RectDataFrom(r platform.Rect) RectData {
	return RectData{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (r RectData) Rect() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// CursorData is the pointer position and the display under it.
type CursorData struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Display string `json:"display,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning  bool                `json:"daemon_running"`
	UptimeSeconds  int64               `json:"uptime_seconds"`
	WindowSnapping bool                `json:"window_snapping"`
	HotkeyState    string              `json:"hotkey_state"`
	InertZones     []string            `json:"inert_zones,omitempty"`
	CaptureEnabled bool                `json:"capture_enabled"`
	CaptureRegion  capture.Region      `json:"capture_region"`
	HideTrayIcon   bool                `json:"hide_tray_icon"`
	PinHostWindow  bool                `json:"pin_host_window"`
	HostWindow     uint64              `json:"host_window,omitempty"`
	Grid           snap.Grid           `json:"grid"`
	Cursor         *CursorData         `json:"cursor,omitempty"`
	LastApplied    map[string]RectData `json:"last_applied,omitempty"`
	ConfigPath     string              `json:"config_path,omitempty"`
}

// SnapPayload is the payload for SNAP.
type SnapPayload struct {
	Zone string `json:"zone"`
}

// SnapData describes the outcome of a SNAP.
type SnapData struct {
	Zone      string   `json:"zone"`
	Window    uint64   `json:"window"`
	Target    RectData `json:"target"`
	Alternate bool     `json:"alternate"`
}

// TogglePayload is the payload for SET_SNAPPING and SET_CAPTURE.
type TogglePayload struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
