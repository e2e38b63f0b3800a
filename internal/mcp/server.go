package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/snap"
)

const (
	ServerName    = "winscroll"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Snap(zone snap.Zone) (*ipc.SnapData, error)
	SetSnapping(enabled bool) error
	SetCapture(enabled bool) error
	SetCaptureRegion(r capture.Region) (capture.Region, error)
}

// Server exposes the running daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap the foreground window into a screen zone on the monitor under the mouse cursor. Zones follow a 12x8 grid: full_left is 9 columns wide, the right-hand zones are 3 columns wide. Requires the winscroll daemon.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether hotkey snapping and cursor capture are on, the capture region, the cursor position and any zones whose hotkey is held by another program.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_snapping",
		Description: "Turn the Ctrl+Alt+Arrow snapping hotkeys on or off. The setting is saved.",
	}, s.handleSetWindowSnapping)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_cursor_capture",
		Description: "Confine the mouse cursor to a screen region, change that region, or release the cursor.",
	}, s.handleSetCursorCapture)
}
