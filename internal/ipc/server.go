package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/runtimepath"
	"github.com/fjtughy/winscroll/internal/snap"
)

// ErrAlreadyRunning is returned by Start when another daemon answers on the
// socket.
var ErrAlreadyRunning = errors.New("winscroll daemon is already running")

// Controller is the daemon surface the server exposes.
type Controller interface {
	Status() StatusData
	Snap(zone snap.Zone) (SnapData, error)
	SetSnapping(enabled bool) error
	SetCapture(enabled bool) error
	SetCaptureRegion(r capture.Region) (capture.Region, error)
	Show() error
	Reload() error
	Quit()
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the standard socket path.
func NewServer(ctrl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
	}
}

func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections. A stale socket left by a dead
// daemon is replaced; a live one yields ErrAlreadyRunning.
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond); err == nil {
		conn.Close()
		return ErrAlreadyRunning
	}
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one JSON-line request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", string(req.Command))

	switch req.Command {
	case CommandGetStatus:
		return okResponse(s.ctrl.Status())
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandSetSnapping:
		return s.handleToggle(req.Payload, s.ctrl.SetSnapping)
	case CommandSetCapture:
		return s.handleToggle(req.Payload, s.ctrl.SetCapture)
	case CommandSetCaptureRegion:
		return s.handleSetCaptureRegion(req.Payload)
	case CommandShow:
		return errorOr(s.ctrl.Show())
	case CommandReload:
		return errorOr(s.ctrl.Reload())
	case CommandQuit:
		s.ctrl.Quit()
		return okResponse(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var req SnapPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}
	zone, err := snap.ParseZone(req.Zone)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	result, err := s.ctrl.Snap(zone)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Snap failed: %v", err))
	}
	return okResponse(result)
}

func (s *Server) handleToggle(payload json.RawMessage, apply func(bool) error) *Response {
	var req TogglePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid toggle payload: %v", err))
	}
	return errorOr(apply(req.Enabled))
}

func (s *Server) handleSetCaptureRegion(payload json.RawMessage) *Response {
	var region capture.Region
	if err := json.Unmarshal(payload, &region); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid capture region payload: %v", err))
	}
	applied, err := s.ctrl.SetCaptureRegion(region)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(applied)
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func errorOr(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(nil)
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("failed to send IPC response", "error", err)
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
		os.Remove(s.socketPath)
	}
}
