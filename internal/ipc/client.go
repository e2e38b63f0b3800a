package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/runtimepath"
	"github.com/fjtughy/winscroll/internal/snap"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the standard socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload interface{}) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	req := Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Snap asks the daemon to snap the foreground window into zone.
func (c *Client) Snap(zone snap.Zone) (*SnapData, error) {
	resp, err := c.sendRequest(CommandSnap, SnapPayload{Zone: zone.String()})
	if err != nil {
		return nil, err
	}

	var data SnapData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse snap data: %w", err)
	}
	return &data, nil
}

// SetSnapping turns the global hotkeys on or off.
func (c *Client) SetSnapping(enabled bool) error {
	_, err := c.sendRequest(CommandSetSnapping, TogglePayload{Enabled: enabled})
	return err
}

// SetCapture turns cursor capture on or off.
func (c *Client) SetCapture(enabled bool) error {
	_, err := c.sendRequest(CommandSetCapture, TogglePayload{Enabled: enabled})
	return err
}

// SetCaptureRegion replaces the capture region and returns it after
// auto-correction.
func (c *Client) SetCaptureRegion(r capture.Region) (capture.Region, error) {
	resp, err := c.sendRequest(CommandSetCaptureRegion, r)
	if err != nil {
		return capture.Region{}, err
	}

	var applied capture.Region
	if err := json.Unmarshal(resp.Data, &applied); err != nil {
		return capture.Region{}, fmt.Errorf("failed to parse capture region: %w", err)
	}
	return applied, nil
}

// Show asks the daemon to restore and raise its host window.
func (c *Client) Show() error {
	_, err := c.sendRequest(CommandShow, nil)
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(CommandReload, nil)
	return err
}

// Quit asks the daemon to shut down.
func (c *Client) Quit() error {
	_, err := c.sendRequest(CommandQuit, nil)
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
