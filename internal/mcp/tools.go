package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/snap"
)

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	zone, err := snap.ParseZone(args.Zone)
	if err != nil {
		return nil, SnapWindowOutput{}, err
	}
	result, err := s.daemon.Snap(zone)
	if err != nil {
		return nil, SnapWindowOutput{}, fmt.Errorf("snap %s: %w", zone, err)
	}
	return nil, SnapWindowOutput{
		Zone:      result.Zone,
		Window:    result.Window,
		Target:    result.Target,
		Alternate: result.Alternate,
	}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleSetWindowSnapping(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowSnappingInput) (*mcpsdk.CallToolResult, SetWindowSnappingOutput, error) {
	if err := s.daemon.SetSnapping(args.Enabled); err != nil {
		return nil, SetWindowSnappingOutput{}, err
	}
	out := SetWindowSnappingOutput{Enabled: args.Enabled}
	if status, err := s.daemon.GetStatus(); err == nil {
		out.Enabled = status.WindowSnapping
		out.InertZones = status.InertZones
	}
	return nil, out, nil
}

func (s *Server) handleSetCursorCapture(_ context.Context, _ *mcpsdk.CallToolRequest, args SetCursorCaptureInput) (*mcpsdk.CallToolResult, SetCursorCaptureOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, SetCursorCaptureOutput{}, err
	}
	out := SetCursorCaptureOutput{
		Enabled: status.CaptureEnabled,
		Region:  status.CaptureRegion,
	}

	if args.touchesRegion() {
		region := status.CaptureRegion
		if args.X != nil {
			region.X = *args.X
		}
		if args.Y != nil {
			region.Y = *args.Y
		}
		if args.Width != nil {
			region.Width = *args.Width
		}
		if args.Height != nil {
			region.Height = *args.Height
		}
		applied, err := s.daemon.SetCaptureRegion(region)
		if err != nil {
			return nil, SetCursorCaptureOutput{}, err
		}
		out.Region = applied
	}

	if args.Enabled != nil {
		if err := s.daemon.SetCapture(*args.Enabled); err != nil {
			return nil, SetCursorCaptureOutput{}, err
		}
		out.Enabled = *args.Enabled
	}
	return nil, out, nil
}
