package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/snap"
)

type fakeDaemon struct {
	status   ipc.StatusData
	snapped  []snap.Zone
	snapErr  error
	regionIn []capture.Region
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	st := f.status
	return &st, nil
}

func (f *fakeDaemon) Snap(zone snap.Zone) (*ipc.SnapData, error) {
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	f.snapped = append(f.snapped, zone)
	return &ipc.SnapData{
		Zone:      zone.String(),
		Window:    0x1a00007,
		Target:    ipc.RectData{X: 960, Y: 0, Width: 960, Height: 675},
		Alternate: true,
	}, nil
}

func (f *fakeDaemon) SetSnapping(enabled bool) error {
	f.status.WindowSnapping = enabled
	return nil
}

func (f *fakeDaemon) SetCapture(enabled bool) error {
	f.status.CaptureEnabled = enabled
	return nil
}

func (f *fakeDaemon) SetCaptureRegion(r capture.Region) (capture.Region, error) {
	f.regionIn = append(f.regionIn, r)
	f.status.CaptureRegion = r.Normalize()
	return f.status.CaptureRegion, nil
}

func TestHandleSnapWindow(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	_, out, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: "upper_right"})
	if err != nil {
		t.Fatalf("snap_window: %v", err)
	}
	if out.Zone != "upper_right" || !out.Alternate || out.Target.Width != 960 {
		t.Fatalf("unexpected output %+v", out)
	}
	if len(d.snapped) != 1 || d.snapped[0] != snap.UpperRight {
		t.Fatalf("expected upper_right snap, got %v", d.snapped)
	}
}

func TestHandleSnapWindow_BadZone(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	_, _, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: "center"})
	if err == nil || !strings.Contains(err.Error(), "unknown zone") {
		t.Fatalf("expected unknown zone error, got %v", err)
	}
}

func TestHandleSnapWindow_DaemonError(t *testing.T) {
	s := NewServer(&fakeDaemon{snapErr: errors.New("failed to connect to daemon")})
	_, _, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: "left"})
	if err == nil || !strings.Contains(err.Error(), "full_left") {
		t.Fatalf("expected wrapped error naming the zone, got %v", err)
	}
}

func TestHandleSetWindowSnapping_ReportsInertZones(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{InertZones: []string{"lower_right"}}}
	s := NewServer(d)

	_, out, err := s.handleSetWindowSnapping(context.Background(), nil, SetWindowSnappingInput{Enabled: true})
	if err != nil {
		t.Fatalf("set_window_snapping: %v", err)
	}
	if !out.Enabled || len(out.InertZones) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestHandleSetCursorCapture_PartialRegion(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{
		CaptureRegion: capture.Region{X: 0, Y: 0, Width: 1920, Height: 1080},
	}}
	s := NewServer(d)

	x := 2000
	on := true
	_, out, err := s.handleSetCursorCapture(context.Background(), nil, SetCursorCaptureInput{X: &x, Enabled: &on})
	if err != nil {
		t.Fatalf("set_cursor_capture: %v", err)
	}
	if !out.Enabled || !d.status.CaptureEnabled {
		t.Fatalf("expected capture enabled")
	}
	want := capture.Region{X: 2000, Y: 0, Width: 2001, Height: 1080}
	if out.Region != want {
		t.Fatalf("region = %+v, want %+v", out.Region, want)
	}
	if len(d.regionIn) != 1 || d.regionIn[0].Height != 1080 {
		t.Fatalf("expected untouched fields to carry over, got %+v", d.regionIn)
	}
}

func TestHandleSetCursorCapture_NoArgsIsQuery(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{CaptureEnabled: true}}
	s := NewServer(d)

	_, out, err := s.handleSetCursorCapture(context.Background(), nil, SetCursorCaptureInput{})
	if err != nil {
		t.Fatalf("set_cursor_capture: %v", err)
	}
	if !out.Enabled || len(d.regionIn) != 0 {
		t.Fatalf("expected a pure query, got %+v / %v", out, d.regionIn)
	}
}
