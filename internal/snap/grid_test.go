package snap

import (
	"testing"

	"github.com/fjtughy/winscroll/internal/platform"
)

func TestLocateDisplay(t *testing.T) {
	left := platform.Display{ID: 0, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	right := platform.Display{ID: 1, Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}, Primary: true}
	displays := []platform.Display{left, right}

	tests := []struct {
		name  string
		point platform.Point
		want  int
	}{
		{"inside left", platform.Point{X: 10, Y: 10}, 0},
		{"left edge of right", platform.Point{X: 1920, Y: 0}, 1},
		{"outside falls back to primary", platform.Point{X: -50, Y: 5000}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateDisplay(displays, tt.point)
			if got.ID != tt.want {
				t.Errorf("LocateDisplay(%v) = display %d, want %d", tt.point, got.ID, tt.want)
			}
		})
	}
}

func TestLocateDisplay_NoPrimaryUsesFirst(t *testing.T) {
	displays := []platform.Display{
		{ID: 3, Bounds: platform.Rect{Width: 100, Height: 100}},
		{ID: 4, Bounds: platform.Rect{X: 100, Width: 100, Height: 100}},
	}
	if got := LocateDisplay(displays, platform.Point{X: 999, Y: 999}); got.ID != 3 {
		t.Fatalf("expected first display, got %d", got.ID)
	}
	if got := LocateDisplay(nil, platform.Point{}); got != (platform.Display{}) {
		t.Fatalf("expected zero display for empty input, got %+v", got)
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in   string
		want Zone
	}{
		{"full_left", FullLeft},
		{"UPPER_RIGHT", UpperRight},
		{"down", LowerRight},
		{" full-right ", FullRight},
	}
	for _, tt := range tests {
		got, err := ParseZone(tt.in)
		if err != nil {
			t.Errorf("ParseZone(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseZone(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseZone("middle"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestZoneHotkeyIDsStableAndDistinct(t *testing.T) {
	seen := make(map[platform.HotkeyID]Zone)
	for _, z := range Zones {
		id := z.HotkeyID()
		if prev, ok := seen[id]; ok {
			t.Fatalf("zones %s and %s share hotkey id %d", prev, z, id)
		}
		seen[id] = z
		back, ok := ZoneForHotkey(id)
		if !ok || back != z {
			t.Fatalf("ZoneForHotkey(%d) = %v, %v; want %s", id, back, ok, z)
		}
	}
	if FullLeft.HotkeyID() != 1 || FullRight.HotkeyID() != 4 {
		t.Fatalf("unexpected hotkey id assignment")
	}
}
