package snap

import (
	"testing"

	"github.com/fjtughy/winscroll/internal/platform"
)

var fullHD = platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func resolve(t *testing.T, zone Zone, wa platform.Rect, current *platform.Rect) platform.Rect {
	t.Helper()
	req := Request{
		Zone:     zone,
		WorkArea: wa,
		Grid:     DefaultGrid(),
		Spans:    DefaultSpans(),
	}
	if current != nil {
		req.Current = *current
		req.HaveCurrent = true
	}
	got, err := Resolve(req)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", zone, err)
	}
	return got
}

func TestCellSize_FullHD(t *testing.T) {
	cell, err := CellSize(fullHD, DefaultGrid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cell.Width != 160 || cell.Height != 135 {
		t.Fatalf("expected 160x135, got %dx%d", cell.Width, cell.Height)
	}
}

func TestCellSize_RejectsEmptyGrid(t *testing.T) {
	if _, err := CellSize(fullHD, Grid{Columns: 0, Rows: 8}); err == nil {
		t.Fatalf("expected error for zero columns")
	}
	if _, err := CellSize(fullHD, Grid{Columns: 12, Rows: 0}); err == nil {
		t.Fatalf("expected error for zero rows")
	}
}

func TestResolve_FullRight(t *testing.T) {
	got := resolve(t, FullRight, fullHD, nil)
	want := platform.Rect{X: 1440, Y: 0, Width: 480, Height: 1080}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_FullLeftAbsorbsRemainder(t *testing.T) {
	wa := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1050}
	got := resolve(t, FullLeft, wa, nil)
	// row = 1050/8 = 131, remainder = 2
	want := platform.Rect{X: 0, Y: 0, Width: 1440, Height: 131*8 + 2}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Y+got.Height != wa.Y+wa.Height {
		t.Fatalf("expected bottom edge %d, got %d", wa.Y+wa.Height, got.Y+got.Height)
	}
}

func TestResolve_UpperRightCycles(t *testing.T) {
	primary := platform.Rect{X: 1440, Y: 0, Width: 480, Height: 675}
	alternate := platform.Rect{X: 960, Y: 0, Width: 960, Height: 675}
	unsnapped := platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	first := resolve(t, UpperRight, fullHD, &unsnapped)
	if first != primary {
		t.Fatalf("first activation: expected %v, got %v", primary, first)
	}
	second := resolve(t, UpperRight, fullHD, &first)
	if second != alternate {
		t.Fatalf("second activation: expected %v, got %v", alternate, second)
	}
	third := resolve(t, UpperRight, fullHD, &second)
	if third != primary {
		t.Fatalf("third activation: expected %v, got %v", primary, third)
	}
}

func TestResolve_LowerRightCyclesWithRemainder(t *testing.T) {
	wa := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1050}
	row := 1050 / 8
	rem := 1050 % 8
	primary := platform.Rect{X: 1440, Y: row * 5, Width: 480, Height: row*3 + rem}
	alternate := platform.Rect{X: 960, Y: row * 5, Width: 960, Height: row*3 + rem}

	first := resolve(t, LowerRight, wa, nil)
	if first != primary {
		t.Fatalf("first activation: expected %v, got %v", primary, first)
	}
	second := resolve(t, LowerRight, wa, &first)
	if second != alternate {
		t.Fatalf("second activation: expected %v, got %v", alternate, second)
	}
	if second.Y+second.Height != wa.Height {
		t.Fatalf("expected alternate to reach bottom edge, got %v", second)
	}
}

func TestResolve_LowerRightFullHD(t *testing.T) {
	got := resolve(t, LowerRight, fullHD, nil)
	want := platform.Rect{X: 1440, Y: 675, Width: 480, Height: 405}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_NearMissDoesNotToggle(t *testing.T) {
	// One pixel off on any edge snaps back to primary.
	primary := platform.Rect{X: 1440, Y: 0, Width: 480, Height: 675}
	offsets := []platform.Rect{
		{X: 1441, Y: 0, Width: 480, Height: 675},
		{X: 1440, Y: 1, Width: 480, Height: 675},
		{X: 1440, Y: 0, Width: 479, Height: 675},
		{X: 1440, Y: 0, Width: 480, Height: 676},
	}
	for _, current := range offsets {
		current := current
		if got := resolve(t, UpperRight, fullHD, &current); got != primary {
			t.Errorf("current %v: expected primary %v, got %v", current, primary, got)
		}
	}
}

func TestResolve_UnreadableWindowUsesPrimary(t *testing.T) {
	req := Request{
		Zone:     UpperRight,
		WorkArea: fullHD,
		Grid:     DefaultGrid(),
		Spans:    DefaultSpans(),
		// Matches the primary target but was never actually read.
		Current:     platform.Rect{X: 1440, Y: 0, Width: 480, Height: 675},
		HaveCurrent: false,
	}
	got, err := Resolve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.X != 1440 || got.Width != 480 {
		t.Fatalf("expected primary target, got %v", got)
	}
}

func TestResolve_NonToggleZonesIgnoreCurrent(t *testing.T) {
	primary := resolve(t, FullRight, fullHD, nil)
	again := resolve(t, FullRight, fullHD, &primary)
	if again != primary {
		t.Fatalf("expected FullRight to be idempotent, got %v then %v", primary, again)
	}
}

func TestResolve_OffsetMonitor(t *testing.T) {
	wa := platform.Rect{X: 1920, Y: 30, Width: 2560, Height: 1410}
	got := resolve(t, FullRight, wa, nil)
	col := 2560 / 12
	row := 1410 / 8
	want := platform.Rect{X: 1920 + col*9, Y: 30, Width: col * 3, Height: row * 8}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_UnknownZone(t *testing.T) {
	_, err := Resolve(Request{Zone: Zone(42), WorkArea: fullHD, Grid: DefaultGrid(), Spans: DefaultSpans()})
	if err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestSpansValidate(t *testing.T) {
	if err := DefaultSpans().Validate(); err != nil {
		t.Fatalf("expected default spans to validate, got %v", err)
	}
	bad := DefaultSpans()
	bad.RightWidth = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for zero right_width")
	}
}

func TestIsAlternate(t *testing.T) {
	req := Request{Zone: UpperRight, WorkArea: fullHD, Grid: DefaultGrid(), Spans: DefaultSpans()}
	if IsAlternate(req, platform.Rect{X: 1440, Y: 0, Width: 480, Height: 675}) {
		t.Fatalf("primary reported as alternate")
	}
	if !IsAlternate(req, platform.Rect{X: 960, Y: 0, Width: 960, Height: 675}) {
		t.Fatalf("alternate not detected")
	}
	req.Zone = FullLeft
	if IsAlternate(req, platform.Rect{}) {
		t.Fatalf("non-toggling zone reported as alternate")
	}
}
