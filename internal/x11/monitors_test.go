package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestBoxIntersect(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 1920, Height: 1080}

	got := a.Intersect(Box{X: 1800, Y: 1000, Width: 400, Height: 400})
	want := Box{X: 1800, Y: 1000, Width: 120, Height: 80}
	if got != want {
		t.Fatalf("Intersect = %+v, want %+v", got, want)
	}

	if got := a.Intersect(Box{X: 1920, Y: 0, Width: 100, Height: 100}); !got.empty() {
		t.Fatalf("expected touching boxes to be disjoint, got %+v", got)
	}
}

func TestShrinkByStruts_BottomPanelOnOneMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side; a 40px panel along the bottom of
	// the left one only.
	sp := &ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: 1919}
	struts := strutsFromPartial(sp, 3840, 1080)

	left := shrinkByStruts(Box{X: 0, Y: 0, Width: 1920, Height: 1080}, struts)
	if want := (Box{X: 0, Y: 0, Width: 1920, Height: 1040}); left != want {
		t.Fatalf("left work area = %+v, want %+v", left, want)
	}

	right := shrinkByStruts(Box{X: 1920, Y: 0, Width: 1920, Height: 1080}, struts)
	if want := (Box{X: 1920, Y: 0, Width: 1920, Height: 1080}); right != want {
		t.Fatalf("right work area = %+v, want %+v", right, want)
	}
}

func TestShrinkByStruts_TopAndLeft(t *testing.T) {
	struts := strutsFromPartial(&ewmh.WmStrutPartial{
		Top: 30, TopStartX: 0, TopEndX: 1919,
		Left: 64, LeftStartY: 0, LeftEndY: 1079,
	}, 1920, 1080)

	got := shrinkByStruts(Box{X: 0, Y: 0, Width: 1920, Height: 1080}, struts)
	want := Box{X: 64, Y: 30, Width: 1856, Height: 1050}
	if got != want {
		t.Fatalf("work area = %+v, want %+v", got, want)
	}
}
