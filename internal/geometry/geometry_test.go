package geometry

import "testing"

func TestOutsideBoundaryIsNotOutside(t *testing.T) {
	e := NewEllipse(Position{500, 500}, Size{1000, 1000}, 0.15)
	// exactly on the boundary: nx=1, ny=0
	p := Position{uint16(500 + e.Tx), 500}
	if e.Outside(p, 1) {
		t.Fatalf("expected boundary point to not be outside")
	}
}

func TestOutsidePastBoundary(t *testing.T) {
	e := NewEllipse(Position{500, 500}, Size{1000, 1000}, 0.15)
	p := Position{500, 320} // 180 away, threshold is 150
	if !e.Outside(p, 1) {
		t.Fatalf("expected point to be outside ellipse")
	}
}

func TestSidePrefersVerticalOnTie(t *testing.T) {
	e := NewEllipse(Position{0, 0}, Size{1000, 1000}, 0.15)
	if got := e.Side(Position{0, 0}); got != Down {
		t.Fatalf("expected tie to resolve Down (dy=0 is not negative), got %v", got)
	}
}

func TestSideUpVsDown(t *testing.T) {
	e := NewEllipse(Position{500, 500}, Size{1000, 1000}, 0.15)
	if got := e.Side(Position{500, 100}); got != Up {
		t.Fatalf("expected Up, got %v", got)
	}
	if got := e.Side(Position{500, 900}); got != Down {
		t.Fatalf("expected Down, got %v", got)
	}
}

func TestSideLeftVsRight(t *testing.T) {
	e := NewEllipse(Position{500, 500}, Size{1000, 1000}, 0.15)
	if got := e.Side(Position{900, 500}); got != Right {
		t.Fatalf("expected Right, got %v", got)
	}
	if got := e.Side(Position{100, 500}); got != Left {
		t.Fatalf("expected Left, got %v", got)
	}
}

func TestAtEdgeExactThresholdIsOnEdge(t *testing.T) {
	size := Size{1000, 1000}
	opts := EdgeOptions{Threshold: 0.1, Sensitivity: 0.5}
	// exactly at 10% from the left border
	p := Position{100, 500}
	if got := AtEdge(p, size, opts); got != EdgeLeft {
		t.Fatalf("expected EdgeLeft at exact threshold, got %v", got)
	}
}

func TestAtEdgeCornerPrefersHorizontal(t *testing.T) {
	size := Size{1000, 1000}
	opts := EdgeOptions{Threshold: 0.1, Sensitivity: 0.5}
	p := Position{10, 10}
	if got := AtEdge(p, size, opts); got != EdgeLeft {
		t.Fatalf("expected corner to resolve to horizontal edge, got %v", got)
	}
}

func TestAtEdgeNone(t *testing.T) {
	size := Size{1000, 1000}
	opts := EdgeOptions{Threshold: 0.1, Sensitivity: 0.5}
	if got := AtEdge(Position{500, 500}, size, opts); got != NoEdge {
		t.Fatalf("expected NoEdge at center, got %v", got)
	}
}

func TestEllipseScale(t *testing.T) {
	if got := EllipseScale(true, 0.5); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := EllipseScale(false, 0.5); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestNormalizedDistance(t *testing.T) {
	size := Size{1000, 1000}
	d := NormalizedDistance(Position{700, 500}, Position{500, 500}, size, Right)
	if d < 0.19 || d > 0.21 {
		t.Fatalf("expected ~0.2, got %v", d)
	}
}
