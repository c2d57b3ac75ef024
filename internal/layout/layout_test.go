package layout

import (
	"math"
	"testing"
)

var stock = Baseline{XMin: 140, XMax: 950, Y: 200}

func TestMarkerPosition(t *testing.T) {
	p := Params{Padding: 30, NegativeBias: -40}
	tests := []struct {
		name   string
		index  int
		offset float64
		want   Point
	}{
		{name: "first below", index: 0, offset: 50, want: Point{X: 170, Y: 250}},
		{name: "second above gets bias", index: 1, offset: -100, want: Point{X: 240, Y: 60}},
		{name: "zero offset sits on baseline", index: 2, offset: 0, want: Point{X: 310, Y: 200}},
		{name: "far index", index: 9, offset: -50, want: Point{X: 800, Y: 110}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkerPosition(tt.index, tt.offset, 70, stock, p)
			if got != tt.want {
				t.Errorf("MarkerPosition(%d, %v) = %+v, want %+v", tt.index, tt.offset, got, tt.want)
			}
		})
	}
}

func TestMarkerPositionCustomBias(t *testing.T) {
	got := MarkerPosition(0, -10, 70, stock, Params{Padding: 0, NegativeBias: 0})
	if got != (Point{X: 140, Y: 190}) {
		t.Errorf("got %+v", got)
	}
}

func TestChevrons(t *testing.T) {
	pts := Chevrons(40, stock, 30)
	if len(pts) != 40 {
		t.Fatalf("len = %d, want 40", len(pts))
	}
	if pts[0].X != 170 {
		t.Errorf("first x = %v, want 170", pts[0].X)
	}
	if pts[39].X != 950 {
		t.Errorf("last x = %v, want 950", pts[39].X)
	}
	step := pts[1].X - pts[0].X
	for i, p := range pts {
		if p.Y != 200 {
			t.Errorf("point %d y = %v, want 200", i, p.Y)
		}
		if i > 0 && math.Abs(p.X-pts[i-1].X-step) > 1e-9 {
			t.Errorf("uneven spacing at %d", i)
		}
	}

	again := Chevrons(40, stock, 30)
	for i := range pts {
		if pts[i] != again[i] {
			t.Fatalf("Chevrons is not deterministic at %d", i)
		}
	}
}

func TestChevronsDegenerate(t *testing.T) {
	if got := Chevrons(0, stock, 30); got != nil {
		t.Errorf("Chevrons(0) = %v", got)
	}
	if got := Chevrons(-3, stock, 30); got != nil {
		t.Errorf("Chevrons(-3) = %v", got)
	}
	got := Chevrons(1, stock, 30)
	if len(got) != 1 || got[0] != (Point{X: 170, Y: 200}) {
		t.Errorf("Chevrons(1) = %v", got)
	}
}

func TestChevronMarkerPath(t *testing.T) {
	want := "M -6 -4 h 3 L 0 0 -3 4 h -3 L -3 0 z"
	if got := ChevronMarkerPath(3, 8); got != want {
		t.Errorf("ChevronMarkerPath(3, 8) = %q, want %q", got, want)
	}
}

func TestRectUnion(t *testing.T) {
	r := Rect{}.Union(Rect{X: 10, Y: 10, Width: 5, Height: 5})
	r = r.Union(Rect{X: 0, Y: 20, Width: 2, Height: 10})
	want := Rect{X: 0, Y: 10, Width: 15, Height: 20}
	if r != want {
		t.Errorf("Union = %+v, want %+v", r, want)
	}
}

func TestFit(t *testing.T) {
	content := Rect{X: 20, Y: 60, Width: 960, Height: 300}
	vp := Size{Width: 1000, Height: 800}
	tr := Fit(content, vp, Padding{Horizontal: 20, Vertical: 40}, 200)

	if tr.Scale != 1 {
		t.Errorf("scale = %v, want 1", tr.Scale)
	}
	base := tr.Apply(Point{X: 0, Y: 200})
	if base.Y != 400 {
		t.Errorf("baseline maps to y=%v, want 400", base.Y)
	}
	left := tr.Apply(Point{X: content.X})
	if left.X != 20 {
		t.Errorf("content left edge maps to x=%v, want 20", left.X)
	}

	vb := tr.ViewBox(vp)
	if vb.Width != 1000 || vb.Height != 800 {
		t.Errorf("viewBox size = %vx%v", vb.Width, vb.Height)
	}
	if vb.Y != -200 {
		t.Errorf("viewBox y = %v, want -200", vb.Y)
	}
}

func TestFitEmptyContent(t *testing.T) {
	tr := Fit(Rect{}, Size{Width: 100, Height: 100}, Padding{}, 200)
	if tr.Scale != 1 {
		t.Errorf("scale = %v, want 1", tr.Scale)
	}
}
