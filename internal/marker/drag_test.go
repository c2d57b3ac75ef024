package marker

import (
	"testing"

	"github.com/dBitech/milestones/internal/layout"
)

func TestClampPosition(t *testing.T) {
	b := layout.Baseline{XMin: 140, XMax: 950, Y: 200}
	clamp := ClampPosition(layout.Size{Width: 20, Height: 20}, b, 20)

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{name: "clear of the upper dead zone", x: 500, y: 150, wantX: 500, wantY: 150},
		{name: "into the upper dead zone", x: 500, y: 170, wantX: 500, wantY: 160},
		{name: "free above", x: 500, y: 40, wantX: 500, wantY: 40},
		{name: "into the lower dead zone", x: 500, y: 205, wantX: 500, wantY: 220},
		{name: "free below", x: 500, y: 300, wantX: 500, wantY: 300},
		{name: "on the baseline snaps above", x: 500, y: 200, wantX: 500, wantY: 160},
		{name: "left of the timeline", x: 10, y: 40, wantX: 140, wantY: 40},
		{name: "right of the timeline", x: 990, y: 300, wantX: 930, wantY: 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := clamp(tt.x, tt.y)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("clamp(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClampPositionNeverInCorridorDeadZone(t *testing.T) {
	b := layout.Baseline{XMin: 140, XMax: 950, Y: 200}
	size := layout.Size{Width: 30, Height: 24}
	margin := 15.0
	clamp := ClampPosition(size, b, margin)

	for x := 0.0; x <= 1100; x += 37 {
		for y := -100.0; y <= 500; y += 7 {
			cx, cy := clamp(x, y)
			if cx < b.XMin || cx > b.XMax-size.Width {
				t.Fatalf("clamp(%v, %v) x = %v outside [%v, %v]", x, y, cx, b.XMin, b.XMax-size.Width)
			}
			top, bottom := cy, cy+size.Height
			if bottom > b.Y-margin && top < b.Y+margin {
				t.Fatalf("clamp(%v, %v) y = %v overlaps the dead zone", x, y, cy)
			}
		}
	}
}
