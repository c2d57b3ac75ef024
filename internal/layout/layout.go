// Package layout holds the geometry of the timeline: where markers start out,
// where the chevron vertices sit along the baseline and how the whole scene is
// scaled into a viewport.
package layout

import (
	"fmt"
	"math"
	"strconv"
)

// Point is a position in scene coordinates. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Union returns the smallest rectangle covering both r and o. An empty r
// (zero size at the origin) is treated as unset.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Baseline is the fixed horizontal line markers hang off.
type Baseline struct {
	XMin float64
	XMax float64
	Y    float64
}

// Params carries the constants used when seeding marker positions.
type Params struct {
	// Padding is the horizontal gap between XMin and the first marker.
	Padding float64
	// NegativeBias is added to y for markers above the baseline so their
	// label block clears the line. -40 in the stock layout.
	NegativeBias float64
}

// MarkerPosition seeds the top-left corner of the marker at index.
func MarkerPosition(index int, verticalOffset, spacing float64, b Baseline, p Params) Point {
	x := b.XMin + p.Padding + float64(index)*spacing
	y := b.Y + verticalOffset
	if verticalOffset < 0 {
		y += p.NegativeBias
	}
	return Point{X: x, Y: y}
}

// Chevrons returns count evenly spaced vertices from XMin+padding to XMax on the
// baseline.
func Chevrons(count int, b Baseline, padding float64) []Point {
	if count <= 0 {
		return nil
	}
	start := b.XMin + padding
	pts := make([]Point, count)
	if count == 1 {
		pts[0] = Point{X: start, Y: b.Y}
		return pts
	}
	step := (b.XMax - start) / float64(count-1)
	for i := range pts {
		pts[i] = Point{X: start + float64(i)*step, Y: b.Y}
	}
	pts[count-1].X = b.XMax
	return pts
}

// ChevronMarkerPath is the SVG path drawn at each chevron vertex, pointing
// along +x and centred on the vertex.
func ChevronMarkerPath(width, height float64) string {
	w := num(width)
	return fmt.Sprintf("M -%s -%s h %s L 0 0 -%s %s h -%s L -%s 0 z",
		num(2*width), num(height/2), w, w, num(height/2), w, w)
}

// Padding is the space kept free around fitted content.
type Padding struct {
	Horizontal float64
	Vertical   float64
}

// Transform maps scene coordinates to viewport coordinates:
// viewport = scene*Scale + (TX, TY).
type Transform struct {
	Scale  float64
	TX, TY float64
}

// Apply maps a scene point into the viewport.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.Scale + t.TX, Y: p.Y*t.Scale + t.TY}
}

// ViewBox returns the scene rectangle visible through a viewport of size vp.
func (t Transform) ViewBox(vp Size) Rect {
	if t.Scale == 0 {
		return Rect{Width: vp.Width, Height: vp.Height}
	}
	return Rect{
		X:      -t.TX / t.Scale,
		Y:      -t.TY / t.Scale,
		Width:  vp.Width / t.Scale,
		Height: vp.Height / t.Scale,
	}
}

// Fit scales content uniformly into the padded viewport, centres it
// horizontally and puts the baseline at half the viewport height.
func Fit(content Rect, vp Size, pad Padding, baselineY float64) Transform {
	availW := vp.Width - 2*pad.Horizontal
	availH := vp.Height - 2*pad.Vertical
	if content.Width <= 0 || content.Height <= 0 || availW <= 0 || availH <= 0 {
		return Transform{Scale: 1, TY: vp.Height/2 - baselineY}
	}

	s := math.Min(availW/content.Width, availH/content.Height)
	tx := pad.Horizontal + (availW-content.Width*s)/2 - content.X*s
	ty := vp.Height/2 - baselineY*s
	return Transform{Scale: s, TX: tx, TY: ty}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
