package marker

import (
	"math"

	"github.com/dBitech/milestones/internal/layout"
)

// ClampFunc constrains a proposed top-left position during one drag gesture.
type ClampFunc func(x, y float64) (float64, float64)

// ClampPosition builds the clamp for a marker of the given size. Markers stay
// within [XMin, XMax] horizontally and in one of two bands either side of the
// baseline, separated by a dead zone 2*margin wide.
func ClampPosition(bbox layout.Size, b layout.Baseline, margin float64) ClampFunc {
	xMin := b.XMin
	xMax := b.XMax - bbox.Width
	yAbove := b.Y - bbox.Height - margin
	yBelow := b.Y + margin

	return func(x, y float64) (float64, float64) {
		x = math.Max(xMin, math.Min(xMax, x))
		if y > b.Y {
			return x, math.Max(yBelow, y)
		}
		return x, math.Min(yAbove, y)
	}
}
