package scene

import (
	"fmt"
	"math"

	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
)

// Drag is one interactive drag gesture. The clamp is built once from the
// marker's size when the gesture starts.
type Drag struct {
	scene  *Scene
	event  *marker.Event
	clamp  marker.ClampFunc
	origin layout.Point
	done   bool
}

// BeginDrag starts a drag gesture on the marker id.
func (s *Scene) BeginDrag(id string) (*Drag, error) {
	ev, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	d := &Drag{scene: s, event: ev, origin: ev.Position}
	if s.constraint != nil {
		d.clamp = s.constraint(ev)
	}
	return d, nil
}

// Event returns the marker being dragged.
func (d *Drag) Event() *marker.Event { return d.event }

// Move proposes a new top-left position. The proposal is snapped to the grid,
// clamped by the drag constraint and applied; the resulting position is
// returned.
func (d *Drag) Move(x, y float64) (layout.Point, error) {
	if d.done {
		return d.event.Position, ErrDragEnded
	}
	if g := d.scene.cfg.Timeline.GridSize; g > 0 {
		x = math.Round(x/g) * g
		y = math.Round(y/g) * g
	}
	if d.clamp != nil {
		x, y = d.clamp(x, y)
	}

	p := layout.Point{X: x, Y: y}
	if p != d.event.Position {
		d.event.Position = p
		d.scene.notify(d.event)
	}
	return p, nil
}

// MoveBy nudges the marker relative to its current position.
func (d *Drag) MoveBy(dx, dy float64) (layout.Point, error) {
	return d.Move(d.event.Position.X+dx, d.event.Position.Y+dy)
}

// End finishes the gesture, keeping the marker where it is.
func (d *Drag) End() {
	d.done = true
}

// Cancel finishes the gesture and puts the marker back where it started.
func (d *Drag) Cancel() {
	if d.done {
		return
	}
	d.done = true
	if d.event.Position != d.origin {
		d.event.Position = d.origin
		d.scene.notify(d.event)
	}
}
