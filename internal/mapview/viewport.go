package mapview

import (
	"errors"
	"fmt"
)

// ErrUnknownGesture is returned for gesture types other than down, move, up,
// select and reset.
var ErrUnknownGesture = errors.New("mapview: unknown gesture")

// Viewport is the pan/drag/popup state of one visitor's map.
type Viewport struct {
	Offset   Point  `json:"offset"`
	Selected string `json:"selected,omitempty"`

	Pressed bool  `json:"pressed,omitempty"`
	Moved   bool  `json:"moved,omitempty"`
	Last    Point `json:"last,omitempty"`
}

// PointerDown starts a potential drag at (x, y).
func (v *Viewport) PointerDown(x, y float64) {
	v.Pressed = true
	v.Moved = false
	v.Last = Point{X: x, Y: y}
}

// PointerMove pans by the delta since the last pointer position while pressed.
func (v *Viewport) PointerMove(x, y float64) {
	if !v.Pressed {
		return
	}
	dx, dy := x-v.Last.X, y-v.Last.Y
	if dx != 0 || dy != 0 {
		v.Moved = true
	}
	v.Offset.X += dx
	v.Offset.Y += dy
	v.Last = Point{X: x, Y: y}
}

// PointerUp ends the gesture.
func (v *Viewport) PointerUp() {
	v.Pressed = false
	v.Moved = false
}

// Dragging reports whether the pointer is held and has moved.
func (v *Viewport) Dragging() bool {
	return v.Pressed && v.Moved
}

// Select toggles the popup for a marker. It reports false when suppressed
// because a drag is in progress.
func (v *Viewport) Select(id string) bool {
	if v.Dragging() {
		return false
	}
	if v.Selected == id {
		v.Selected = ""
	} else {
		v.Selected = id
	}
	return true
}

// Reset recenters the map and closes any popup.
func (v *Viewport) Reset() {
	*v = Viewport{}
}

// Gesture is one pointer or selection event sent by the client.
type Gesture struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	ID   string  `json:"id,omitempty"`
}

// Apply replays gestures in order. It stops at the first unknown type.
func (v *Viewport) Apply(gestures []Gesture) error {
	for i, g := range gestures {
		switch g.Type {
		case "down":
			v.PointerDown(g.X, g.Y)
		case "move":
			v.PointerMove(g.X, g.Y)
		case "up":
			v.PointerUp()
		case "select":
			v.Select(g.ID)
		case "reset":
			v.Reset()
		default:
			return fmt.Errorf("%w %q at index %d", ErrUnknownGesture, g.Type, i)
		}
	}
	return nil
}
