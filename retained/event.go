package retained

import (
	"fmt"

	"gioui.org/f32"
)

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of input event.
type EventType uint8

const (
	EventPointerDown EventType = iota + 1
	EventPointerUp
	EventPointerMove
	EventCharInput
)

var eventTypeNames = []string{"", "pointer_down", "pointer_up", "pointer_move", "char"}

func (t EventType) String() string { return enumName(eventTypeNames, int(t)) }

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// InputEvent is a pointer or character event waiting to be routed.
type InputEvent struct {
	Type     EventType
	Position f32.Point // canvas pixels, pointer events only
	Rune     rune      // EventCharInput only
}

func (e InputEvent) String() string {
	if e.Type == EventCharInput {
		return fmt.Sprintf("%v %q", e.Type, e.Rune)
	}
	return fmt.Sprintf("%v (%g,%g)", e.Type, e.Position.X, e.Position.Y)
}

// PointerDownEvent returns a pointer-down event at (x, y).
func PointerDownEvent(x, y float32) InputEvent {
	return InputEvent{Type: EventPointerDown, Position: f32.Pt(x, y)}
}

// PointerUpEvent returns a pointer-up event at (x, y).
func PointerUpEvent(x, y float32) InputEvent {
	return InputEvent{Type: EventPointerUp, Position: f32.Pt(x, y)}
}

// PointerMoveEvent returns a pointer-move event at (x, y).
func PointerMoveEvent(x, y float32) InputEvent {
	return InputEvent{Type: EventPointerMove, Position: f32.Pt(x, y)}
}

// CharEvent returns a character event.
func CharEvent(r rune) InputEvent {
	return InputEvent{Type: EventCharInput, Rune: r}
}

// ============================================================================
// Bounds
// ============================================================================

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	X, Y          float32 // top-left corner
	Width, Height float32
}

// Contains reports whether the point lies inside b, edges included.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// LocalPoint converts coordinates to coordinates relative to b.
func (b Bounds) LocalPoint(x, y float32) (localX, localY float32) {
	return x - b.X, y - b.Y
}
