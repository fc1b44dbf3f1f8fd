// Package glyph turns strings into positioned, textured glyph quads.
//
// An Atlas rasterises a font face into a single alpha texture and lays out
// text against it. A Pool loads atlases on demand, keyed by font name and
// pixel size, and keeps the most recently used ones alive.
//
// Coordinates are y-down with the first baseline at y=0, so glyphs sit above
// the baseline at negative y. Box.FlipY mirrors the output for y-up targets.
package glyph

import (
	"errors"

	"gioui.org/f32"
)

// ErrUnknownFont is returned when a font name has not been registered.
var ErrUnknownFont = errors.New("glyph: unknown font")

// Box constrains a layout.
type Box struct {
	Width, Height float32

	// FixedWidth and FixedHeight keep the reported size at Width/Height
	// instead of shrinking it to the text extent.
	FixedWidth  bool
	FixedHeight bool

	// Multiline honours '\n' and wraps at Width when FixedWidth is set.
	Multiline bool

	FlipY bool
}

// Quad is one glyph: a position rectangle and its atlas texture rectangle.
// Vertex (X0,Y0) samples (U0,V0) and vertex (X1,Y1) samples (U1,V1).
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// Layout is the result of laying out a string.
type Layout struct {
	Quads []Quad

	// CharPositions holds the pen position of every rune of the input,
	// in input order.
	CharPositions []f32.Point

	Width, Height float32
	Lines         int
}
