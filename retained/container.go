package retained

import (
	"maps"
	"math"

	"github.com/agiangrant/anchorui/internal/log"
	"github.com/agiangrant/anchorui/scene"
)

// ContainerBox is the slot of one child in a Container. Rect is relative to
// the container.
type ContainerBox struct {
	Layout scene.Entity
	Rect   Bounds
	Expand bool
}

// Container arranges its visible children in a row (ContainerHorizontal), a
// column (ContainerVertical) or wrapping rows (ContainerFloat). A container
// with no explicit size takes the size of its content.
//
// Boxes are rebuilt every frame in child order. The aggregate fields
// describe the last frame.
type Container struct {
	Type  ContainerType
	Boxes []ContainerBox

	FixedWidth   float32 // sum of non-expanding widths
	FixedHeight  float32 // sum of non-expanding heights
	MaxWidth     float32
	MaxHeight    float32
	NumBoxExpand int

	expand map[scene.Entity]bool
}

// NewContainer returns an empty container of the given type.
func NewContainer(typ ContainerType) Container {
	return Container{Type: typ}
}

// setExpand records whether child takes a share of the free space.
func (c *Container) setExpand(child scene.Entity, expand bool) {
	if c.expand == nil {
		c.expand = make(map[scene.Entity]bool)
	}
	if expand {
		c.expand[child] = true
	} else {
		delete(c.expand, child)
	}
}

// pruneExpand forgets the children for which keep returns false.
func (c *Container) pruneExpand(keep func(scene.Entity) bool) {
	maps.DeleteFunc(c.expand, func(child scene.Entity, _ bool) bool {
		return !keep(child)
	})
}

func (c *Container) resetBoxes() {
	for i := range c.Boxes {
		c.Boxes[i] = ContainerBox{}
	}
	c.Boxes = c.Boxes[:0]
}

// addBox appends a slot for child and returns its index, or -1 when the
// container already holds max boxes.
func (c *Container) addBox(child scene.Entity, max int) int {
	if len(c.Boxes) >= max {
		return -1
	}
	c.Boxes = append(c.Boxes, ContainerBox{Layout: child, Expand: c.expand[child]})
	return len(c.Boxes) - 1
}

// ============================================================================
// Registration
// ============================================================================

// registerBox gives e a slot in its parent container, if it has one.
// Containers are visited before their children, so slots fill in child order.
func (s *System) registerBox(e scene.Entity, tr *scene.Transform, l *Layout) {
	if scene.FindComponent[Layout](s.scene, tr.Parent) == nil {
		return
	}
	pc := scene.FindComponent[Container](s.scene, tr.Parent)
	if pc == nil || !tr.Visible {
		return
	}

	idx := pc.addBox(e, s.config.MaxContainerBoxes)
	if idx < 0 {
		parent := tr.Parent
		s.scene.AddEntityChild(scene.NullEntity, e)
		log.L().Error("ui container is full, child detached",
			"entity", uint32(parent), "child", uint32(e), "max", s.config.MaxContainerBoxes)
		return
	}
	l.ContainerBoxIndex = idx
	if !l.UsingAnchors {
		l.SetAnchorPreset(AnchorTopLeft)
	}
}

// ============================================================================
// Aggregation
// ============================================================================

// aggregate sums the child boxes and, where the container has no size of
// its own, derives it from them.
func (c *Container) aggregate(l *Layout) {
	c.FixedWidth, c.FixedHeight = 0, 0
	c.MaxWidth, c.MaxHeight = 0, 0
	c.NumBoxExpand = 0

	var totalWidth, totalHeight float32
	for _, b := range c.Boxes {
		if b.Expand {
			c.NumBoxExpand++
		} else {
			c.FixedWidth += b.Rect.Width
			c.FixedHeight += b.Rect.Height
		}
		totalWidth += b.Rect.Width
		totalHeight += b.Rect.Height
		c.MaxWidth = max(c.MaxWidth, b.Rect.Width)
		c.MaxHeight = max(c.MaxHeight, b.Rect.Height)
	}

	width, height := totalWidth, c.MaxHeight
	if c.Type == ContainerVertical {
		width, height = c.MaxWidth, totalHeight
	}
	if l.Width <= 0 {
		l.Width = width
	}
	if l.Height <= 0 {
		l.Height = height
	}
}

// ============================================================================
// Placement
// ============================================================================

// place lays the boxes out inside a container of the size in l.
func (c *Container) place(l *Layout) {
	switch c.Type {
	case ContainerHorizontal:
		c.placeLine(l.Width, l.Height, false)
	case ContainerVertical:
		c.placeLine(l.Height, l.Width, true)
	case ContainerFloat:
		c.placeFloat(l.Width)
	}
}

// placeLine packs the boxes along one axis. length is the container extent
// on that axis and cross the extent across it.
//
// Expanding boxes split the free space evenly in whole pixels. Each one is
// sized against the running target share*k, so the fraction lost by
// rounding, and any space a box refused because its share was smaller than
// its own size, goes to the next expanding box and the last one ends on the
// container edge.
func (c *Container) placeLine(length, cross float32, vertical bool) {
	n := float32(len(c.Boxes))
	fixed := c.FixedWidth
	if vertical {
		fixed = c.FixedHeight
	}
	free := float64(length) - float64(fixed)

	var given float64 // space handed to expanding boxes so far
	var k int
	var next float32
	for i := range c.Boxes {
		b := &c.Boxes[i]
		start, size := &b.Rect.X, &b.Rect.Width
		if vertical {
			start, size = &b.Rect.Y, &b.Rect.Height
		}

		*start = next
		if *size >= length {
			*size = length / n
		}
		if b.Expand {
			k++
			target := free * float64(k) / float64(c.NumBoxExpand)
			grown := math.Floor(target - given)
			if grown >= float64(*size) {
				*size = float32(grown)
			}
			given += float64(*size)
		}
		next = *start + *size

		if vertical {
			b.Rect.X, b.Rect.Width = 0, cross
		} else {
			b.Rect.Y, b.Rect.Height = 0, cross
		}
	}
}

// placeFloat fills rows left to right and wraps to a new row when a box
// would cross the right edge. Rows are MaxHeight tall. Expanding boxes are
// widened so that a whole number of MaxWidth boxes fill a row.
func (c *Container) placeFloat(width float32) {
	for i := range c.Boxes {
		b := &c.Boxes[i]
		if i > 0 {
			prev := c.Boxes[i-1].Rect
			b.Rect.X = prev.X + prev.Width
			b.Rect.Y = prev.Y
		}
		if b.Expand && c.MaxWidth > 0 {
			perLine := float32(math.Floor(float64(width / c.MaxWidth)))
			if perLine > 0 {
				b.Rect.Width = c.MaxWidth + (width-perLine*c.MaxWidth)/perLine
			}
		}
		if i > 0 && b.Rect.X+b.Rect.Width > width {
			b.Rect.X = 0
			b.Rect.Y = c.Boxes[i-1].Rect.Y + c.MaxHeight
		}
		b.Rect.Height = c.MaxHeight
	}
}
