package retained

import (
	"math"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/scene"
)

// ============================================================================
// Layout node
// ============================================================================

// Layout is the rectangle state of a UI node.
//
// With UsingAnchors the node's position and size are derived every frame
// from its anchors: each anchor point is a fraction of the parent box and
// each offset a pixel correction added to it. Without UsingAnchors the node
// is placed through its Transform and the anchors are back-computed from it.
type Layout struct {
	Width, Height float32

	AnchorPointLeft   float32
	AnchorPointTop    float32
	AnchorPointRight  float32
	AnchorPointBottom float32

	AnchorOffsetLeft   float32
	AnchorOffsetTop    float32
	AnchorOffsetRight  float32
	AnchorOffsetBottom float32

	UsingAnchors bool

	// AnchorPreset, when not AnchorNone, rewrites the anchors from Width and
	// Height every frame.
	AnchorPreset AnchorPreset

	IgnoreEvents  bool
	IgnoreScissor bool // inherited from the parent when set there

	// ContainerBoxIndex is the node's slot in its parent container, or -1.
	ContainerBoxIndex int

	NeedUpdateSizes bool
}

// NewLayout returns a layout that is not part of any container.
func NewLayout() Layout {
	return Layout{ContainerBoxIndex: -1}
}

// SetAnchorPreset switches the node to anchored mode with preset p.
func (l *Layout) SetAnchorPreset(p AnchorPreset) {
	l.AnchorPreset = p
	l.UsingAnchors = true
}

// SetSize sets the natural size of the node.
func (l *Layout) SetSize(width, height float32) {
	l.Width = width
	l.Height = height
	l.NeedUpdateSizes = true
}

// ============================================================================
// Anchor presets
// ============================================================================

// AnchorPreset is a named arrangement of the eight anchor fields.
type AnchorPreset uint8

const (
	AnchorNone AnchorPreset = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomRight
	AnchorBottomLeft
	AnchorCenterLeft
	AnchorCenterTop
	AnchorCenterRight
	AnchorCenterBottom
	AnchorCenter
	AnchorLeftWide
	AnchorTopWide
	AnchorRightWide
	AnchorBottomWide
	AnchorVerticalCenterWide
	AnchorHorizontalCenterWide
	AnchorFullLayout
)

var anchorPresetNames = []string{
	"none",
	"top_left", "top_right", "bottom_right", "bottom_left",
	"center_left", "center_top", "center_right", "center_bottom", "center",
	"left_wide", "top_wide", "right_wide", "bottom_wide",
	"vertical_center_wide", "horizontal_center_wide",
	"full_layout",
}

func (p AnchorPreset) String() string { return enumName(anchorPresetNames, int(p)) }

// MarshalText implements encoding.TextMarshaler.
func (p AnchorPreset) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *AnchorPreset) UnmarshalText(b []byte) error {
	i, err := parseEnum(anchorPresetNames, "anchor preset", b)
	*p = AnchorPreset(i)
	return err
}

// span is an anchor offset expressed in terms of the node size.
type span uint8

const (
	zero      span = iota
	plusW          // width
	minusW         // -width
	plusH          // height
	minusH         // -height
	halfWDown      // -floor(width/2)
	halfWUp        // ceil(width/2)
	halfHDown      // -floor(height/2)
	halfHUp        // ceil(height/2)
)

func (s span) eval(w, h float32) float32 {
	switch s {
	case plusW:
		return w
	case minusW:
		return -w
	case plusH:
		return h
	case minusH:
		return -h
	case halfWDown:
		return -float32(math.Floor(float64(w) / 2))
	case halfWUp:
		return float32(math.Ceil(float64(w) / 2))
	case halfHDown:
		return -float32(math.Floor(float64(h) / 2))
	case halfHUp:
		return float32(math.Ceil(float64(h) / 2))
	}
	return 0
}

// presetRule holds left, top, right and bottom anchor points and offsets.
type presetRule struct {
	points  [4]float32
	offsets [4]span
}

var presetRules = [...]presetRule{
	AnchorTopLeft:              {[4]float32{0, 0, 0, 0}, [4]span{zero, zero, plusW, plusH}},
	AnchorTopRight:             {[4]float32{1, 0, 1, 0}, [4]span{minusW, zero, zero, plusH}},
	AnchorBottomRight:          {[4]float32{1, 1, 1, 1}, [4]span{minusW, minusH, zero, zero}},
	AnchorBottomLeft:           {[4]float32{0, 1, 0, 1}, [4]span{zero, minusH, plusW, zero}},
	AnchorCenterLeft:           {[4]float32{0, 0.5, 0, 0.5}, [4]span{zero, halfHDown, plusW, halfHUp}},
	AnchorCenterTop:            {[4]float32{0.5, 0, 0.5, 0}, [4]span{halfWDown, zero, halfWUp, plusH}},
	AnchorCenterRight:          {[4]float32{1, 0.5, 1, 0.5}, [4]span{minusW, halfHDown, zero, halfHUp}},
	AnchorCenterBottom:         {[4]float32{0.5, 1, 0.5, 1}, [4]span{halfWDown, minusH, halfWUp, zero}},
	AnchorCenter:               {[4]float32{0.5, 0.5, 0.5, 0.5}, [4]span{halfWDown, halfHDown, halfWUp, halfHUp}},
	AnchorLeftWide:             {[4]float32{0, 0, 0, 1}, [4]span{zero, zero, plusW, zero}},
	AnchorTopWide:              {[4]float32{0, 0, 1, 0}, [4]span{zero, zero, zero, plusH}},
	AnchorRightWide:            {[4]float32{1, 0, 1, 1}, [4]span{minusW, zero, zero, zero}},
	AnchorBottomWide:           {[4]float32{0, 1, 1, 1}, [4]span{zero, minusH, zero, zero}},
	AnchorVerticalCenterWide:   {[4]float32{0.5, 0, 0.5, 1}, [4]span{halfWDown, zero, halfWUp, zero}},
	AnchorHorizontalCenterWide: {[4]float32{0, 0.5, 1, 0.5}, [4]span{zero, halfHDown, zero, halfHUp}},
	AnchorFullLayout:           {[4]float32{0, 0, 1, 1}, [4]span{zero, zero, zero, zero}},
}

// applyAnchorPreset rewrites the anchors of l from its preset and size.
func applyAnchorPreset(l *Layout) {
	if l.AnchorPreset == AnchorNone || int(l.AnchorPreset) >= len(presetRules) {
		return
	}
	r := presetRules[l.AnchorPreset]
	w, h := l.Width, l.Height
	l.AnchorPointLeft, l.AnchorPointTop = r.points[0], r.points[1]
	l.AnchorPointRight, l.AnchorPointBottom = r.points[2], r.points[3]
	l.AnchorOffsetLeft = r.offsets[0].eval(w, h)
	l.AnchorOffsetTop = r.offsets[1].eval(w, h)
	l.AnchorOffsetRight = r.offsets[2].eval(w, h)
	l.AnchorOffsetBottom = r.offsets[3].eval(w, h)
}

// clampAnchors keeps the anchor spans non-negative.
func clampAnchors(l *Layout) {
	if l.AnchorPointRight < l.AnchorPointLeft {
		l.AnchorPointRight = l.AnchorPointLeft
	}
	if l.AnchorPointBottom < l.AnchorPointTop {
		l.AnchorPointBottom = l.AnchorPointTop
	}
}

// ============================================================================
// Anchor resolution
// ============================================================================

// parentBox returns the rectangle a node anchors against, in its parent's
// local space. Roots anchor against the canvas.
func (s *System) parentBox(tr *scene.Transform, l *Layout) Bounds {
	if tr.Parent == scene.NullEntity {
		w, h := s.platform.CanvasSize()
		return Bounds{Width: w, Height: h}
	}
	pl := scene.FindComponent[Layout](s.scene, tr.Parent)
	if pl == nil {
		return Bounds{}
	}
	if pl.IgnoreScissor {
		l.IgnoreScissor = true
	}

	box := Bounds{Width: pl.Width, Height: pl.Height}
	if pc := scene.FindComponent[Container](s.scene, tr.Parent); pc != nil {
		if l.ContainerBoxIndex >= 0 && l.ContainerBoxIndex < len(pc.Boxes) {
			box = pc.Boxes[l.ContainerBoxIndex].Rect
		}
	}
	if img := scene.FindComponent[Image](s.scene, tr.Parent); img != nil && !l.IgnoreScissor {
		box.X += img.PatchMarginLeft
		box.Y += img.PatchMarginTop
		box.Width -= img.PatchMarginLeft + img.PatchMarginRight
		box.Height -= img.PatchMarginTop + img.PatchMarginBottom
	}
	return box
}

// resolveAnchors places a node inside its parent box. Anchored nodes get
// their position and size from the anchors; free nodes have their anchors
// recomputed from their position and size.
func (s *System) resolveAnchors(tr *scene.Transform, l *Layout) {
	if l.UsingAnchors {
		clampAnchors(l)
		applyAnchorPreset(l)
	}

	box := s.parentBox(tr, l)
	left := box.X + box.Width*l.AnchorPointLeft
	right := box.X + box.Width*l.AnchorPointRight
	top := box.Y + box.Height*l.AnchorPointTop
	bottom := box.Y + box.Height*l.AnchorPointBottom

	if !l.UsingAnchors {
		l.AnchorOffsetLeft = tr.Position.X - left
		l.AnchorOffsetTop = tr.Position.Y - top
		l.AnchorOffsetRight = l.Width + tr.Position.X - right
		l.AnchorOffsetBottom = l.Height + tr.Position.Y - bottom
		return
	}

	pos := f32.Pt(left+l.AnchorOffsetLeft, top+l.AnchorOffsetTop)
	if pos != tr.Position {
		tr.Position = pos
		tr.NeedUpdate = true
	}

	width := right - pos.X + l.AnchorOffsetRight
	height := bottom - pos.Y + l.AnchorOffsetBottom
	if width != l.Width || height != l.Height {
		l.Width = width
		l.Height = height
		l.NeedUpdateSizes = true
	}
}
