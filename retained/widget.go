// Package retained is the layout and interaction engine for entity-based UIs.
//
// Widgets are entities in a scene.Scene that carry a Layout plus one or more
// widget components (Image, Text, Polygon, Container, Button, Panel,
// Scrollbar, TextEdit). A System resolves anchors and container flow once per
// frame, rebuilds the geometry of nodes whose inputs changed, expands
// compound widgets into their auxiliary child entities and routes pointer and
// character input to them.
//
// Coordinates are in pixels with y pointing down. Geometry is local to the
// node; the renderer places it with the node's world transform.
package retained

import (
	"fmt"
	"image/color"
	"strings"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/glyph"
	"github.com/agiangrant/anchorui/scene"
)

// ============================================================================
// Enumerations
// ============================================================================

// ContainerType selects how a Container arranges its children.
type ContainerType uint8

const (
	ContainerHorizontal ContainerType = iota
	ContainerVertical
	ContainerFloat
)

var containerTypeNames = []string{"horizontal", "vertical", "float"}

func (t ContainerType) String() string { return enumName(containerTypeNames, int(t)) }

// MarshalText implements encoding.TextMarshaler.
func (t ContainerType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ContainerType) UnmarshalText(b []byte) error {
	i, err := parseEnum(containerTypeNames, "container type", b)
	*t = ContainerType(i)
	return err
}

// ScrollbarType is the travel axis of a Scrollbar.
type ScrollbarType uint8

const (
	ScrollbarVertical ScrollbarType = iota
	ScrollbarHorizontal
)

var scrollbarTypeNames = []string{"vertical", "horizontal"}

func (t ScrollbarType) String() string { return enumName(scrollbarTypeNames, int(t)) }

// MarshalText implements encoding.TextMarshaler.
func (t ScrollbarType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ScrollbarType) UnmarshalText(b []byte) error {
	i, err := parseEnum(scrollbarTypeNames, "scrollbar type", b)
	*t = ScrollbarType(i)
	return err
}

// Primitive is the topology of a node's geometry.
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveTriangleStrip
)

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

// parseEnum accepts names case-insensitively, with '-' or '_' as separator.
func parseEnum(names []string, what string, b []byte) (int, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(b))), "-", "_")
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, string(b))
}

// ============================================================================
// Render data
// ============================================================================

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
)

// Texture references image data owned by the renderer. Two textures are the
// same texture when all fields are equal.
type Texture struct {
	ID            string
	Width, Height int

	// Framebuffer marks render targets, whose rows are stored bottom-up on
	// backends with a bottom-left texture origin.
	Framebuffer bool
}

// IsZero reports whether t references nothing.
func (t Texture) IsZero() bool { return t == Texture{} }

// Vertex is one interleaved vertex of a node's geometry.
type Vertex struct {
	Position f32.Point
	TexCoord f32.Point
	Color    color.NRGBA
}

// PointerHandler receives pointer coordinates relative to the node's world
// position.
type PointerHandler func(x, y float32)

// UIComponent is the renderable part of a UI node: geometry, texture, tint
// and the generic input callbacks.
//
// The system rebuilds Vertices and Indices in place; the renderer reads them
// after System.Update returns and acknowledges them with System.Sync.
type UIComponent struct {
	Vertices  []Vertex
	Indices   []uint16 // empty for PrimitiveTriangleStrip
	Primitive Primitive

	// Preallocation hints for renderers with fixed-size buffers.
	MinBufferCount  int
	MinIndicesCount int

	Texture Texture
	Color   color.NRGBA // tint applied to every vertex

	// FlipY mirrors texture coordinates. With AutomaticFlipY the system
	// derives it from the camera and texture before every rebuild.
	FlipY          bool
	AutomaticFlipY bool

	// Loaded is set once the renderer has consumed the node.
	Loaded bool

	NeedReload        bool // buffer sizes changed; reallocate
	NeedUpdateBuffer  bool // buffer contents changed
	NeedUpdateTexture bool

	Focused      bool
	PointerMoved bool

	OnPointerDown PointerHandler
	OnPointerUp   PointerHandler
	OnPointerMove PointerHandler
	OnGetFocus    func()
	OnLostFocus   func()
}

// NewUIComponent returns a white, automatically flipped component.
func NewUIComponent() UIComponent {
	return UIComponent{
		Color:          white,
		AutomaticFlipY: true,
	}
}

// ============================================================================
// Primitive widgets
// ============================================================================

// Image is a nine-slice image. The margins are the fixed-size borders in
// pixels; children are laid out inside them unless they ignore scissor.
type Image struct {
	PatchMarginLeft   float32
	PatchMarginTop    float32
	PatchMarginRight  float32
	PatchMarginBottom float32

	// TextureCutFactor insets the outer texture coordinates by this many
	// texels to avoid sampling neighbouring atlas entries.
	TextureCutFactor float32

	NeedUpdatePatches bool
}

// SetPatchMargin sets all four margins.
func (img *Image) SetPatchMargin(margin float32) {
	img.PatchMarginLeft = margin
	img.PatchMarginTop = margin
	img.PatchMarginRight = margin
	img.PatchMarginBottom = margin
	img.NeedUpdatePatches = true
}

// Text is a run of glyphs. Unless FixedWidth or FixedHeight is set the node
// takes the size of its content.
type Text struct {
	Text     string
	Font     string // empty selects the default font
	FontSize int

	// MaxTextSize is the glyph capacity reserved in the buffers. It grows
	// when Text is longer.
	MaxTextSize int

	FixedWidth  bool
	FixedHeight bool
	Multiline   bool

	// PivotBaseline keeps y=0 on the first baseline instead of the top of
	// the line. PivotCentered moves x=0 to the middle of the node.
	PivotBaseline bool
	PivotCentered bool

	// CharPositions holds the pen position of every rune after a rebuild.
	CharPositions []f32.Point

	Loaded         bool
	NeedReload     bool // Font or FontSize changed; reload the atlas
	NeedUpdateText bool

	atlas *glyph.Atlas
}

// Atlas returns the glyph atlas the text was last built with, or nil.
func (t *Text) Atlas() *glyph.Atlas { return t.atlas }

// PolygonPoint is a vertex of a Polygon.
type PolygonPoint struct {
	Position f32.Point
	Color    color.NRGBA
}

// Polygon is a filled shape drawn as a triangle strip in point order. The
// node takes the size of the points' bounding box.
type Polygon struct {
	Points            []PolygonPoint
	NeedUpdatePolygon bool
}

// ============================================================================
// Compound widgets
// ============================================================================

// Button is an image with a centered text label. Its texture follows its
// state: disabled, then pressed, then normal. Set NeedUpdateButton after
// changing fields.
type Button struct {
	Label scene.Entity

	TextureNormal   Texture
	TexturePressed  Texture
	TextureDisabled Texture

	Disabled bool
	Pressed  bool

	OnPress   func()
	OnRelease func()

	NeedUpdateButton bool
}

// texture returns the texture for the current state. Unset state textures
// fall back to the normal one.
func (b *Button) texture() Texture {
	switch {
	case b.Disabled && !b.TextureDisabled.IsZero():
		return b.TextureDisabled
	case b.Disabled:
		return b.TextureNormal
	case b.Pressed && !b.TexturePressed.IsZero():
		return b.TexturePressed
	default:
		return b.TextureNormal
	}
}

// ResizeEdge names one of the panel border probes.
type ResizeEdge uint8

const (
	ResizeNone ResizeEdge = iota
	ResizeRight
	ResizeRightBottom
	ResizeBottom
	ResizeLeftBottom
	ResizeLeft
)

var resizeEdgeNames = []string{"none", "right", "right_bottom", "bottom", "left_bottom", "left"}

func (e ResizeEdge) String() string { return enumName(resizeEdgeNames, int(e)) }

// Panel is a window-like image with a title header. The header is the top
// PatchMarginTop pixels of the panel's image.
type Panel struct {
	HeaderImage     scene.Entity
	HeaderContainer scene.Entity
	HeaderText      scene.Entity

	TitleAnchorPreset AnchorPreset

	CanMove       bool // dragging the header moves the panel
	CanTopOnFocus bool // pressing the panel raises it above its siblings

	// ResizeMargin is the width of the border probes in unscaled pixels.
	// ResizeEdges holds the probes from the last pointer-down, in world
	// pixels, indexed by ResizeEdge-1, and ResizeEdge the probe that
	// pointer-down landed in. No resize is performed.
	ResizeMargin float32
	ResizeEdges  [5]Bounds
	ResizeEdge   ResizeEdge

	HeaderPointerDown bool
	NeedUpdatePanel   bool
}

// EdgeBounds returns the probe rectangle for edge.
func (p *Panel) EdgeBounds(edge ResizeEdge) Bounds {
	if edge == ResizeNone || int(edge) > len(p.ResizeEdges) {
		return Bounds{}
	}
	return p.ResizeEdges[edge-1]
}

// Scrollbar is a track image with a draggable bar child. Step is the bar
// position in [0,1] and BarSize its length as a fraction of the track.
type Scrollbar struct {
	Bar scene.Entity

	Type       ScrollbarType
	BarSize    float32
	Step       float32
	BarTexture Texture

	BarPointerDown bool
	BarPointerPos  float32 // grab offset along the travel axis

	OnChange func(step float32)

	NeedUpdateScrollbar bool
}

// TextEdit is a single-line text input: an image with a text child and a
// blinking cursor child.
type TextEdit struct {
	Text   scene.Entity
	Cursor scene.Entity

	CursorWidth float32
	CursorColor color.NRGBA

	OnChange func(text string)

	NeedUpdateTextEdit bool

	cursorBlinkTimer float64
}
