package anchorui

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"gioui.org/f32"
	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/anchorui/internal/log"
	"github.com/agiangrant/anchorui/retained"
	"github.com/agiangrant/anchorui/scene"
)

var (
	ErrUnknownParent = errors.New("unknown parent")
	ErrUnknownKind   = errors.New("unknown node kind")
	ErrDuplicateNode = errors.New("duplicate node name")
)

// Document is a UI tree described in TOML, one [[node]] table per node.
// Parents must be declared before their children.
//
//	[[node]]
//	name = "window"
//	kind = "panel"
//	text = "Settings"
//	anchor = "center"
//	size = [300, 200]
//	margin = [4, 24, 4, 4]
//	texture = { id = "panel", width = 64, height = 64 }
type Document struct {
	Nodes []NodeSpec `toml:"node"`
}

// NodeSpec is one [[node]] table. Vector fields are optional; when present
// they must have the documented length.
type NodeSpec struct {
	Name   string   `toml:"name"`
	Kind   NodeKind `toml:"kind"`
	Parent string   `toml:"parent"`

	// Text is the content of a text or text edit node, the label of a
	// button or the title of a panel.
	Text string `toml:"text"`

	Anchor   retained.AnchorPreset `toml:"anchor"`
	Anchors  []float32             `toml:"anchors"`  // left, top, right, bottom points
	Offsets  []float32             `toml:"offsets"`  // left, top, right, bottom pixels
	Size     []float32             `toml:"size"`     // width, height
	Position []float32             `toml:"position"` // x, y of a free node
	Scale    []float32             `toml:"scale"`
	Rotation float32               `toml:"rotation"` // radians
	Margin   []float32             `toml:"margin"`   // all, or left, top, right, bottom

	Texture    TextureSpec `toml:"texture"`
	BarTexture TextureSpec `toml:"bar_texture"`
	Color      *Color      `toml:"color"`

	Container retained.ContainerType `toml:"container"`
	Scrollbar retained.ScrollbarType `toml:"scrollbar"`
	BarSize   float32                `toml:"bar_size"`
	Step      float32                `toml:"step"`

	Font      string `toml:"font"`
	FontSize  int    `toml:"font_size"`
	Multiline bool   `toml:"multiline"`

	Points [][]float32 `toml:"points"` // polygon vertices as [x, y]

	Expand        bool `toml:"expand"`
	Disabled      bool `toml:"disabled"`
	IgnoreEvents  bool `toml:"ignore_events"`
	IgnoreScissor bool `toml:"ignore_scissor"`
	Hidden        bool `toml:"hidden"`
}

// TextureSpec names a renderer texture and its pixel size.
type TextureSpec struct {
	ID     string `toml:"id"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

func (t TextureSpec) texture() retained.Texture {
	return retained.Texture{ID: t.ID, Width: t.Width, Height: t.Height}
}

// NodeKind selects the widget a NodeSpec builds.
type NodeKind uint8

const (
	KindNode NodeKind = iota
	KindImage
	KindText
	KindContainer
	KindPolygon
	KindButton
	KindPanel
	KindScrollbar
	KindTextEdit
)

var nodeKindNames = []string{"node", "image", "text", "container", "polygon", "button", "panel", "scrollbar", "textedit"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. "text_edit" is
// accepted for KindTextEdit.
func (k *NodeKind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	s = strings.NewReplacer("_", "", "-", "").Replace(s)
	for i, n := range nodeKindNames {
		if n == s {
			*k = NodeKind(i)
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownKind, string(b))
}

// Color is an RGBA color written as "#rgb", "#rrggbb" or "#rrggbbaa".
type Color color.NRGBA

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	s, ok := strings.CutPrefix(strings.TrimSpace(string(b)), "#")
	if !ok {
		return fmt.Errorf("color %q must start with #", string(b))
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return fmt.Errorf("color %q must have 3, 6 or 8 hex digits", string(b))
	}
	var rgba [4]byte
	if _, err := hex.Decode(rgba[:], []byte(s)); err != nil {
		return fmt.Errorf("color %q: %w", string(b), err)
	}
	*c = Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

// LoadDocument reads a UI document from a TOML file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseDocument(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes a UI document and checks the shape of every node.
// Unknown keys are an error.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	for i := range doc.Nodes {
		if err := doc.Nodes[i].validate(); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, doc.Nodes[i].Name, err)
		}
	}
	return &doc, nil
}

func (n *NodeSpec) validate() error {
	checks := []struct {
		field string
		v     []float32
		sizes []int
	}{
		{"anchors", n.Anchors, []int{4}},
		{"offsets", n.Offsets, []int{4}},
		{"size", n.Size, []int{2}},
		{"position", n.Position, []int{2}},
		{"scale", n.Scale, []int{2}},
		{"margin", n.Margin, []int{1, 4}},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		ok := false
		for _, size := range c.sizes {
			ok = ok || len(c.v) == size
		}
		if !ok {
			return fmt.Errorf("%s has %d values, want %v", c.field, len(c.v), c.sizes)
		}
	}
	for i, p := range n.Points {
		if len(p) != 2 {
			return fmt.Errorf("point %d has %d values, want 2", i, len(p))
		}
	}
	if len(n.Points) > 0 && n.Kind != KindPolygon {
		return fmt.Errorf("points set on a %v node", n.Kind)
	}
	return nil
}

// Build creates the nodes of doc under the engine's scene and registers the
// named ones. On error the nodes built so far are kept.
func (e *Engine) Build(doc *Document) error {
	for i := range doc.Nodes {
		spec := &doc.Nodes[i]
		if spec.Name != "" {
			if _, ok := e.nodes[spec.Name]; ok {
				return fmt.Errorf("%w: %q", ErrDuplicateNode, spec.Name)
			}
		}
		parent := scene.NullEntity
		if spec.Parent != "" {
			p, ok := e.nodes[spec.Parent]
			if !ok {
				return fmt.Errorf("%w %q for node %d (%s)", ErrUnknownParent, spec.Parent, i, spec.Name)
			}
			parent = p
		}

		ent := e.buildNode(parent, spec)
		if spec.Name != "" {
			e.SetNode(spec.Name, ent)
		}
	}
	log.L().Debug("ui document built", "nodes", len(doc.Nodes))
	return nil
}

func (e *Engine) buildNode(parent scene.Entity, spec *NodeSpec) scene.Entity {
	sys := e.system
	tex := spec.Texture.texture()

	var ent scene.Entity
	var text *retained.Text
	switch spec.Kind {
	case KindImage:
		ent = sys.NewImage(parent, tex)
	case KindText:
		ent = sys.NewText(parent, spec.Text)
		text = scene.GetComponent[retained.Text](e.scene, ent)
	case KindContainer:
		ent = sys.NewContainer(parent, spec.Container)
	case KindPolygon:
		ent = sys.NewPolygon(parent, spec.polygonPoints()...)
	case KindButton:
		ent = sys.NewButton(parent, spec.Text, tex)
		scene.GetComponent[retained.Button](e.scene, ent).Disabled = spec.Disabled
		text = sys.ButtonLabel(ent)
	case KindPanel:
		ent = sys.NewPanel(parent, spec.Text, tex)
		text = sys.PanelTitle(ent)
	case KindScrollbar:
		ent = sys.NewScrollbar(parent, spec.Scrollbar, tex, spec.BarTexture.texture())
		sb := scene.GetComponent[retained.Scrollbar](e.scene, ent)
		if spec.BarSize > 0 {
			sb.BarSize = spec.BarSize
		}
		sb.Step = spec.Step
	case KindTextEdit:
		ent = sys.NewTextEdit(parent, spec.Text, tex)
		text = sys.TextEditText(ent)
	default:
		ent = sys.NewNode(parent)
	}

	tr := scene.GetComponent[scene.Transform](e.scene, ent)
	l := scene.GetComponent[retained.Layout](e.scene, ent)

	if spec.Size != nil {
		l.SetSize(spec.Size[0], spec.Size[1])
		if spec.Kind == KindText {
			text.FixedWidth = true
			text.FixedHeight = !spec.Multiline
		}
	}
	if spec.Position != nil {
		sys.SetPosition(ent, spec.Position[0], spec.Position[1])
	}
	if spec.Scale != nil {
		tr.Scale = f32.Pt(spec.Scale[0], spec.Scale[1])
	}
	tr.Rotation = spec.Rotation
	tr.Visible = !spec.Hidden

	switch {
	case spec.Anchor != retained.AnchorNone:
		l.SetAnchorPreset(spec.Anchor)
	case spec.Anchors != nil:
		l.UsingAnchors = true
		l.AnchorPointLeft, l.AnchorPointTop = spec.Anchors[0], spec.Anchors[1]
		l.AnchorPointRight, l.AnchorPointBottom = spec.Anchors[2], spec.Anchors[3]
	}
	if spec.Offsets != nil {
		l.AnchorOffsetLeft, l.AnchorOffsetTop = spec.Offsets[0], spec.Offsets[1]
		l.AnchorOffsetRight, l.AnchorOffsetBottom = spec.Offsets[2], spec.Offsets[3]
	}
	l.IgnoreEvents = spec.IgnoreEvents
	l.IgnoreScissor = spec.IgnoreScissor

	if img := scene.FindComponent[retained.Image](e.scene, ent); img != nil && spec.Margin != nil {
		if len(spec.Margin) == 1 {
			img.SetPatchMargin(spec.Margin[0])
		} else {
			img.PatchMarginLeft, img.PatchMarginTop = spec.Margin[0], spec.Margin[1]
			img.PatchMarginRight, img.PatchMarginBottom = spec.Margin[2], spec.Margin[3]
			img.NeedUpdatePatches = true
		}
	}
	if ui := scene.FindComponent[retained.UIComponent](e.scene, ent); ui != nil && spec.Color != nil && spec.Kind != KindPolygon {
		ui.Color = color.NRGBA(*spec.Color)
	}
	if text != nil {
		if spec.Font != "" {
			text.Font = spec.Font
		}
		if spec.FontSize > 0 {
			text.FontSize = spec.FontSize
		}
		text.Multiline = spec.Multiline
	}
	if spec.Expand {
		sys.SetExpand(ent, true)
	}
	return ent
}

func (n *NodeSpec) polygonPoints() []retained.PolygonPoint {
	c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if n.Color != nil {
		c = color.NRGBA(*n.Color)
	}
	points := make([]retained.PolygonPoint, len(n.Points))
	for i, p := range n.Points {
		points[i] = retained.PolygonPoint{Position: f32.Pt(p[0], p[1]), Color: c}
	}
	return points
}
