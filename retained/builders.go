package retained

import (
	"gioui.org/f32"

	"github.com/agiangrant/anchorui/scene"
)

// Builder helpers for common widget patterns.
// Each creates a node under parent (NullEntity for a root) and returns it.
// The node is laid out and built by the next Update.

// newNode creates an entity with a Transform and a Layout.
func (s *System) newNode(parent scene.Entity) scene.Entity {
	e := s.scene.CreateEntity()
	scene.AddComponent(s.scene, e, scene.NewTransform())
	scene.AddComponent(s.scene, e, NewLayout())
	if parent != scene.NullEntity {
		s.scene.AddEntityChild(parent, e)
	}
	s.created++
	return e
}

func (s *System) newTextComponent(text string) Text {
	return Text{
		Text:           text,
		FontSize:       s.config.FontSize,
		MaxTextSize:    s.config.MaxTextSize,
		NeedUpdateText: true,
	}
}

func (s *System) newImageComponent() Image {
	return Image{
		TextureCutFactor:  s.config.TextureCutFactor,
		NeedUpdatePatches: true,
	}
}

// NewNode creates an empty layout node, useful as an anchoring group.
func (s *System) NewNode(parent scene.Entity) scene.Entity {
	return s.newNode(parent)
}

// NewImage creates a nine-slice image. Without an explicit size the node
// takes the size of tex.
func (s *System) NewImage(parent scene.Entity, tex Texture) scene.Entity {
	e := s.newNode(parent)
	ui := NewUIComponent()
	ui.Texture = tex
	scene.AddComponent(s.scene, e, ui)
	scene.AddComponent(s.scene, e, s.newImageComponent())
	return e
}

// NewText creates a text node sized to its content.
func (s *System) NewText(parent scene.Entity, text string) scene.Entity {
	e := s.newNode(parent)
	scene.AddComponent(s.scene, e, NewUIComponent())
	scene.AddComponent(s.scene, e, s.newTextComponent(text))
	return e
}

// NewContainer creates a container node. It has no geometry of its own.
func (s *System) NewContainer(parent scene.Entity, typ ContainerType) scene.Entity {
	e := s.newNode(parent)
	scene.AddComponent(s.scene, e, NewContainer(typ))
	return e
}

// NewPolygon creates a polygon drawn as a triangle strip through points.
func (s *System) NewPolygon(parent scene.Entity, points ...PolygonPoint) scene.Entity {
	e := s.newNode(parent)
	scene.AddComponent(s.scene, e, NewUIComponent())
	scene.AddComponent(s.scene, e, Polygon{
		Points:            append([]PolygonPoint(nil), points...),
		NeedUpdatePolygon: true,
	})
	return e
}

// NewButton creates a button showing label over tex.
func (s *System) NewButton(parent scene.Entity, label string, tex Texture) scene.Entity {
	e := s.NewImage(parent, tex)
	scene.AddComponent(s.scene, e, Button{
		TextureNormal:    tex,
		NeedUpdateButton: true,
	})
	s.ButtonLabel(e).Text = label
	return e
}

// NewPanel creates a movable panel titled title. The header height is the
// image's top patch margin.
func (s *System) NewPanel(parent scene.Entity, title string, tex Texture) scene.Entity {
	e := s.NewImage(parent, tex)
	scene.AddComponent(s.scene, e, Panel{
		TitleAnchorPreset: AnchorCenterLeft,
		CanMove:           true,
		CanTopOnFocus:     true,
		ResizeMargin:      s.config.ResizeMargin,
		NeedUpdatePanel:   true,
	})
	s.PanelTitle(e).Text = title
	return e
}

// NewScrollbar creates a scrollbar with track texture track and bar texture
// bar. The bar covers half the track until BarSize is changed.
func (s *System) NewScrollbar(parent scene.Entity, typ ScrollbarType, track, bar Texture) scene.Entity {
	e := s.NewImage(parent, track)
	scene.AddComponent(s.scene, e, Scrollbar{
		Type:                typ,
		BarSize:             0.5,
		BarTexture:          bar,
		NeedUpdateScrollbar: true,
	})
	return e
}

// NewTextEdit creates a single-line text input holding text.
func (s *System) NewTextEdit(parent scene.Entity, text string, tex Texture) scene.Entity {
	e := s.NewImage(parent, tex)
	scene.AddComponent(s.scene, e, TextEdit{
		CursorWidth:        2,
		CursorColor:        black,
		NeedUpdateTextEdit: true,
	})
	s.TextEditText(e).Text = text
	return e
}

// SetExpand makes child share the free space of its container.
func (s *System) SetExpand(child scene.Entity, expand bool) {
	parent := s.scene.Parent(child)
	if c := scene.FindComponent[Container](s.scene, parent); c != nil {
		c.setExpand(child, expand)
	}
}

// SetText replaces the text shown by e: a text node, or the label of a
// button, the title of a panel or the content of a text edit.
func (s *System) SetText(e scene.Entity, text string) bool {
	sig := s.scene.Signature(e)
	var t *Text
	switch {
	case sig.Test(s.types.button):
		t = s.ButtonLabel(e)
		scene.GetComponent[Button](s.scene, e).NeedUpdateButton = true
	case sig.Test(s.types.panel):
		t = s.PanelTitle(e)
		scene.GetComponent[Panel](s.scene, e).NeedUpdatePanel = true
	case sig.Test(s.types.textEdit):
		t = s.TextEditText(e)
		scene.GetComponent[TextEdit](s.scene, e).NeedUpdateTextEdit = true
	case sig.Test(s.types.text):
		t = scene.GetComponent[Text](s.scene, e)
	default:
		return false
	}
	t.Text = text
	t.NeedUpdateText = true
	return true
}

// SetPosition moves a node that is not anchored.
func (s *System) SetPosition(e scene.Entity, x, y float32) {
	if tr := scene.FindComponent[scene.Transform](s.scene, e); tr != nil {
		tr.Position = f32.Pt(x, y)
		tr.NeedUpdate = true
	}
}

// NodeBounds returns the world rectangle of e as of the last Update.
func (s *System) NodeBounds(e scene.Entity) Bounds {
	tr := scene.FindComponent[scene.Transform](s.scene, e)
	l := scene.FindComponent[Layout](s.scene, e)
	if tr == nil || l == nil {
		return Bounds{}
	}
	return Bounds{
		X:      tr.WorldPosition.X,
		Y:      tr.WorldPosition.Y,
		Width:  l.Width * tr.WorldScale.X,
		Height: l.Height * tr.WorldScale.Y,
	}
}
