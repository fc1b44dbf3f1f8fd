package retained

import (
	"math"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/scene"
)

// ============================================================================
// Event Router
// ============================================================================
//
// One node at a time owns the pointer (the node the current gesture started
// on) and one node at a time holds focus. Both are System fields; the
// Focused flag on UIComponent mirrors the focus for widget code.

// Dispatch routes ev and reports whether a node consumed it.
func (s *System) Dispatch(ev InputEvent) bool {
	switch ev.Type {
	case EventPointerDown:
		return s.PointerDown(ev.Position.X, ev.Position.Y)
	case EventPointerUp:
		return s.PointerUp(ev.Position.X, ev.Position.Y)
	case EventPointerMove:
		return s.PointerMove(ev.Position.X, ev.Position.Y)
	case EventCharInput:
		return s.CharInput(ev.Rune)
	}
	return false
}

// Focused returns the focused node, or scene.NullEntity.
func (s *System) Focused() scene.Entity { return s.focused }

// Captured returns the node that owns the current pointer gesture, or
// scene.NullEntity.
func (s *System) Captured() scene.Entity { return s.lastUIFromPointer }

// ============================================================================
// Hit Testing
// ============================================================================

// isCoordInside reports whether (x, y) lies on the node. The point is taken
// into the node's rotated frame and compared with its scaled size.
func isCoordInside(x, y float32, tr *scene.Transform, l *Layout) bool {
	p := tr.WorldFrame().Invert().Transform(f32.Pt(x, y))
	w := float32(math.Abs(float64(l.Width * tr.WorldScale.X)))
	h := float32(math.Abs(float64(l.Height * tr.WorldScale.Y)))
	return Bounds{Width: w, Height: h}.Contains(p.X, p.Y)
}

// hitTest returns the topmost eligible node under (x, y) and the topmost
// panel under it. Later nodes in hierarchy order are drawn above earlier
// ones, so the last hit wins.
func (s *System) hitTest(x, y float32) (hit, panel scene.Entity) {
	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()
	ents = s.scene.AppendEntities(ents, s.types.layout)

	for _, e := range ents {
		sig := s.scene.Signature(e)
		if !sig.Test(s.types.transform) || !sig.Test(s.types.ui) {
			continue
		}
		tr := scene.GetComponent[scene.Transform](s.scene, e)
		l := scene.GetComponent[Layout](s.scene, e)
		if l.IgnoreEvents || !tr.Visible || !isCoordInside(x, y, tr, l) {
			continue
		}
		hit = e
		if sig.Test(s.types.panel) {
			panel = e
		}
	}
	return hit, panel
}

// ============================================================================
// Pointer
// ============================================================================

// PointerDown hit-tests (x, y), captures the pointer for the node hit and
// moves focus to it. It reports whether a node was hit.
func (s *System) PointerDown(x, y float32) bool {
	s.lastPointerPos = f32.Pt(x, y)
	hit, panel := s.hitTest(x, y)
	s.lastUIFromPointer = hit
	s.lastPanelFromPointer = panel

	if s.focused != scene.NullEntity && s.focused != hit {
		s.clearFocus()
	}

	if hit == scene.NullEntity {
		s.platform.HideVirtualKeyboard()
		return false
	}

	sig := s.scene.Signature(hit)
	tr := scene.GetComponent[scene.Transform](s.scene, hit)
	ui := scene.GetComponent[UIComponent](s.scene, hit)

	if sig.Test(s.types.button) {
		b := scene.GetComponent[Button](s.scene, hit)
		if !b.Disabled && !b.Pressed {
			b.Pressed = true
			ui.Texture = b.texture()
			ui.NeedUpdateTexture = true
			if b.OnPress != nil {
				b.OnPress()
			}
		}
	}

	if sig.Test(s.types.textEdit) {
		s.platform.ShowVirtualKeyboard(s.TextEditText(hit).Text)
	} else {
		s.platform.HideVirtualKeyboard()
	}

	if sig.Test(s.types.scrollbar) {
		s.pressScrollbar(hit, tr, x, y)
	}

	if sig.Test(s.types.panel) {
		s.pressPanel(hit, tr, x, y)
	}

	if ui.OnPointerDown != nil {
		ui.OnPointerDown(x-tr.WorldPosition.X, y-tr.WorldPosition.Y)
	}

	if s.focused != hit {
		s.focused = hit
		ui.Focused = true
		if ui.OnGetFocus != nil {
			ui.OnGetFocus()
		}
	}

	if panel != scene.NullEntity && scene.GetComponent[Panel](s.scene, panel).CanTopOnFocus {
		s.scene.MoveChildToTop(panel)
	}
	return true
}

func (s *System) pressScrollbar(e scene.Entity, tr *scene.Transform, x, y float32) {
	sb := scene.GetComponent[Scrollbar](s.scene, e)
	barTr := scene.FindComponent[scene.Transform](s.scene, sb.Bar)
	barLayout := scene.FindComponent[Layout](s.scene, sb.Bar)
	if barTr == nil || barLayout == nil || !isCoordInside(x, y, barTr, barLayout) {
		return
	}
	sb.BarPointerDown = true
	if sb.Type == ScrollbarVertical {
		sb.BarPointerPos = y - tr.WorldPosition.Y - barTr.Position.Y*barTr.WorldScale.Y
	} else {
		sb.BarPointerPos = x - tr.WorldPosition.X - barTr.Position.X*barTr.WorldScale.X
	}
}

func (s *System) pressPanel(e scene.Entity, tr *scene.Transform, x, y float32) {
	p := scene.GetComponent[Panel](s.scene, e)
	l := scene.GetComponent[Layout](s.scene, e)
	headerTr := scene.FindComponent[scene.Transform](s.scene, p.HeaderContainer)
	header := scene.FindComponent[Layout](s.scene, p.HeaderContainer)

	var headerHeight float32
	if header != nil {
		headerHeight = header.Height
	}
	p.ResizeEdges = resizeProbes(tr, l, p.ResizeMargin, headerHeight)
	p.ResizeEdge = ResizeNone
	for i, probe := range p.ResizeEdges {
		if probe.Contains(x, y) {
			p.ResizeEdge = ResizeEdge(i + 1)
			break
		}
	}

	if p.CanMove && headerTr != nil && isCoordInside(x, y, headerTr, header) {
		p.HeaderPointerDown = true
	}
}

// PointerMove forwards a drag to the node that owns the pointer. Scrollbars
// follow the bar and panels follow their header. It reports whether a node
// owns the pointer.
func (s *System) PointerMove(x, y float32) bool {
	defer func() { s.lastPointerPos = f32.Pt(x, y) }()

	e := s.lastUIFromPointer
	if e == scene.NullEntity || !s.scene.Exists(e) {
		return false
	}

	sig := s.scene.Signature(e)
	tr := scene.FindComponent[scene.Transform](s.scene, e)
	if tr == nil {
		return true
	}
	if ui := scene.FindComponent[UIComponent](s.scene, e); ui != nil {
		if ui.OnPointerMove != nil {
			ui.OnPointerMove(x-tr.WorldPosition.X, y-tr.WorldPosition.Y)
		}
		ui.PointerMoved = true
	}

	if sig.Test(s.types.scrollbar) {
		s.dragScrollbar(e, tr, x, y)
	}

	if sig.Test(s.types.panel) {
		if p := scene.GetComponent[Panel](s.scene, e); p.HeaderPointerDown {
			d := f32.Pt(x, y).Sub(s.lastPointerPos)
			tr.Position = tr.Position.Add(f32.Pt(d.X/tr.WorldScale.X, d.Y/tr.WorldScale.Y))
			tr.NeedUpdate = true
		}
	}
	return true
}

func (s *System) dragScrollbar(e scene.Entity, tr *scene.Transform, x, y float32) {
	sb := scene.GetComponent[Scrollbar](s.scene, e)
	if !sb.BarPointerDown {
		return
	}
	l := scene.GetComponent[Layout](s.scene, e)

	var track, pointer float32
	if sb.Type == ScrollbarVertical {
		track = l.Height * tr.WorldScale.Y
		pointer = y - tr.WorldPosition.Y
	} else {
		track = l.Width * tr.WorldScale.X
		pointer = x - tr.WorldPosition.X
	}
	if track == 0 {
		return
	}
	barSizePixel := track * sb.BarSize
	halfBar := barSizePixel / 2 / track
	pos := (pointer + barSizePixel/2 - sb.BarPointerPos) / track
	pos = min(max(pos, halfBar), 1-halfBar)

	var step float32
	if travel := (1 - halfBar) - halfBar; travel > 0 {
		step = (pos - halfBar) / travel
	}
	if step != sb.Step {
		sb.Step = step
		if sb.OnChange != nil {
			sb.OnChange(step)
		}
	}

	if bar := scene.FindComponent[Layout](s.scene, sb.Bar); bar != nil {
		if sb.Type == ScrollbarVertical {
			bar.AnchorPointTop, bar.AnchorPointBottom = pos, pos
		} else {
			bar.AnchorPointLeft, bar.AnchorPointRight = pos, pos
		}
	}
}

// PointerUp ends the current gesture: pressed buttons are released, drags
// stop and the node that owned the pointer gets OnPointerUp. It reports
// whether a node owned the pointer.
func (s *System) PointerUp(x, y float32) bool {
	s.lastPointerPos = f32.Pt(-1, -1)

	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()
	ents = s.scene.AppendEntities(ents, s.types.layout)

	for _, e := range ents {
		sig := s.scene.Signature(e)
		if sig.Test(s.types.button) && sig.Test(s.types.ui) {
			b := scene.GetComponent[Button](s.scene, e)
			if !b.Disabled && b.Pressed {
				b.Pressed = false
				ui := scene.GetComponent[UIComponent](s.scene, e)
				ui.Texture = b.texture()
				ui.NeedUpdateTexture = true
				if b.OnRelease != nil {
					b.OnRelease()
				}
			}
		}
		if sig.Test(s.types.scrollbar) {
			scene.GetComponent[Scrollbar](s.scene, e).BarPointerDown = false
		}
		if sig.Test(s.types.panel) {
			scene.GetComponent[Panel](s.scene, e).HeaderPointerDown = false
		}
	}

	captured := s.lastUIFromPointer
	s.lastUIFromPointer = scene.NullEntity
	s.lastPanelFromPointer = scene.NullEntity
	if captured == scene.NullEntity || !s.scene.Exists(captured) {
		return false
	}

	tr := scene.FindComponent[scene.Transform](s.scene, captured)
	ui := scene.FindComponent[UIComponent](s.scene, captured)
	if tr != nil && ui != nil && ui.OnPointerUp != nil {
		ui.OnPointerUp(x-tr.WorldPosition.X, y-tr.WorldPosition.Y)
	}
	return true
}

// ============================================================================
// Focus
// ============================================================================

func (s *System) clearFocus() {
	e := s.focused
	s.focused = scene.NullEntity
	ui := scene.FindComponent[UIComponent](s.scene, e)
	if ui == nil || !ui.Focused {
		return
	}
	ui.Focused = false
	if ui.OnLostFocus != nil {
		ui.OnLostFocus()
	}
}
