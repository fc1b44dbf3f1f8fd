package retained

import (
	"unicode/utf8"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/scene"
)

// ============================================================================
// Text edit
// ============================================================================

func (s *System) createTextEditObjects(e scene.Entity, te *TextEdit) {
	if te.Text == scene.NullEntity {
		te.Text = s.newNode(e)
		ui := scene.AddComponent(s.scene, te.Text, NewUIComponent())
		ui.Color = black
		scene.AddComponent(s.scene, te.Text, s.newTextComponent(""))
		scene.GetComponent[Layout](s.scene, te.Text).IgnoreEvents = true
	}
	if te.Cursor == scene.NullEntity {
		te.Cursor = s.newNode(e)
		scene.AddComponent(s.scene, te.Cursor, NewUIComponent())
		scene.AddComponent(s.scene, te.Cursor, Polygon{NeedUpdatePolygon: true})
		scene.GetComponent[Layout](s.scene, te.Cursor).IgnoreEvents = true
	}
}

// TextEditText returns the text content of text edit e, creating it if
// needed.
func (s *System) TextEditText(e scene.Entity) *Text {
	te := scene.GetComponent[TextEdit](s.scene, e)
	s.createTextEditObjects(e, te)
	return scene.GetComponent[Text](s.scene, te.Text)
}

// updateTextEdit lays out the text and the cursor inside the image margins.
// Text wider than the field scrolls left so the cursor after the last
// character stays visible.
func (s *System) updateTextEdit(e scene.Entity, te *TextEdit, img *Image, l *Layout) {
	s.createTextEditObjects(e, te)

	textTr := scene.GetComponent[scene.Transform](s.scene, te.Text)
	textLayout := scene.GetComponent[Layout](s.scene, te.Text)
	text := scene.GetComponent[Text](s.scene, te.Text)

	text.Multiline = false
	text.NeedUpdateText = true
	s.updateText(text, scene.GetComponent[UIComponent](s.scene, te.Text), textLayout)

	if l.Height == 0 {
		l.Height = textLayout.Height + img.PatchMarginTop + img.PatchMarginBottom
		l.NeedUpdateSizes = true
	}

	heightArea := l.Height - img.PatchMarginTop - img.PatchMarginBottom
	widthArea := l.Width - img.PatchMarginLeft - img.PatchMarginRight - te.CursorWidth

	var scroll float32
	if textLayout.Width > widthArea {
		scroll = textLayout.Width - widthArea
	}
	textX := img.PatchMarginLeft - scroll
	textY := img.PatchMarginTop + heightArea/2 - textLayout.Height/2
	if pos := f32.Pt(textX, textY); textTr.Position != pos {
		textTr.Position = pos
		textTr.NeedUpdate = true
	}

	cursorTr := scene.GetComponent[scene.Transform](s.scene, te.Cursor)
	cursorUI := scene.GetComponent[UIComponent](s.scene, te.Cursor)
	cursor := scene.GetComponent[Polygon](s.scene, te.Cursor)

	h := textLayout.Height
	cursor.Points = append(cursor.Points[:0],
		PolygonPoint{Position: f32.Pt(0, 0), Color: white},
		PolygonPoint{Position: f32.Pt(te.CursorWidth, 0), Color: white},
		PolygonPoint{Position: f32.Pt(0, h), Color: white},
		PolygonPoint{Position: f32.Pt(te.CursorWidth, h), Color: white},
	)
	cursor.NeedUpdatePolygon = true
	cursorUI.Color = te.CursorColor

	cursorTr.Position = f32.Pt(textX+textLayout.Width, img.PatchMarginTop+heightArea/2-h/2)
	cursorTr.NeedUpdate = true
}

// blinkCursor toggles the cursor of a focused text edit every blink
// interval and hides it otherwise.
func (s *System) blinkCursor(dt float64, te *TextEdit, ui *UIComponent) {
	te.cursorBlinkTimer += dt
	tr := scene.FindComponent[scene.Transform](s.scene, te.Cursor)
	if tr == nil {
		return
	}
	if !ui.Focused {
		tr.Visible = false
		return
	}
	if te.cursorBlinkTimer > s.config.CursorBlinkInterval.Seconds() {
		tr.Visible = !tr.Visible
		te.cursorBlinkTimer = 0
	}
}

func (s *System) destroyTextEdit(te *TextEdit) {
	te.NeedUpdateTextEdit = true
	for _, e := range []*scene.Entity{&te.Text, &te.Cursor} {
		if *e != scene.NullEntity {
			s.scene.DestroyEntity(*e)
			*e = scene.NullEntity
		}
	}
}

// ============================================================================
// Character input
// ============================================================================

// CharInput edits the focused text edit: '\b' removes the last character,
// any other rune is appended. It reports whether a text edit took the input.
func (s *System) CharInput(r rune) bool {
	if s.focused == scene.NullEntity {
		return false
	}
	te := scene.FindComponent[TextEdit](s.scene, s.focused)
	ui := scene.FindComponent[UIComponent](s.scene, s.focused)
	if te == nil || ui == nil || !ui.Focused {
		return false
	}
	text := s.TextEditText(s.focused)

	if r == '\b' {
		text.Text = dropLastRune(text.Text)
	} else {
		text.Text = appendRune(text.Text, r)
	}
	text.NeedUpdateText = true
	te.NeedUpdateTextEdit = true

	if te.OnChange != nil {
		te.OnChange(text.Text)
	}
	return true
}

// dropLastRune removes the last UTF-8 encoded character of s.
func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func appendRune(s string, r rune) string {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return string(utf8.AppendRune([]byte(s), r))
}
