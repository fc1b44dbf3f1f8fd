package retained

import (
	"math"
	"unicode/utf8"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/glyph"
	"github.com/agiangrant/anchorui/internal/log"
)

// ============================================================================
// Nine-slice image
// ============================================================================

// ninePatchIndices triangulates the nine slices. Vertices 0-3 are the outer
// corners, 4-7 the inner corners and 8-15 the points where the margins meet
// the outer edges.
var ninePatchIndices = [54]uint16{
	4, 5, 6, // center
	4, 6, 7,

	0, 8, 4, // top-left
	0, 4, 9,

	8, 10, 5, // top
	8, 5, 4,

	10, 1, 11, // top-right
	10, 11, 5,

	5, 11, 13, // right
	5, 13, 6,

	6, 13, 2, // bottom-right
	6, 2, 12,

	7, 6, 12, // bottom
	7, 12, 14,

	15, 7, 14, // bottom-left
	15, 14, 3,

	9, 4, 7, // left
	9, 7, 15,
}

// buildNinePatch fills ui with the sixteen vertices of img at the size in
// l. A node without a size takes the size of its texture. It reports false
// when there is nothing to build.
func buildNinePatch(img *Image, ui *UIComponent, l *Layout) bool {
	texW, texH := float32(ui.Texture.Width), float32(ui.Texture.Height)
	if texW == 0 || texH == 0 {
		texW, texH = l.Width, l.Height
	}
	if l.Width == 0 && l.Height == 0 {
		l.Width, l.Height = texW, texH
	}
	if (l.Width == 0 || l.Height == 0) && l.AnchorPreset == AnchorNone {
		log.L().Warn("cannot create ui image without size")
		return false
	}

	w, h := l.Width, l.Height
	ml, mt := img.PatchMarginLeft, img.PatchMarginTop
	mr, mb := img.PatchMarginRight, img.PatchMarginBottom
	positions := [16]f32.Point{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
		{X: ml, Y: mt}, {X: w - mr, Y: mt}, {X: w - mr, Y: h - mb}, {X: ml, Y: h - mb},
		{X: ml, Y: 0}, {X: 0, Y: mt},
		{X: w - mr, Y: 0}, {X: w, Y: mt},
		{X: w - mr, Y: h}, {X: w, Y: h - mb},
		{X: ml, Y: h}, {X: 0, Y: h - mb},
	}

	var cutW, cutH float32
	if texW != 0 && texH != 0 {
		cutW = 1 / texW * img.TextureCutFactor
		cutH = 1 / texH * img.TextureCutFactor
	}
	x0, x1 := cutW, 1-cutW
	y0, y1 := cutH, 1-cutH
	ul, vt := ratio(ml, texW), ratio(mt, texH)
	ur, vb := x1-ratio(mr, texW), y1-ratio(mb, texH)
	texcoords := [16]f32.Point{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		{X: ul, Y: vt}, {X: ur, Y: vt}, {X: ur, Y: vb}, {X: ul, Y: vb},
		{X: ul, Y: y0}, {X: x0, Y: vt},
		{X: ur, Y: y0}, {X: x1, Y: vt},
		{X: ur, Y: y1}, {X: x1, Y: vb},
		{X: ul, Y: y1}, {X: x0, Y: vb},
	}

	ui.Primitive = PrimitiveTriangles
	ui.Vertices = ui.Vertices[:0]
	for i := range positions {
		tc := texcoords[i]
		if ui.FlipY {
			tc.Y = 1 - tc.Y
		}
		ui.Vertices = append(ui.Vertices, Vertex{Position: positions[i], TexCoord: tc, Color: white})
	}
	ui.Indices = append(ui.Indices[:0], ninePatchIndices[:]...)

	if ui.Loaded {
		ui.NeedUpdateBuffer = true
	}
	return true
}

func ratio(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// ============================================================================
// Text
// ============================================================================

// maxTextQuads is the most glyphs a text node draws: four vertices per
// glyph must stay addressable by 16-bit indices.
const maxTextQuads = (math.MaxUint16 + 1) / 4

// buildText lays t out with its atlas and fills ui with one quad per glyph.
// The node takes the size of the laid out text.
func buildText(t *Text, ui *UIComponent, l *Layout) {
	if n := utf8.RuneCountInString(t.Text); n > t.MaxTextSize && t.MaxTextSize < maxTextQuads {
		log.L().Warn("text is longer than its capacity, growing",
			"capacity", t.MaxTextSize, "length", n)
		t.MaxTextSize = min(n, maxTextQuads)
		if ui.Loaded {
			ui.NeedReload = true
		}
	}
	ui.MinBufferCount = t.MaxTextSize * 4
	ui.MinIndicesCount = t.MaxTextSize * 6

	out := t.atlas.Layout(t.Text, glyphBox(t, l, ui.FlipY))
	l.Width, l.Height = out.Width, out.Height
	t.CharPositions = append(t.CharPositions[:0], out.CharPositions...)

	var dx, dy float32
	if t.PivotCentered {
		dx = -l.Width / 2
	}
	if !t.PivotBaseline {
		if ui.FlipY {
			dy = l.Height - t.atlas.Ascent()
		} else {
			dy = t.atlas.Ascent()
		}
	}

	ui.Primitive = PrimitiveTriangles
	ui.Vertices = ui.Vertices[:0]
	ui.Indices = ui.Indices[:0]
	quads := out.Quads
	if len(quads) > maxTextQuads {
		log.L().Warn("text has too many glyphs, truncated",
			"glyphs", len(quads), "max", maxTextQuads)
		quads = quads[:maxTextQuads]
	}
	for _, q := range quads {
		base := uint16(len(ui.Vertices))
		ui.Vertices = append(ui.Vertices,
			Vertex{Position: f32.Pt(q.X0+dx, q.Y0+dy), TexCoord: f32.Pt(q.U0, q.V0), Color: white},
			Vertex{Position: f32.Pt(q.X1+dx, q.Y0+dy), TexCoord: f32.Pt(q.U1, q.V0), Color: white},
			Vertex{Position: f32.Pt(q.X1+dx, q.Y1+dy), TexCoord: f32.Pt(q.U1, q.V1), Color: white},
			Vertex{Position: f32.Pt(q.X0+dx, q.Y1+dy), TexCoord: f32.Pt(q.U0, q.V1), Color: white},
		)
		ui.Indices = append(ui.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	if ui.Loaded {
		ui.NeedUpdateBuffer = true
	}
}

func glyphBox(t *Text, l *Layout, flipY bool) glyph.Box {
	return glyph.Box{
		Width:       l.Width,
		Height:      l.Height,
		FixedWidth:  t.FixedWidth,
		FixedHeight: t.FixedHeight,
		Multiline:   t.Multiline,
		FlipY:       flipY,
	}
}

// ============================================================================
// Polygon
// ============================================================================

// buildPolygon fills ui with the points of p as a triangle strip. Texture
// coordinates map the bounding box to [0,1] and the node takes the size of
// the bounding box.
func buildPolygon(p *Polygon, ui *UIComponent, l *Layout) {
	ui.Primitive = PrimitiveTriangleStrip
	ui.Vertices = ui.Vertices[:0]
	ui.Indices = ui.Indices[:0]
	if len(p.Points) == 0 {
		l.Width, l.Height = 0, 0
		return
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, pt := range p.Points {
		minX = min(minX, pt.Position.X)
		minY = min(minY, pt.Position.Y)
		maxX = max(maxX, pt.Position.X)
		maxY = max(maxY, pt.Position.Y)
	}
	for _, pt := range p.Points {
		u := ratio(pt.Position.X-minX, maxX-minX)
		v := ratio(pt.Position.Y-minY, maxY-minY)
		if ui.FlipY {
			v = 1 - v
		}
		ui.Vertices = append(ui.Vertices, Vertex{Position: pt.Position, TexCoord: f32.Pt(u, v), Color: pt.Color})
	}

	l.Width = float32(int(maxX - minX))
	l.Height = float32(int(maxY - minY))

	if ui.Loaded {
		ui.NeedUpdateBuffer = true
	}
}

// ============================================================================
// Rebuild gates
// ============================================================================

// changeFlipY flips texture coordinates for perspective cameras and, on
// backends with a bottom-left texture origin, for framebuffer textures.
func (s *System) changeFlipY(ui *UIComponent) {
	ui.FlipY = !s.platform.Camera2D()
	if ui.Texture.Framebuffer && s.platform.BottomLeftTextureOrigin() {
		ui.FlipY = !ui.FlipY
	}
}

func (s *System) updateImage(img *Image, ui *UIComponent, l *Layout) {
	if !img.NeedUpdatePatches {
		return
	}
	if ui.AutomaticFlipY {
		s.changeFlipY(ui)
	}
	buildNinePatch(img, ui, l)
	img.NeedUpdatePatches = false
}

func (s *System) updatePolygon(p *Polygon, ui *UIComponent, l *Layout) {
	if !p.NeedUpdatePolygon {
		return
	}
	if ui.AutomaticFlipY {
		s.changeFlipY(ui)
	}
	buildPolygon(p, ui, l)
	p.NeedUpdatePolygon = false
}

func (s *System) updateText(t *Text, ui *UIComponent, l *Layout) {
	if !t.NeedUpdateText {
		return
	}
	if ui.AutomaticFlipY {
		s.changeFlipY(ui)
	}
	if t.Loaded && t.NeedReload {
		unloadText(t)
	}
	if !t.Loaded && !s.loadFontAtlas(t, ui) {
		t.NeedUpdateText = false
		return
	}
	buildText(t, ui, l)
	t.NeedUpdateText = false
}

func (s *System) loadFontAtlas(t *Text, ui *UIComponent) bool {
	atlas, err := s.fonts.Atlas(t.Font, t.FontSize)
	if err != nil {
		log.L().Error("cannot load font atlas", "font", t.Font, "size", t.FontSize, "error", err)
		return false
	}
	b := atlas.Image().Bounds()
	ui.Texture = Texture{ID: atlas.ID(), Width: b.Dx(), Height: b.Dy()}
	ui.NeedUpdateTexture = true

	t.atlas = atlas
	t.NeedReload = false
	t.Loaded = true
	return true
}

func unloadText(t *Text) {
	t.Loaded = false
	t.NeedReload = false
	t.NeedUpdateText = true
	t.atlas = nil
}
