package glyph

import (
	"image"
	"math"

	"gioui.org/f32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	atlasWidth   = 512
	glyphPadding = 2
	fallbackRune = '?'
)

// defaultRunes are rasterised when an atlas is created: printable ASCII and
// Latin-1. Other runes render with the fallback glyph.
func defaultRunes() []rune {
	runes := make([]rune, 0, 95+96)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	for r := rune(160); r < 256; r++ {
		runes = append(runes, r)
	}
	return runes
}

// glyphInfo places one glyph relative to the pen on the baseline.
type glyphInfo struct {
	x0, y0, x1, y1 float32
	u0, v0, u1, v1 float32
}

// Atlas is a rasterised font at one pixel size.
type Atlas struct {
	id     string
	img    *image.Alpha
	glyphs map[rune]glyphInfo
	shaper Shaper

	ascent     float32
	descent    float32
	lineHeight float32
}

// NewAtlas rasterises runes from face into a single alpha texture. The shaper
// positions glyphs at layout time; nil uses the face's own advances.
func NewAtlas(id string, face font.Face, shaper Shaper, runes []rune) *Atlas {
	if shaper == nil {
		shaper = FaceShaper{Face: face}
	}
	if runes == nil {
		runes = defaultRunes()
	}
	m := face.Metrics()
	a := &Atlas{
		id:         id,
		glyphs:     make(map[rune]glyphInfo, len(runes)),
		shaper:     shaper,
		ascent:     fixedToFloat(m.Ascent),
		descent:    fixedToFloat(m.Descent),
		lineHeight: fixedToFloat(m.Height),
	}
	if a.lineHeight <= 0 {
		a.lineHeight = a.ascent + a.descent
	}

	// Plan a shelf packing from glyph bounds, then rasterise. Masks returned
	// by face.Glyph are only valid until the next call, so each one is drawn
	// as soon as it is produced.
	type cell struct {
		r    rune
		x, y int
	}
	cells := make([]cell, 0, len(runes))
	x, y, rowH := glyphPadding, glyphPadding, 0
	for _, r := range runes {
		b, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		w := b.Max.X.Ceil() - b.Min.X.Floor() + glyphPadding
		h := b.Max.Y.Ceil() - b.Min.Y.Floor() + glyphPadding
		if x+w > atlasWidth {
			x = glyphPadding
			y += rowH + glyphPadding
			rowH = 0
		}
		cells = append(cells, cell{r: r, x: x, y: y})
		x += w + glyphPadding
		if h > rowH {
			rowH = h
		}
	}
	height := nextPow2(y + rowH + glyphPadding)
	a.img = image.NewAlpha(image.Rect(0, 0, atlasWidth, height))
	tw, th := float32(atlasWidth), float32(height)

	for _, c := range cells {
		dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, c.r)
		if !ok {
			continue
		}
		dst := image.Rect(c.x, c.y, c.x+dr.Dx(), c.y+dr.Dy())
		draw.Draw(a.img, dst, mask, maskp, draw.Src)
		a.glyphs[c.r] = glyphInfo{
			x0: float32(dr.Min.X), y0: float32(dr.Min.Y),
			x1: float32(dr.Max.X), y1: float32(dr.Max.Y),
			u0: float32(dst.Min.X) / tw, v0: float32(dst.Min.Y) / th,
			u1: float32(dst.Max.X) / tw, v1: float32(dst.Max.Y) / th,
		}
	}
	return a
}

// ID returns the pool key the atlas was created for.
func (a *Atlas) ID() string { return a.id }

// Image returns the atlas texture.
func (a *Atlas) Image() *image.Alpha { return a.img }

// Ascent returns the distance from the baseline to the top of the line.
func (a *Atlas) Ascent() float32 { return a.ascent }

// Descent returns the distance from the baseline to the bottom of the line.
func (a *Atlas) Descent() float32 { return a.descent }

// LineHeight returns the baseline to baseline distance.
func (a *Atlas) LineHeight() float32 { return a.lineHeight }

// Layout places text inside box.
func (a *Atlas) Layout(text string, box Box) Layout {
	runes := []rune(text)
	out := Layout{
		Quads:         make([]Quad, 0, len(runes)),
		CharPositions: make([]f32.Point, len(runes)),
	}

	lines := [][]rune{runes}
	if box.Multiline {
		lines = splitLines(runes)
	}

	var width float32
	offset := 0 // index of the line's first rune in runes
	line := 0
	for _, l := range lines {
		shaped := a.shaper.Shape(l)
		var shift float32 // x of the current visual line start
		for _, g := range shaped {
			x := g.X - shift
			if box.Multiline && box.FixedWidth && box.Width > 0 && x > 0 && x+g.Advance > box.Width {
				line++
				shift = g.X
				x = 0
			}
			baseline := float32(line) * a.lineHeight
			a.appendGlyph(&out, g.Rune, x, baseline+g.Y, box.FlipY)
			out.CharPositions[offset+g.Cluster] = f32.Pt(x, baseline)
			if end := x + g.Advance; end > width {
				width = end
			}
		}
		offset += len(l) + 1 // skip the '\n'
		line++
	}

	out.Lines = line
	out.Width = width
	out.Height = float32(line) * a.lineHeight
	if box.FixedWidth {
		out.Width = box.Width
	}
	if box.FixedHeight {
		out.Height = box.Height
	}
	return out
}

func (a *Atlas) appendGlyph(out *Layout, r rune, x, y float32, flip bool) {
	g, ok := a.glyphs[r]
	if !ok {
		if g, ok = a.glyphs[fallbackRune]; !ok {
			return
		}
	}
	if g.x1 <= g.x0 || g.y1 <= g.y0 {
		// Blank glyph such as a space.
		return
	}
	q := Quad{
		X0: x + g.x0, Y0: y + g.y0,
		X1: x + g.x1, Y1: y + g.y1,
		U0: g.u0, V0: g.v0,
		U1: g.u1, V1: g.v1,
	}
	if flip {
		q.Y0, q.Y1 = -q.Y1, -q.Y0
		q.V0, q.V1 = q.V1, q.V0
	}
	out.Quads = append(out.Quads, q)
}

func splitLines(runes []rune) [][]rune {
	var lines [][]rune
	start := 0
	for i, r := range runes {
		if r == '\n' {
			lines = append(lines, runes[start:i])
			start = i + 1
		}
	}
	return append(lines, runes[start:])
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
