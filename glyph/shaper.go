package glyph

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Positioned is a shaped glyph on a single line.
type Positioned struct {
	Rune    rune
	Cluster int // index of the first input rune the glyph represents
	X, Y    float32
	Advance float32
}

// Shaper positions the glyphs of one line, pen starting at x=0.
type Shaper interface {
	Shape(line []rune) []Positioned
}

// FaceShaper positions glyphs with the advances and kerning pairs of an
// x/image font.Face. It handles scripts that need no contextual shaping.
type FaceShaper struct {
	Face font.Face
}

// Shape implements Shaper.
func (s FaceShaper) Shape(line []rune) []Positioned {
	out := make([]Positioned, 0, len(line))
	var x fixed.Int26_6
	prev := rune(-1)
	for i, r := range line {
		if prev >= 0 {
			x += s.Face.Kern(prev, r)
		}
		adv, ok := s.Face.GlyphAdvance(r)
		if !ok {
			adv, _ = s.Face.GlyphAdvance(fallbackRune)
		}
		out = append(out, Positioned{
			Rune:    r,
			Cluster: i,
			X:       fixedToFloat(x),
			Advance: fixedToFloat(adv),
		})
		x += adv
		prev = r
	}
	return out
}

// HarfbuzzShaper shapes lines with go-text/typesetting, which applies
// OpenType kerning, ligatures and mark positioning.
type HarfbuzzShaper struct {
	font *gotext.Font
	size fixed.Int26_6
	hb   shaping.HarfbuzzShaper
}

// NewHarfbuzzShaper parses ttf and returns a shaper for the given pixel size.
func NewHarfbuzzShaper(ttf []byte, size float64) (*HarfbuzzShaper, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("parse font for shaping: %w", err)
	}
	return &HarfbuzzShaper{
		font: face.Font,
		size: fixed.Int26_6(size * 64),
	}, nil
}

// Shape implements Shaper. A HarfbuzzShaper must not be used concurrently.
func (s *HarfbuzzShaper) Shape(line []rune) []Positioned {
	if len(line) == 0 {
		return nil
	}
	input := shaping.Input{
		Text:      line,
		RunStart:  0,
		RunEnd:    len(line),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(s.font),
		Size:      s.size,
		Script:    scriptOf(line),
		Language:  language.NewLanguage("en"),
	}
	output := s.hb.Shape(input)

	out := make([]Positioned, 0, len(output.Glyphs))
	var pen float32
	for _, g := range output.Glyphs {
		cluster := g.TextIndex()
		if cluster < 0 || cluster >= len(line) {
			cluster = len(line) - 1
		}
		adv := fixedToFloat(g.Advance)
		out = append(out, Positioned{
			Rune:    line[cluster],
			Cluster: cluster,
			X:       pen + fixedToFloat(g.XOffset),
			// go-text offsets are y-up.
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		})
		pen += adv
	}
	return out
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(line []rune) language.Script {
	for _, r := range line {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
