package glyph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gioui.org/f32"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

func basicAtlas() *Atlas {
	return NewAtlas("basic", basicfont.Face7x13, nil, nil)
}

func TestAtlasMetrics(t *testing.T) {
	a := basicAtlas()
	if a.Ascent() != 11 || a.Descent() != 2 || a.LineHeight() != 13 {
		t.Errorf("metrics = %v/%v/%v, want 11/2/13", a.Ascent(), a.Descent(), a.LineHeight())
	}
	h := a.Image().Bounds().Dy()
	if h&(h-1) != 0 {
		t.Errorf("atlas height %d is not a power of two", h)
	}
	if w := a.Image().Bounds().Dx(); w != atlasWidth {
		t.Errorf("atlas width = %d, want %d", w, atlasWidth)
	}
}

func TestAtlasLayout(t *testing.T) {
	a := basicAtlas()

	tests := []struct {
		name      string
		text      string
		box       Box
		width     float32
		height    float32
		lines     int
		charIndex int
		charPos   f32.Point
	}{
		{
			name:      "single line",
			text:      "abc",
			width:     21,
			height:    13,
			lines:     1,
			charIndex: 2,
			charPos:   f32.Pt(14, 0),
		},
		{
			name:      "newline ignored without multiline",
			text:      "a\nb",
			width:     21,
			height:    13,
			lines:     1,
			charIndex: 2,
			charPos:   f32.Pt(14, 0),
		},
		{
			name:      "explicit lines",
			text:      "ab\ncd",
			box:       Box{Multiline: true},
			width:     14,
			height:    26,
			lines:     2,
			charIndex: 4,
			charPos:   f32.Pt(7, 13),
		},
		{
			name:      "wrapped at fixed width",
			text:      "abcd",
			box:       Box{Width: 15, FixedWidth: true, Multiline: true},
			width:     15,
			height:    26,
			lines:     2,
			charIndex: 2,
			charPos:   f32.Pt(0, 13),
		},
		{
			name:      "fixed height",
			text:      "abc",
			box:       Box{Height: 40, FixedHeight: true},
			width:     21,
			height:    40,
			lines:     1,
			charIndex: 0,
			charPos:   f32.Pt(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := a.Layout(tt.text, tt.box)
			if l.Width != tt.width || l.Height != tt.height {
				t.Errorf("size = %vx%v, want %vx%v", l.Width, l.Height, tt.width, tt.height)
			}
			if l.Lines != tt.lines {
				t.Errorf("lines = %d, want %d", l.Lines, tt.lines)
			}
			if len(l.CharPositions) != len([]rune(tt.text)) {
				t.Fatalf("len(CharPositions) = %d, want %d", len(l.CharPositions), len([]rune(tt.text)))
			}
			if got := l.CharPositions[tt.charIndex]; got != tt.charPos {
				t.Errorf("CharPositions[%d] = %v, want %v", tt.charIndex, got, tt.charPos)
			}
		})
	}
}

func TestAtlasLayoutFlipY(t *testing.T) {
	a := basicAtlas()
	down := a.Layout("A", Box{})
	up := a.Layout("A", Box{FlipY: true})
	if len(down.Quads) != 1 || len(up.Quads) != 1 {
		t.Fatalf("quads = %d/%d, want 1/1", len(down.Quads), len(up.Quads))
	}
	d, u := down.Quads[0], up.Quads[0]
	if u.Y0 != -d.Y1 || u.Y1 != -d.Y0 {
		t.Errorf("flipped y = [%v,%v], want [%v,%v]", u.Y0, u.Y1, -d.Y1, -d.Y0)
	}
	if u.V0 != d.V1 || u.V1 != d.V0 {
		t.Errorf("flipped v = [%v,%v], want [%v,%v]", u.V0, u.V1, d.V1, d.V0)
	}
	if d.Y0 >= 0 {
		t.Errorf("glyph top %v should be above the baseline", d.Y0)
	}
}

func TestPoolCachesAndEvicts(t *testing.T) {
	p := NewPool(2)

	a, err := p.Atlas("", 16)
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	b, err := p.Atlas(DefaultFont, 16)
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	if a != b {
		t.Error("empty name and DefaultFont returned different atlases")
	}
	if a.ID() != "font|16" {
		t.Errorf("ID = %q", a.ID())
	}

	if _, err := p.Atlas(BasicFont, 0); err != nil {
		t.Fatalf("basic: %v", err)
	}
	if _, err := p.Atlas(DefaultFont, 24); err != nil {
		t.Fatalf("Atlas 24: %v", err)
	}
	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2", p.Len())
	}
	c, _ := p.Atlas("", 16)
	if c == a {
		t.Error("evicted atlas was returned from the cache")
	}
}

func TestPoolUnknownFont(t *testing.T) {
	p := NewPool(0)
	if _, err := p.Atlas("missing", 12); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("err = %v, want ErrUnknownFont", err)
	}
	if _, err := p.Atlas("", 0); err == nil {
		t.Error("zero size accepted")
	}
}

func TestPoolRegisterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPool(0)
	if err := p.RegisterFile("mono", path); err != nil {
		t.Fatalf("RegisterFile: %v", err)
	}
	if err := p.RegisterFile("bad", bad); err == nil {
		t.Error("invalid font accepted")
	}

	a, err := p.Atlas("mono", 20)
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	l := a.Layout("iiii", Box{})
	mono := l.CharPositions[1].X
	if mono <= 0 || l.CharPositions[3].X != 3*mono {
		t.Errorf("monospace positions = %v", l.CharPositions)
	}
}

func TestHarfbuzzLayout(t *testing.T) {
	a, err := NewPool(0).Atlas("", 24)
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	l := a.Layout("Hello", Box{})
	if len(l.Quads) != 5 {
		t.Errorf("quads = %d, want 5", len(l.Quads))
	}
	for i := 1; i < len(l.CharPositions); i++ {
		if l.CharPositions[i].X <= l.CharPositions[i-1].X {
			t.Errorf("CharPositions not increasing: %v", l.CharPositions)
			break
		}
	}
	if l.Width <= l.CharPositions[4].X {
		t.Errorf("width %v does not cover last glyph at %v", l.Width, l.CharPositions[4].X)
	}
}
