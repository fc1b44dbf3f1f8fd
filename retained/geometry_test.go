package retained

import (
	"image/color"
	"strings"
	"testing"

	"gioui.org/f32"
	"golang.org/x/image/font/basicfont"

	"github.com/agiangrant/anchorui/glyph"
	"github.com/agiangrant/anchorui/scene"
)

func TestBuildNinePatch(t *testing.T) {
	img := Image{}
	img.SetPatchMargin(10)
	ui := NewUIComponent()
	ui.Texture = Texture{ID: "t", Width: 64, Height: 64}
	l := Layout{Width: 100, Height: 50}

	for range 2 {
		if !buildNinePatch(&img, &ui, &l) {
			t.Fatal("buildNinePatch returned false")
		}
	}

	if len(ui.Vertices) != 16 || len(ui.Indices) != 54 {
		t.Fatalf("got %d vertices and %d indices, want 16 and 54", len(ui.Vertices), len(ui.Indices))
	}
	tests := []struct {
		index    int
		position f32.Point
		texCoord f32.Point
	}{
		{0, f32.Pt(0, 0), f32.Pt(0, 0)},
		{2, f32.Pt(100, 50), f32.Pt(1, 1)},
		{4, f32.Pt(10, 10), f32.Pt(10.0/64, 10.0/64)},
		{6, f32.Pt(90, 40), f32.Pt(1-10.0/64, 1-10.0/64)},
		{13, f32.Pt(100, 40), f32.Pt(1, 1-10.0/64)},
	}
	for _, tt := range tests {
		v := ui.Vertices[tt.index]
		if v.Position != tt.position || v.TexCoord != tt.texCoord {
			t.Errorf("vertex %d = %v %v, want %v %v", tt.index, v.Position, v.TexCoord, tt.position, tt.texCoord)
		}
	}
	for _, idx := range ui.Indices {
		if idx >= 16 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildNinePatchFlipAndCut(t *testing.T) {
	img := Image{TextureCutFactor: 1}
	ui := NewUIComponent()
	ui.Texture = Texture{Width: 64, Height: 32}
	ui.FlipY = true
	l := Layout{Width: 64, Height: 32}

	buildNinePatch(&img, &ui, &l)

	if got, want := ui.Vertices[0].TexCoord, f32.Pt(1.0/64, 1-1.0/32); got != want {
		t.Errorf("top-left texcoord = %v, want %v", got, want)
	}
	if got, want := ui.Vertices[2].TexCoord, f32.Pt(1-1.0/64, 1.0/32); got != want {
		t.Errorf("bottom-right texcoord = %v, want %v", got, want)
	}
}

func TestBuildNinePatchSize(t *testing.T) {
	t.Run("takes texture size", func(t *testing.T) {
		ui := NewUIComponent()
		ui.Texture = Texture{Width: 32, Height: 16}
		l := NewLayout()
		if !buildNinePatch(&Image{}, &ui, &l) {
			t.Fatal("buildNinePatch returned false")
		}
		if l.Width != 32 || l.Height != 16 {
			t.Errorf("size = %vx%v, want 32x16", l.Width, l.Height)
		}
	})
	t.Run("no size", func(t *testing.T) {
		ui := NewUIComponent()
		l := NewLayout()
		if buildNinePatch(&Image{}, &ui, &l) {
			t.Error("built an image without size")
		}
		if len(ui.Vertices) != 0 {
			t.Errorf("got %d vertices", len(ui.Vertices))
		}
	})
	t.Run("marks loaded buffer", func(t *testing.T) {
		ui := NewUIComponent()
		ui.Loaded = true
		l := Layout{Width: 4, Height: 4}
		buildNinePatch(&Image{}, &ui, &l)
		if !ui.NeedUpdateBuffer {
			t.Error("NeedUpdateBuffer not set on a loaded component")
		}
	})
}

func TestBuildPolygon(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	p := Polygon{Points: []PolygonPoint{
		{Position: f32.Pt(0, 0), Color: red},
		{Position: f32.Pt(10, 0), Color: red},
		{Position: f32.Pt(0, 5.5), Color: red},
		{Position: f32.Pt(10, 5.5), Color: red},
	}}
	ui := NewUIComponent()
	var l Layout

	buildPolygon(&p, &ui, &l)

	if ui.Primitive != PrimitiveTriangleStrip || len(ui.Indices) != 0 {
		t.Errorf("primitive = %v with %d indices, want strip without indices", ui.Primitive, len(ui.Indices))
	}
	if len(ui.Vertices) != 4 {
		t.Fatalf("got %d vertices, want 4", len(ui.Vertices))
	}
	if l.Width != 10 || l.Height != 5 {
		t.Errorf("size = %vx%v, want 10x5", l.Width, l.Height)
	}
	if got := ui.Vertices[3].TexCoord; got != f32.Pt(1, 1) {
		t.Errorf("last texcoord = %v, want (1,1)", got)
	}
	if got := ui.Vertices[1].Color; got != red {
		t.Errorf("vertex color = %v, want %v", got, red)
	}
}

func TestBuildPolygonDegenerate(t *testing.T) {
	p := Polygon{Points: []PolygonPoint{{Position: f32.Pt(3, 3)}, {Position: f32.Pt(3, 3)}}}
	ui := NewUIComponent()
	var l Layout
	buildPolygon(&p, &ui, &l)
	if got := ui.Vertices[0].TexCoord; got != f32.Pt(0, 0) {
		t.Errorf("texcoord = %v, want (0,0)", got)
	}
	if l.Width != 0 || l.Height != 0 {
		t.Errorf("size = %vx%v, want 0x0", l.Width, l.Height)
	}
}

func TestBuildTextGrowsCapacity(t *testing.T) {
	text := Text{
		Text:        "abcdef",
		MaxTextSize: 4,
		atlas:       glyph.NewAtlas("basic", basicfont.Face7x13, nil, nil),
	}
	ui := NewUIComponent()
	ui.Loaded = true
	var l Layout

	buildText(&text, &ui, &l)

	if text.MaxTextSize != 6 {
		t.Errorf("MaxTextSize = %d, want 6", text.MaxTextSize)
	}
	if !ui.NeedReload {
		t.Error("NeedReload not set after growing")
	}
	if ui.MinBufferCount != 24 || ui.MinIndicesCount != 36 {
		t.Errorf("buffer hints = %d/%d, want 24/36", ui.MinBufferCount, ui.MinIndicesCount)
	}
	if len(ui.Vertices) != 24 || len(ui.Indices) != 36 {
		t.Errorf("got %d vertices and %d indices, want 24 and 36", len(ui.Vertices), len(ui.Indices))
	}
	if l.Width != 42 || l.Height != 13 {
		t.Errorf("size = %vx%v, want 42x13", l.Width, l.Height)
	}
	if len(text.CharPositions) != 6 || text.CharPositions[5] != f32.Pt(35, 0) {
		t.Errorf("char positions = %v", text.CharPositions)
	}
}

func TestBuildTextCapsGlyphs(t *testing.T) {
	text := Text{
		Text:        strings.Repeat("a", maxTextQuads+10),
		MaxTextSize: 16,
		atlas:       glyph.NewAtlas("basic", basicfont.Face7x13, nil, nil),
	}
	ui := NewUIComponent()
	var l Layout

	buildText(&text, &ui, &l)

	if text.MaxTextSize != maxTextQuads {
		t.Errorf("MaxTextSize = %d, want %d", text.MaxTextSize, maxTextQuads)
	}
	if len(ui.Vertices) != maxTextQuads*4 {
		t.Errorf("got %d vertices, want %d", len(ui.Vertices), maxTextQuads*4)
	}
	if last := ui.Indices[len(ui.Indices)-1]; int(last) != len(ui.Vertices)-1 {
		t.Errorf("last index = %d, want %d", last, len(ui.Vertices)-1)
	}
}

func TestBuildTextPivot(t *testing.T) {
	atlas := glyph.NewAtlas("basic", basicfont.Face7x13, nil, nil)
	build := func(text Text) []Vertex {
		text.Text = "ab"
		text.MaxTextSize = 10
		text.atlas = atlas
		ui := NewUIComponent()
		var l Layout
		buildText(&text, &ui, &l)
		return ui.Vertices
	}

	top := build(Text{})
	baseline := build(Text{PivotBaseline: true})
	centered := build(Text{PivotCentered: true})

	if dy := top[0].Position.Y - baseline[0].Position.Y; dy != atlas.Ascent() {
		t.Errorf("top pivot is %v below baseline pivot, want %v", dy, atlas.Ascent())
	}
	if dx := top[0].Position.X - centered[0].Position.X; dx != 7 {
		t.Errorf("centered pivot shifts x by %v, want 7", dx)
	}
}

func TestTextNodeUsesFontPool(t *testing.T) {
	s, _ := newTestSystem(t, SystemConfig{})
	e := s.NewText(scene.NullEntity, "abc")
	text := scene.GetComponent[Text](s.scene, e)
	text.Font = glyph.BasicFont

	s.Update(0)

	ui := scene.GetComponent[UIComponent](s.scene, e)
	if text.Atlas() == nil || ui.Texture.ID != "basic|40" {
		t.Fatalf("texture = %+v, want the basic atlas", ui.Texture)
	}
	if l := layoutOf(s, e); l.Width != 21 || l.Height != 13 {
		t.Errorf("size = %vx%v, want 21x13", l.Width, l.Height)
	}

	text.Font = "missing"
	text.NeedReload = true
	text.NeedUpdateText = true
	s.Update(0)
	if text.NeedUpdateText {
		t.Error("failed font load left the text dirty")
	}
}

func TestChangeFlipY(t *testing.T) {
	tests := []struct {
		name        string
		perspective bool
		bottomLeft  bool
		framebuffer bool
		want        bool
	}{
		{"2d", false, false, false, false},
		{"perspective", true, false, false, true},
		{"2d framebuffer bottom-left", false, true, true, true},
		{"2d framebuffer top-left", false, false, true, false},
		{"perspective framebuffer bottom-left", true, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p := newTestSystem(t, SystemConfig{})
			p.perspective = tt.perspective
			p.bottomLeft = tt.bottomLeft
			ui := NewUIComponent()
			ui.Texture.Framebuffer = tt.framebuffer
			s.changeFlipY(&ui)
			if ui.FlipY != tt.want {
				t.Errorf("FlipY = %v, want %v", ui.FlipY, tt.want)
			}
		})
	}
}
