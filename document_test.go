package anchorui

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agiangrant/anchorui/retained"
	"github.com/agiangrant/anchorui/scene"
)

const layoutDoc = `
[[node]]
name = "window"
kind = "panel"
text = "Title"
font = "basic"
anchor = "center"
size = [100, 50]
margin = [2, 10, 2, 2]
texture = { id = "panel", width = 32, height = 32 }

[[node]]
name = "row"
kind = "container"
parent = "window"
container = "horizontal"
anchor = "full_layout"

[[node]]
name = "a"
kind = "image"
parent = "row"
size = [20, 10]

[[node]]
name = "b"
kind = "image"
parent = "row"
size = [10, 10]
expand = true

[[node]]
name = "label"
kind = "text"
text = "abc"
font = "basic"
position = [5, 6]

[[node]]
name = "tri"
kind = "polygon"
color = "#ff0000"
points = [[0, 0], [10, 0], [0, 8]]
position = [150, 150]
`

func newTestEngine(t *testing.T, doc string) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Canvas.Width = 200
	cfg.Canvas.Height = 200
	e, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if doc != "" {
		d, err := ParseDocument(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ParseDocument: %v", err)
		}
		if err := e.Build(d); err != nil {
			t.Fatalf("Build: %v", err)
		}
	}
	e.Load()
	return e
}

func mustNode(t *testing.T, e *Engine, name string) scene.Entity {
	t.Helper()
	ent, err := e.Node(name)
	if err != nil {
		t.Fatal(err)
	}
	return ent
}

func TestBuildLayout(t *testing.T) {
	e := newTestEngine(t, layoutDoc)

	tests := []struct {
		name string
		want retained.Bounds
	}{
		{"window", retained.Bounds{X: 50, Y: 75, Width: 100, Height: 50}},
		{"row", retained.Bounds{X: 52, Y: 85, Width: 96, Height: 38}},
		{"a", retained.Bounds{X: 52, Y: 85, Width: 20, Height: 10}},
		{"b", retained.Bounds{X: 72, Y: 85, Width: 10, Height: 10}},
		{"label", retained.Bounds{X: 5, Y: 6, Width: 21, Height: 13}},
		{"tri", retained.Bounds{X: 150, Y: 150, Width: 10, Height: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Bounds(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("bounds = %+v, want %+v", got, tt.want)
			}
		})
	}

	row := scene.GetComponent[retained.Container](e.Scene(), mustNode(t, e, "row"))
	if len(row.Boxes) != 2 || row.Boxes[1].Rect.Width != 76 {
		t.Errorf("row boxes = %+v, want the expanding box 76 wide", row.Boxes)
	}
	if title := e.System().PanelTitle(mustNode(t, e, "window")); title.Text != "Title" || title.Font != "basic" {
		t.Errorf("panel title = %q in %q", title.Text, title.Font)
	}
	tri := scene.GetComponent[retained.UIComponent](e.Scene(), mustNode(t, e, "tri"))
	if red := (color.NRGBA{R: 0xff, A: 0xff}); len(tri.Vertices) != 3 || tri.Vertices[2].Color != red {
		t.Errorf("polygon vertices = %+v", tri.Vertices)
	}
	if got := e.Nodes(); strings.Join(got, ",") != "window,row,a,b,label,tri" {
		t.Errorf("Nodes() = %v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown parent",
			doc:  "[[node]]\nname = \"a\"\nparent = \"nope\"\n",
			want: ErrUnknownParent,
		},
		{
			name: "parent declared later",
			doc:  "[[node]]\nname = \"a\"\nparent = \"b\"\n[[node]]\nname = \"b\"\n",
			want: ErrUnknownParent,
		},
		{
			name: "duplicate name",
			doc:  "[[node]]\nname = \"a\"\n[[node]]\nname = \"a\"\n",
			want: ErrDuplicateNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, "")
			doc, err := ParseDocument(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("ParseDocument: %v", err)
			}
			if err := e.Build(doc); !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "[[node]]\nkind = \"slider\"\n"},
		{"unknown key", "[[node]]\nwidth = 3\n"},
		{"unknown anchor", "[[node]]\nanchor = \"middle\"\n"},
		{"short size", "[[node]]\nsize = [3]\n"},
		{"bad margin", "[[node]]\nkind = \"image\"\nmargin = [1, 2]\n"},
		{"bad point", "[[node]]\nkind = \"polygon\"\npoints = [[1, 2, 3]]\n"},
		{"points on image", "[[node]]\nkind = \"image\"\npoints = [[1, 2]]\n"},
		{"bad color", "[[node]]\ncolor = \"red\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.toml")
	if err := os.WriteFile(path, []byte(layoutDoc), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 6 || doc.Nodes[0].Kind != KindPanel || doc.Nodes[1].Container != retained.ContainerHorizontal {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
}

func TestNodeKindText(t *testing.T) {
	tests := []struct {
		in   string
		want NodeKind
	}{
		{"node", KindNode},
		{"Image", KindImage},
		{"textedit", KindTextEdit},
		{"text_edit", KindTextEdit},
		{"text-edit", KindTextEdit},
		{"scrollbar", KindScrollbar},
	}
	for _, tt := range tests {
		var k NodeKind
		if err := k.UnmarshalText([]byte(tt.in)); err != nil || k != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", tt.in, k, err, tt.want)
		}
	}

	var k NodeKind
	if err := k.UnmarshalText([]byte("slider")); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestColorText(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#fff", want: Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "#102030", want: Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{in: "#10203040", want: Color{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: "102030", wantErr: true},
		{in: "#1020", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Color
			err := c.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c != tt.want {
				t.Errorf("color = %v, want %v", c, tt.want)
			}
		})
	}

	if b, _ := (Color{R: 1, G: 2, B: 3, A: 4}).MarshalText(); string(b) != "#01020304" {
		t.Errorf("MarshalText = %q", b)
	}
}
