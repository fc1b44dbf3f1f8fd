package retained

import (
	"testing"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/scene"
)

func addSizedChildren(s *System, parent scene.Entity, sizes ...f32.Point) []scene.Entity {
	var out []scene.Entity
	for _, sz := range sizes {
		e := s.NewNode(parent)
		layoutOf(s, e).SetSize(sz.X, sz.Y)
		out = append(out, e)
	}
	return out
}

func TestContainerFlow(t *testing.T) {
	tests := []struct {
		name          string
		typ           ContainerType
		width, height float32 // container size, 0 to size to content
		sizes         []f32.Point
		wantW, wantH  float32
		wantPos       []f32.Point
	}{
		{
			name:    "horizontal sizes to content",
			typ:     ContainerHorizontal,
			sizes:   []f32.Point{{X: 10, Y: 5}, {X: 20, Y: 10}, {X: 30, Y: 15}},
			wantW:   60,
			wantH:   15,
			wantPos: []f32.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 30, Y: 0}},
		},
		{
			name:    "vertical sizes to content",
			typ:     ContainerVertical,
			sizes:   []f32.Point{{X: 10, Y: 5}, {X: 20, Y: 10}, {X: 30, Y: 15}},
			wantW:   30,
			wantH:   30,
			wantPos: []f32.Point{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 0, Y: 15}},
		},
		{
			name:    "float wraps at the right edge",
			typ:     ContainerFloat,
			width:   25,
			height:  50,
			sizes:   []f32.Point{{X: 10, Y: 5}, {X: 10, Y: 5}, {X: 10, Y: 5}},
			wantW:   25,
			wantH:   50,
			wantPos: []f32.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSystem(t, SystemConfig{})
			c := s.NewContainer(scene.NullEntity, tt.typ)
			if tt.width > 0 {
				layoutOf(s, c).SetSize(tt.width, tt.height)
			}
			kids := addSizedChildren(s, c, tt.sizes...)

			s.Update(0)

			if l := layoutOf(s, c); l.Width != tt.wantW || l.Height != tt.wantH {
				t.Errorf("container size = %vx%v, want %vx%v", l.Width, l.Height, tt.wantW, tt.wantH)
			}
			for i, k := range kids {
				if got := transformOf(s, k).Position; got != tt.wantPos[i] {
					t.Errorf("child %d at %v, want %v", i, got, tt.wantPos[i])
				}
				if got := layoutOf(s, k).ContainerBoxIndex; got != i {
					t.Errorf("child %d box index = %d", i, got)
				}
			}
		})
	}
}

func TestContainerExpand(t *testing.T) {
	s, _ := newTestSystem(t, SystemConfig{})
	c := s.NewContainer(scene.NullEntity, ContainerHorizontal)
	layoutOf(s, c).SetSize(70, 20)
	kids := addSizedChildren(s, c, f32.Pt(10, 5), f32.Pt(20, 10), f32.Pt(30, 15))
	s.SetExpand(kids[2], true)
	layoutOf(s, kids[2]).SetAnchorPreset(AnchorFullLayout)

	for range 2 {
		s.Update(0)

		box := scene.GetComponent[Container](s.scene, c).Boxes[2].Rect
		if want := (Bounds{X: 30, Width: 40, Height: 20}); box != want {
			t.Fatalf("expanding box = %+v, want %+v", box, want)
		}
		l := layoutOf(s, kids[2])
		if p := transformOf(s, kids[2]).Position; p != f32.Pt(30, 0) || l.Width != 40 || l.Height != 20 {
			t.Errorf("expanding child at %v size %vx%v, want (30,0) 40x20", p, l.Width, l.Height)
		}
	}
}

func TestContainerExpandCarriesRemainder(t *testing.T) {
	s, _ := newTestSystem(t, SystemConfig{})
	c := s.NewContainer(scene.NullEntity, ContainerHorizontal)
	layoutOf(s, c).SetSize(71, 10)
	kids := addSizedChildren(s, c, f32.Pt(10, 10), f32.Pt(10, 10))
	for _, k := range kids {
		s.SetExpand(k, true)
	}

	s.Update(0)

	boxes := scene.GetComponent[Container](s.scene, c).Boxes
	if boxes[0].Rect.Width != 35 || boxes[1].Rect.X != 35 || boxes[1].Rect.Width != 36 {
		t.Errorf("boxes = %+v, %+v; want widths 35 and 36", boxes[0].Rect, boxes[1].Rect)
	}
}

func TestContainerExpandFillsLength(t *testing.T) {
	tests := []struct {
		length float32
		want   []float32
	}{
		{100, []float32{33, 33, 34}},
		{101, []float32{33, 34, 34}},
		{10, []float32{3, 3, 4}},
		{7, []float32{2, 2, 3}},
		{1000, []float32{333, 333, 334}},
	}

	for _, tt := range tests {
		for _, typ := range []ContainerType{ContainerHorizontal, ContainerVertical} {
			c := Container{Type: typ}
			for range 3 {
				c.Boxes = append(c.Boxes, ContainerBox{Rect: Bounds{Width: 1, Height: 1}, Expand: true})
			}
			l := Layout{Width: tt.length, Height: tt.length}
			c.aggregate(&l)
			c.place(&l)

			var end float32
			for i, b := range c.Boxes {
				start, size := b.Rect.X, b.Rect.Width
				if typ == ContainerVertical {
					start, size = b.Rect.Y, b.Rect.Height
				}
				if start != end || size != tt.want[i] {
					t.Errorf("%v length %v: box %d at %v size %v, want %v size %v", typ, tt.length, i, start, size, end, tt.want[i])
				}
				end = start + size
			}
			if end != tt.length {
				t.Errorf("%v length %v: boxes end at %v", typ, tt.length, end)
			}
		}
	}
}

func TestContainerNeverShrinksBelowContent(t *testing.T) {
	c := Container{Type: ContainerHorizontal, Boxes: []ContainerBox{
		{Rect: Bounds{Width: 30}},
		{Rect: Bounds{Width: 20}, Expand: true},
	}}
	l := Layout{Width: 40, Height: 10}
	c.aggregate(&l)
	c.place(&l)
	if w := c.Boxes[1].Rect.Width; w != 20 {
		t.Errorf("expanding box width = %v, want its natural 20", w)
	}
}

func TestContainerOversizedChild(t *testing.T) {
	c := Container{Type: ContainerHorizontal, Boxes: []ContainerBox{
		{Rect: Bounds{Width: 500}},
		{Rect: Bounds{Width: 10}},
	}}
	l := Layout{Width: 100, Height: 10}
	c.aggregate(&l)
	c.place(&l)
	if w := c.Boxes[0].Rect.Width; w != 50 {
		t.Errorf("oversized box width = %v, want 50", w)
	}
	if x := c.Boxes[1].Rect.X; x != 50 {
		t.Errorf("next box x = %v, want 50", x)
	}
}

func TestContainerOverflowDetaches(t *testing.T) {
	s, _ := newTestSystem(t, SystemConfig{MaxContainerBoxes: 2})
	c := s.NewContainer(scene.NullEntity, ContainerVertical)
	kids := addSizedChildren(s, c, f32.Pt(10, 10), f32.Pt(10, 10), f32.Pt(10, 10))

	s.Update(0)

	if got := len(scene.GetComponent[Container](s.scene, c).Boxes); got != 2 {
		t.Errorf("container holds %d boxes, want 2", got)
	}
	if p := s.scene.Parent(kids[2]); p != scene.NullEntity {
		t.Errorf("overflowing child parent = %v, want none", p)
	}
	if got := transformOf(s, kids[2]).Parent; got != scene.NullEntity {
		t.Errorf("overflowing child transform parent = %v", got)
	}
}

func TestHiddenChildrenTakeNoBox(t *testing.T) {
	s, _ := newTestSystem(t, SystemConfig{})
	c := s.NewContainer(scene.NullEntity, ContainerHorizontal)
	kids := addSizedChildren(s, c, f32.Pt(10, 10), f32.Pt(20, 10), f32.Pt(30, 10))
	transformOf(s, kids[1]).Visible = false

	s.Update(0)

	if w := layoutOf(s, c).Width; w != 40 {
		t.Errorf("container width = %v, want 40", w)
	}
	if p := transformOf(s, kids[2]).Position; p != f32.Pt(10, 0) {
		t.Errorf("third child at %v, want (10,0)", p)
	}
	if idx := layoutOf(s, kids[1]).ContainerBoxIndex; idx != -1 {
		t.Errorf("hidden child box index = %d, want -1", idx)
	}
}
