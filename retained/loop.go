package retained

import (
	"time"

	"gioui.org/f32"

	"github.com/agiangrant/anchorui/glyph"
	"github.com/agiangrant/anchorui/internal/log"
	"github.com/agiangrant/anchorui/scene"
)

// Platform is what the System needs to know about the host.
type Platform interface {
	// CanvasSize is the size of the drawable area in pixels. Root nodes
	// anchor against it.
	CanvasSize() (width, height float32)

	// Camera2D reports whether the UI is drawn with an orthographic camera.
	Camera2D() bool

	// BottomLeftTextureOrigin reports whether framebuffer textures are
	// stored bottom row first.
	BottomLeftTextureOrigin() bool

	ShowVirtualKeyboard(text string)
	HideVirtualKeyboard()
}

// FontService hands out glyph atlases. glyph.Pool implements it.
type FontService interface {
	Atlas(name string, size int) (*glyph.Atlas, error)
}

// SystemConfig configures a System.
type SystemConfig struct {
	// MaxContainerBoxes is the most children a container lays out. Extra
	// children are detached from it (default: 100).
	MaxContainerBoxes int

	// CursorBlinkInterval is the time between text edit cursor toggles
	// (default: 600ms).
	CursorBlinkInterval time.Duration

	// MaxTextSize is the initial glyph capacity of new text (default: 100).
	MaxTextSize int

	// FontSize is the size of new text in pixels (default: 40).
	FontSize int

	// TextureCutFactor is copied into new images.
	TextureCutFactor float32

	// ResizeMargin is the border probe width of new panels (default: 4).
	ResizeMargin float32
}

// DefaultSystemConfig returns sensible defaults.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		MaxContainerBoxes:   100,
		CursorBlinkInterval: 600 * time.Millisecond,
		MaxTextSize:         100,
		FontSize:            40,
		ResizeMargin:        4,
	}
}

func (c *SystemConfig) withDefaults() {
	d := DefaultSystemConfig()
	if c.MaxContainerBoxes < 1 {
		c.MaxContainerBoxes = d.MaxContainerBoxes
	}
	if c.CursorBlinkInterval <= 0 {
		c.CursorBlinkInterval = d.CursorBlinkInterval
	}
	if c.MaxTextSize < 1 {
		c.MaxTextSize = d.MaxTextSize
	}
	if c.FontSize < 1 {
		c.FontSize = d.FontSize
	}
	if c.ResizeMargin <= 0 {
		c.ResizeMargin = d.ResizeMargin
	}
}

type componentTypes struct {
	transform scene.ComponentType
	layout    scene.ComponentType
	ui        scene.ComponentType
	image     scene.ComponentType
	text      scene.ComponentType
	polygon   scene.ComponentType
	container scene.ComponentType
	button    scene.ComponentType
	panel     scene.ComponentType
	scrollbar scene.ComponentType
	textEdit  scene.ComponentType
}

// System runs the UI pipeline over a scene: it resolves layout once per
// frame, rebuilds stale geometry, expands compound widgets and routes input.
//
// A System is not safe for concurrent use. Call Update, the input methods
// and Sync from the same goroutine.
type System struct {
	scene    *scene.Scene
	platform Platform
	fonts    FontService
	config   SystemConfig
	types    componentTypes

	focused              scene.Entity
	lastUIFromPointer    scene.Entity
	lastPanelFromPointer scene.Entity
	lastPointerPos       f32.Point

	frameCount uint64
	created    int
}

// NewSystem creates a System for sc. Zero config fields take their defaults.
func NewSystem(sc *scene.Scene, platform Platform, fonts FontService, config SystemConfig) *System {
	config.withDefaults()
	s := &System{
		scene:          sc,
		platform:       platform,
		fonts:          fonts,
		config:         config,
		lastPointerPos: f32.Pt(-1, -1),
		types: componentTypes{
			transform: scene.Register[scene.Transform](sc),
			layout:    scene.Register[Layout](sc),
			ui:        scene.Register[UIComponent](sc),
			image:     scene.Register[Image](sc),
			text:      scene.Register[Text](sc),
			polygon:   scene.Register[Polygon](sc),
			container: scene.Register[Container](sc),
			button:    scene.Register[Button](sc),
			panel:     scene.Register[Panel](sc),
			scrollbar: scene.Register[Scrollbar](sc),
			textEdit:  scene.Register[TextEdit](sc),
		},
	}
	sc.OnEntityDestroyed(s.EntityDestroyed)
	sc.OnComponentRemoved(s.componentRemoved)
	return s
}

// Scene returns the scene the System runs on.
func (s *System) Scene() *scene.Scene { return s.scene }

// Config returns the configuration in use.
func (s *System) Config() SystemConfig { return s.config }

// Stats returns system statistics.
func (s *System) Stats() SystemStats {
	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()
	ents = s.scene.AppendEntities(ents, s.types.layout)
	return SystemStats{
		FrameCount: s.frameCount,
		Nodes:      len(ents),
	}
}

// SystemStats contains per-system counters.
type SystemStats struct {
	FrameCount uint64
	Nodes      int
}

// ============================================================================
// Frame
// ============================================================================

// Load resolves the scene before its first frame. Compound widgets create
// their auxiliary children during a frame, so frames are repeated until no
// new node appears.
func (s *System) Load() {
	const maxLoadFrames = 4
	for range maxLoadFrames {
		s.created = 0
		s.Update(0)
		if s.created == 0 {
			return
		}
	}
}

// Update runs one frame. dt is the time since the previous frame in
// seconds and drives the cursor blink.
//
// The frame runs three passes over the nodes:
//  1. in hierarchy order, containers forget their boxes and every visible
//     child of a container takes the next box;
//  2. in reverse order, so children come before parents, geometry is built
//     with the current sizes, each child reports its size to its box and
//     containers sum their boxes;
//  3. in hierarchy order, anchors are resolved against the parent box,
//     containers place their boxes and nodes whose size changed are rebuilt.
//
// World transforms are propagated at the end of the frame.
func (s *System) Update(dt float64) {
	s.frameCount++

	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()

	ents = s.scene.AppendEntities(ents[:0], s.types.layout)
	for _, e := range ents {
		if !s.scene.Exists(e) {
			continue
		}
		if c := scene.FindComponent[Container](s.scene, e); c != nil {
			c.resetBoxes()
			c.pruneExpand(func(child scene.Entity) bool {
				return s.scene.Parent(child) == e && scene.FindComponent[Layout](s.scene, child) != nil
			})
		}
		tr := scene.FindComponent[scene.Transform](s.scene, e)
		if tr == nil {
			continue
		}
		l := scene.GetComponent[Layout](s.scene, e)
		l.ContainerBoxIndex = -1
		s.registerBox(e, tr, l)
	}

	ents = s.scene.AppendEntities(ents[:0], s.types.layout)
	for i := len(ents) - 1; i >= 0; i-- {
		e := ents[i]
		if !s.scene.Exists(e) {
			continue
		}
		tr := scene.FindComponent[scene.Transform](s.scene, e)
		if tr == nil {
			continue
		}
		l := scene.GetComponent[Layout](s.scene, e)
		s.updateComponent(e, l, 0, false)

		if c := scene.FindComponent[Container](s.scene, e); c != nil {
			c.aggregate(l)
		}
		if l.ContainerBoxIndex >= 0 {
			pc := scene.FindComponent[Container](s.scene, tr.Parent)
			if pc != nil && l.ContainerBoxIndex < len(pc.Boxes) {
				pc.Boxes[l.ContainerBoxIndex].Rect = Bounds{Width: l.Width, Height: l.Height}
			}
		}
	}

	ents = s.scene.AppendEntities(ents[:0], s.types.layout)
	for _, e := range ents {
		if !s.scene.Exists(e) {
			continue
		}
		tr := scene.FindComponent[scene.Transform](s.scene, e)
		if tr == nil {
			continue
		}
		l := scene.GetComponent[Layout](s.scene, e)
		s.resolveAnchors(tr, l)

		if c := scene.FindComponent[Container](s.scene, e); c != nil {
			c.place(l)
		}
		if l.NeedUpdateSizes {
			s.markSizeChanged(e)
			l.NeedUpdateSizes = false
		}
		s.updateComponent(e, l, dt, true)
	}

	s.scene.UpdateTransforms()
}

// markSizeChanged flags everything of e whose geometry depends on its size.
// Text only depends on the node size when its box is fixed.
func (s *System) markSizeChanged(e scene.Entity) {
	if img := scene.FindComponent[Image](s.scene, e); img != nil {
		img.NeedUpdatePatches = true
	}
	if t := scene.FindComponent[Text](s.scene, e); t != nil && (t.FixedWidth || t.FixedHeight) {
		t.NeedUpdateText = true
	}
	if sb := scene.FindComponent[Scrollbar](s.scene, e); sb != nil {
		sb.NeedUpdateScrollbar = true
	}
	if te := scene.FindComponent[TextEdit](s.scene, e); te != nil {
		te.NeedUpdateTextEdit = true
	}
}

// updateComponent rebuilds whatever is stale on e. Compound widgets go
// first since they may resize the node their image is built from.
func (s *System) updateComponent(e scene.Entity, l *Layout, dt float64, blink bool) {
	ui := scene.FindComponent[UIComponent](s.scene, e)
	if ui == nil {
		return
	}
	sig := s.scene.Signature(e)

	if sig.Test(s.types.button) {
		if b := scene.GetComponent[Button](s.scene, e); b.NeedUpdateButton {
			s.updateButton(e, b, ui)
			b.NeedUpdateButton = false
		}
	}
	if sig.Test(s.types.panel) && sig.Test(s.types.image) {
		if p := scene.GetComponent[Panel](s.scene, e); p.NeedUpdatePanel {
			s.updatePanel(e, p, scene.GetComponent[Image](s.scene, e))
			p.NeedUpdatePanel = false
		}
	}
	if sig.Test(s.types.scrollbar) {
		if sb := scene.GetComponent[Scrollbar](s.scene, e); sb.NeedUpdateScrollbar {
			s.updateScrollbar(e, sb, l)
			sb.NeedUpdateScrollbar = false
		}
	}
	if sig.Test(s.types.textEdit) && sig.Test(s.types.image) {
		te := scene.GetComponent[TextEdit](s.scene, e)
		if te.NeedUpdateTextEdit {
			s.updateTextEdit(e, te, scene.GetComponent[Image](s.scene, e), l)
			te.NeedUpdateTextEdit = false
		}
		if blink {
			s.blinkCursor(dt, te, ui)
		}
	}

	if sig.Test(s.types.image) {
		s.updateImage(scene.GetComponent[Image](s.scene, e), ui, l)
	}
	if sig.Test(s.types.text) {
		s.updateText(scene.GetComponent[Text](s.scene, e), ui, l)
	}
	if sig.Test(s.types.polygon) {
		s.updatePolygon(scene.GetComponent[Polygon](s.scene, e), ui, l)
	}
}

// ============================================================================
// Renderer hand-off
// ============================================================================

// Sync calls fn for every node whose geometry or texture the renderer has
// not seen yet, in draw order, and then marks the node as consumed. fn may
// be nil to only acknowledge.
func (s *System) Sync(fn func(e scene.Entity, ui *UIComponent)) {
	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()
	ents = s.scene.AppendEntities(ents, s.types.ui)

	for _, e := range ents {
		ui := scene.GetComponent[UIComponent](s.scene, e)
		if ui.Loaded && !ui.NeedReload && !ui.NeedUpdateBuffer && !ui.NeedUpdateTexture {
			continue
		}
		if fn != nil {
			fn(e, ui)
		}
		ui.Loaded = true
		ui.NeedReload = false
		ui.NeedUpdateBuffer = false
		ui.NeedUpdateTexture = false
	}
}

// ============================================================================
// Teardown
// ============================================================================

// EntityDestroyed releases what the System holds for e. It is registered on
// the scene by NewSystem.
func (s *System) EntityDestroyed(e scene.Entity) {
	sig := s.scene.Signature(e)
	if sig.Test(s.types.button) {
		s.destroyButton(scene.GetComponent[Button](s.scene, e))
	}
	if sig.Test(s.types.panel) {
		s.destroyPanel(scene.GetComponent[Panel](s.scene, e))
	}
	if sig.Test(s.types.scrollbar) {
		s.destroyScrollbar(scene.GetComponent[Scrollbar](s.scene, e))
	}
	if sig.Test(s.types.textEdit) {
		s.destroyTextEdit(scene.GetComponent[TextEdit](s.scene, e))
	}
	if sig.Test(s.types.text) {
		unloadText(scene.GetComponent[Text](s.scene, e))
	}

	if s.focused == e {
		s.focused = scene.NullEntity
	}
	if s.lastUIFromPointer == e {
		s.lastUIFromPointer = scene.NullEntity
	}
	if s.lastPanelFromPointer == e {
		s.lastPanelFromPointer = scene.NullEntity
	}
}

// componentRemoved destroys the auxiliary children of a widget component
// removed from a live entity.
func (s *System) componentRemoved(e scene.Entity, t scene.ComponentType) {
	switch t {
	case s.types.button:
		s.destroyButton(scene.GetComponent[Button](s.scene, e))
	case s.types.panel:
		s.destroyPanel(scene.GetComponent[Panel](s.scene, e))
	case s.types.scrollbar:
		s.destroyScrollbar(scene.GetComponent[Scrollbar](s.scene, e))
	case s.types.textEdit:
		s.destroyTextEdit(scene.GetComponent[TextEdit](s.scene, e))
	case s.types.text:
		unloadText(scene.GetComponent[Text](s.scene, e))
	}
}

// Destroy tears down the auxiliary children of every compound widget. The
// widgets themselves stay in the scene and are expanded again by the next
// Update.
func (s *System) Destroy() {
	ents := acquireEntitySlice()
	defer func() { releaseEntitySlice(ents) }()
	ents = s.scene.AppendEntities(ents, s.types.layout)

	for _, e := range ents {
		if !s.scene.Exists(e) {
			continue
		}
		sig := s.scene.Signature(e)
		if sig.Test(s.types.button) || sig.Test(s.types.panel) ||
			sig.Test(s.types.scrollbar) || sig.Test(s.types.textEdit) {
			s.EntityDestroyed(e)
		}
	}
	log.L().Debug("ui system destroyed", "frames", s.frameCount)
}
