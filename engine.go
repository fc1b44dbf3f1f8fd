package anchorui

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/agiangrant/anchorui/glyph"
	"github.com/agiangrant/anchorui/internal/log"
	"github.com/agiangrant/anchorui/retained"
	"github.com/agiangrant/anchorui/scene"
)

// ErrUnknownNode is returned when a node name is not registered.
var ErrUnknownNode = errors.New("unknown node")

// Renderer consumes the geometry of UI nodes. Upload is called once per
// frame for every node that is new or changed since the previous frame.
type Renderer interface {
	Upload(e scene.Entity, ui *retained.UIComponent)
}

// Engine ties a scene, the layout system, the font pool and a platform
// together and drives them one frame at a time.
type Engine struct {
	scene    *scene.Scene
	system   *retained.System
	fonts    *glyph.Pool
	platform retained.Platform
	config   Config
	renderer Renderer

	// Input received between frames, dispatched after the next layout pass.
	queue []retained.InputEvent

	nodes map[string]scene.Entity
	order []string

	// OnDispatch, when set, is called for every routed event with whether
	// a node consumed it.
	OnDispatch func(ev retained.InputEvent, consumed bool)
}

// NewEngine creates a new engine with the given configuration. A nil
// platform selects a HeadlessPlatform for config.Canvas.
func NewEngine(config Config, platform retained.Platform) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if platform == nil {
		platform = NewHeadlessPlatform(config.Canvas)
	}

	fonts := glyph.NewPool(config.UI.FontPoolSize)
	for _, name := range slices.Sorted(maps.Keys(config.Fonts)) {
		if err := fonts.RegisterFile(name, config.Fonts[name]); err != nil {
			return nil, fmt.Errorf("failed to load font %q: %w", name, err)
		}
	}

	sc := scene.New()
	e := &Engine{
		scene:    sc,
		system:   retained.NewSystem(sc, platform, fonts, config.SystemConfig()),
		fonts:    fonts,
		platform: platform,
		config:   config,
		nodes:    make(map[string]scene.Entity),
	}
	log.L().Debug("engine created", "width", config.Canvas.Width, "height", config.Canvas.Height, "fonts", len(config.Fonts))
	return e, nil
}

// Scene returns the entity store the UI lives in.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// System returns the layout and input system.
func (e *Engine) System() *retained.System { return e.system }

// Fonts returns the font pool. Fonts registered on it are available to
// text nodes by name.
func (e *Engine) Fonts() *glyph.Pool { return e.fonts }

// Platform returns the platform the engine was created with.
func (e *Engine) Platform() retained.Platform { return e.platform }

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.config }

// SetRenderer sets the renderer fed by Frame. Nodes already loaded by a
// previous renderer are not uploaded again until they change.
func (e *Engine) SetRenderer(r Renderer) { e.renderer = r }

// Frame advances the UI by dt seconds: it lays out and rebuilds the tree,
// routes the input queued since the last frame and hands changed geometry
// to the renderer. It returns how many events were consumed by a node.
func (e *Engine) Frame(dt float64) (consumed int) {
	e.system.Update(dt)

	queue := e.queue
	e.queue = nil
	for _, ev := range queue {
		ok := e.system.Dispatch(ev)
		if ok {
			consumed++
		}
		if e.OnDispatch != nil {
			e.OnDispatch(ev, ok)
		}
	}

	if e.renderer != nil {
		e.system.Sync(e.renderer.Upload)
	}
	return consumed
}

// Load runs frames until every compound widget of the tree is expanded.
func (e *Engine) Load() {
	e.system.Load()
}

// Close tears down every compound widget.
func (e *Engine) Close() {
	e.system.Destroy()
	e.queue = nil
}

// Post queues ev for the next frame.
func (e *Engine) Post(ev retained.InputEvent) {
	e.queue = append(e.queue, ev)
}

// MouseDown queues a press. Only the left button reaches the UI.
func (e *Engine) MouseDown(button retained.MouseButton, x, y float32) {
	if button == retained.MouseButtonLeft {
		e.Post(retained.PointerDownEvent(x, y))
	}
}

// MouseUp queues a release. Only the left button reaches the UI.
func (e *Engine) MouseUp(button retained.MouseButton, x, y float32) {
	if button == retained.MouseButtonLeft {
		e.Post(retained.PointerUpEvent(x, y))
	}
}

// MouseMove queues a pointer move.
func (e *Engine) MouseMove(x, y float32) {
	e.Post(retained.PointerMoveEvent(x, y))
}

// TouchStart queues a press for the first touch point (id 0).
func (e *Engine) TouchStart(id int, x, y float32) {
	if id == 0 {
		e.Post(retained.PointerDownEvent(x, y))
	}
}

// TouchEnd queues a release for the first touch point (id 0).
func (e *Engine) TouchEnd(id int, x, y float32) {
	if id == 0 {
		e.Post(retained.PointerUpEvent(x, y))
	}
}

// TouchMove queues a move for the first touch point (id 0).
func (e *Engine) TouchMove(id int, x, y float32) {
	if id == 0 {
		e.Post(retained.PointerMoveEvent(x, y))
	}
}

// TextInput queues one character event per rune of text.
func (e *Engine) TextInput(text string) {
	for _, r := range text {
		e.Post(retained.CharEvent(r))
	}
}

// Node returns the entity registered under name by Build or SetNode.
func (e *Engine) Node(name string) (scene.Entity, error) {
	ent, ok := e.nodes[name]
	if !ok || !e.scene.Exists(ent) {
		return scene.NullEntity, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return ent, nil
}

// SetNode registers ent under name, replacing a previous registration.
func (e *Engine) SetNode(name string, ent scene.Entity) {
	if _, ok := e.nodes[name]; !ok {
		e.order = append(e.order, name)
	}
	e.nodes[name] = ent
}

// Nodes returns the registered names in registration order.
func (e *Engine) Nodes() []string {
	out := make([]string, 0, len(e.order))
	for _, name := range e.order {
		if e.scene.Exists(e.nodes[name]) {
			out = append(out, name)
		}
	}
	return out
}

// Bounds returns the world rectangle of the named node.
func (e *Engine) Bounds(name string) (retained.Bounds, error) {
	ent, err := e.Node(name)
	if err != nil {
		return retained.Bounds{}, err
	}
	return e.system.NodeBounds(ent), nil
}
