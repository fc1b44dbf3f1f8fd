package glyph

import (
	"container/list"
	"fmt"
	"os"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/agiangrant/anchorui/internal/log"
)

const (
	// DefaultFont is the name used when a text names no font. It is the Go
	// Regular typeface, shaped with HarfBuzz.
	DefaultFont = "font"

	// BasicFont is the fixed 7x13 bitmap face; its size is not adjustable.
	BasicFont = "basic"

	// DefaultPoolSize is the number of atlases kept by NewPool(0).
	DefaultPoolSize = 32
)

type poolEntry struct {
	key   string
	atlas *Atlas
}

// Pool creates atlases on demand and keeps the most recently used ones.
// It is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	maxSize int
	sources map[string][]byte
	cache   map[string]*list.Element
	lru     *list.List // front = most recently used
}

// NewPool returns a pool holding at most maxSize atlases, with DefaultFont
// and BasicFont available.
func NewPool(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = DefaultPoolSize
	}
	p := &Pool{
		maxSize: maxSize,
		sources: make(map[string][]byte),
		cache:   make(map[string]*list.Element),
		lru:     list.New(),
	}
	p.sources[DefaultFont] = goregular.TTF
	return p
}

// Register makes ttf available under name. Cached atlases of a previous font
// with the same name are dropped.
func (p *Pool) Register(name string, ttf []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[name] = ttf
	for e := p.lru.Front(); e != nil; {
		next := e.Next()
		if entry := e.Value.(*poolEntry); entry.atlas != nil && fontName(entry.key) == name {
			p.lru.Remove(e)
			delete(p.cache, entry.key)
		}
		e = next
	}
}

// RegisterFile reads a TrueType or OpenType file and registers it as name.
func (p *Pool) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %q: %w", name, err)
	}
	if _, err := opentype.Parse(data); err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	p.Register(name, data)
	return nil
}

// Atlas returns the atlas for name at size pixels, creating it if needed.
// An empty name selects DefaultFont.
func (p *Pool) Atlas(name string, size int) (*Atlas, error) {
	if name == "" {
		name = DefaultFont
	}
	key := name + "|" + strconv.Itoa(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	if elem, ok := p.cache[key]; ok {
		p.lru.MoveToFront(elem)
		return elem.Value.(*poolEntry).atlas, nil
	}

	atlas, err := p.load(key, name, size)
	if err != nil {
		return nil, err
	}

	for p.lru.Len() >= p.maxSize {
		oldest := p.lru.Back()
		p.lru.Remove(oldest)
		delete(p.cache, oldest.Value.(*poolEntry).key)
	}
	p.cache[key] = p.lru.PushFront(&poolEntry{key: key, atlas: atlas})
	return atlas, nil
}

// Len returns the number of cached atlases.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lru.Len()
}

func (p *Pool) load(key, name string, size int) (*Atlas, error) {
	if name == BasicFont {
		return NewAtlas(key, basicfont.Face7x13, nil, nil), nil
	}
	data, ok := p.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	if size <= 0 {
		return nil, fmt.Errorf("font %q: invalid size %d", name, size)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q face: %w", name, err)
	}
	defer face.Close()

	shaper, err := NewHarfbuzzShaper(data, float64(size))
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}

	atlas := NewAtlas(key, face, shaper, nil)
	log.L().Debug("glyph atlas created", "font", key,
		"width", atlas.img.Bounds().Dx(), "height", atlas.img.Bounds().Dy())
	return atlas, nil
}

func fontName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '|' {
			return key[:i]
		}
	}
	return key
}
