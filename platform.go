package anchorui

import "github.com/agiangrant/anchorui/retained"

// HeadlessPlatform is a retained.Platform without a window. It reports a
// fixed canvas and records virtual keyboard requests instead of showing a
// keyboard. It is what the CLI and tests run on.
type HeadlessPlatform struct {
	width, height float32
	camera        Camera
	bottomLeft    bool

	keyboardVisible bool
	keyboardText    string

	// OnKeyboard, when set, is called on every keyboard request.
	OnKeyboard func(visible bool, text string)
}

var _ retained.Platform = (*HeadlessPlatform)(nil)

// NewHeadlessPlatform returns a platform for the [canvas] table of a config.
func NewHeadlessPlatform(c CanvasConfig) *HeadlessPlatform {
	return &HeadlessPlatform{
		width:      float32(c.Width),
		height:     float32(c.Height),
		camera:     c.Camera,
		bottomLeft: c.BottomLeftOrigin,
	}
}

// Resize changes the canvas size. Root nodes follow on the next frame.
func (p *HeadlessPlatform) Resize(width, height int) {
	p.width = float32(width)
	p.height = float32(height)
}

func (p *HeadlessPlatform) CanvasSize() (width, height float32) { return p.width, p.height }

func (p *HeadlessPlatform) Camera2D() bool { return p.camera == Camera2D }

func (p *HeadlessPlatform) BottomLeftTextureOrigin() bool { return p.bottomLeft }

func (p *HeadlessPlatform) ShowVirtualKeyboard(text string) {
	p.keyboardVisible = true
	p.keyboardText = text
	if p.OnKeyboard != nil {
		p.OnKeyboard(true, text)
	}
}

func (p *HeadlessPlatform) HideVirtualKeyboard() {
	if !p.keyboardVisible {
		return
	}
	p.keyboardVisible = false
	if p.OnKeyboard != nil {
		p.OnKeyboard(false, "")
	}
}

// Keyboard returns whether a virtual keyboard was requested and the text it
// was requested with.
func (p *HeadlessPlatform) Keyboard() (visible bool, text string) {
	return p.keyboardVisible, p.keyboardText
}
