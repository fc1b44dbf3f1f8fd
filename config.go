package anchorui

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/anchorui/retained"
)

// Config represents the anchorui.toml configuration file
type Config struct {
	Canvas CanvasConfig      `toml:"canvas"`
	UI     UIConfig          `toml:"ui"`
	Fonts  map[string]string `toml:"fonts"` // font id -> TTF/OTF path
	Log    LogConfig         `toml:"log"`
}

// CanvasConfig describes the surface the UI is laid out on.
type CanvasConfig struct {
	Width            int    `toml:"width"`
	Height           int    `toml:"height"`
	Camera           Camera `toml:"camera"`
	BottomLeftOrigin bool   `toml:"bottom_left_origin"`
}

// UIConfig holds the layout engine settings.
type UIConfig struct {
	MaxContainerBoxes  int     `toml:"max_container_boxes"`
	CursorBlinkSeconds float64 `toml:"cursor_blink_seconds"`
	MaxTextSize        int     `toml:"max_text_size"`
	FontSize           int     `toml:"font_size"`
	TextureCutFactor   float32 `toml:"texture_cut_factor"`
	ResizeMargin       float32 `toml:"resize_margin"`
	FontPoolSize       int     `toml:"font_pool_size"`
}

// LogConfig selects the level and format of the engine logger.
type LogConfig struct {
	Level  slog.Level `toml:"level"`
	Format string     `toml:"format"` // "text" or "json"
}

// Camera is the projection kind the canvas is drawn with.
type Camera uint8

const (
	Camera2D Camera = iota
	CameraPerspective
)

func (c Camera) String() string {
	switch c {
	case Camera2D:
		return "2d"
	case CameraPerspective:
		return "perspective"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Camera) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Camera) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "2d", "orthographic":
		*c = Camera2D
	case "perspective":
		*c = CameraPerspective
	default:
		return fmt.Errorf("unknown camera %q", string(b))
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	sys := retained.DefaultSystemConfig()
	return Config{
		Canvas: CanvasConfig{
			Width:  800,
			Height: 600,
			Camera: Camera2D,
		},
		UI: UIConfig{
			MaxContainerBoxes:  sys.MaxContainerBoxes,
			CursorBlinkSeconds: sys.CursorBlinkInterval.Seconds(),
			MaxTextSize:        sys.MaxTextSize,
			FontSize:           sys.FontSize,
			TextureCutFactor:   sys.TextureCutFactor,
			ResizeMargin:       sys.ResizeMargin,
		},
		Fonts: map[string]string{},
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a TOML file. Missing keys keep their
// default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	config, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes a configuration from r over DefaultConfig. Unknown
// keys are an error.
func ParseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.UI.CursorBlinkSeconds < 0 {
		return fmt.Errorf("cursor_blink_seconds must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SystemConfig converts the [ui] table to the layout engine settings. Zero
// values select the engine defaults.
func (c Config) SystemConfig() retained.SystemConfig {
	return retained.SystemConfig{
		MaxContainerBoxes:   c.UI.MaxContainerBoxes,
		CursorBlinkInterval: time.Duration(c.UI.CursorBlinkSeconds * float64(time.Second)),
		MaxTextSize:         c.UI.MaxTextSize,
		FontSize:            c.UI.FontSize,
		TextureCutFactor:    c.UI.TextureCutFactor,
		ResizeMargin:        c.UI.ResizeMargin,
	}
}

// NewLogger returns a logger writing to w with the configured level and
// format.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
