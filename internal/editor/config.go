package editor

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/history"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvMaxHistory      = "PIXEL_MCP_MAX_HISTORY"
	EnvTransparentSlot = "PIXEL_MCP_TRANSPARENT_SLOT"
)

// Config holds the tunables of an Editor.
type Config struct {
	// MaxHistory bounds the undo stack; non-positive keeps everything.
	MaxHistory int
	// TransparentSlot is where the reserved transparent color goes in
	// generated palettes.
	TransparentSlot int
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		MaxHistory:      history.DefaultLimit,
		TransparentSlot: 0,
	}
}

// ConfigFromEnv overlays the environment onto DefaultConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv(EnvMaxHistory); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvMaxHistory, err)
		}
		cfg.MaxHistory = n
	}
	if v := os.Getenv(EnvTransparentSlot); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvTransparentSlot, err)
		}
		if n < 0 || n >= pixel.MaxPaletteSize {
			return cfg, fmt.Errorf("invalid %s: %d out of range 0..%d", EnvTransparentSlot, n, pixel.MaxPaletteSize-1)
		}
		cfg.TransparentSlot = n
	}
	return cfg, nil
}

// Option customizes an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(e *Editor) { e.cfg = c }
}

// WithMaxHistory bounds the undo stack.
func WithMaxHistory(n int) Option {
	return func(e *Editor) { e.cfg.MaxHistory = n }
}

// WithTransparentSlot sets the transparent slot used for generated palettes.
func WithTransparentSlot(n int) Option {
	return func(e *Editor) { e.cfg.TransparentSlot = n }
}

// WithPalette sets the initial palette of a new document.
func WithPalette(p pixel.Palette) Option {
	return func(e *Editor) {
		pal := p.Clone()
		e.palette = &pal
	}
}
