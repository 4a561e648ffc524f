package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/geom"
)

// LayoutMode defines how a layout computes window rects.
type LayoutMode string

const (
	LayoutModeTemplates LayoutMode = "templates" // Fixed fractional cells.
	LayoutModeGrid      LayoutMode = "grid"      // Dynamic grid based on count.
	LayoutModeColumns   LayoutMode = "columns"   // Single row side-by-side.
	LayoutModeRows      LayoutMode = "rows"      // Single column stack.
	LayoutModeCascade   LayoutMode = "cascade"   // Overlapping diagonal offsets.
)

// Layout defines a tiling preset.
type Layout struct {
	Mode        LayoutMode      `yaml:"mode"`
	Description string          `yaml:"description,omitempty"`
	Templates   []geom.Fraction `yaml:"templates,omitempty"`
	// Split marks a two-cell layout whose windows become a linked pair.
	Split bool `yaml:"split,omitempty"`
	// Fallback names the layout used when too few windows are open.
	Fallback string `yaml:"fallback,omitempty"`
	// MaxWindows caps dynamic modes. 0 = unlimited.
	MaxWindows int `yaml:"max_windows,omitempty"`
}

// Cardinality is how many windows the layout places when n are available.
func (l *Layout) Cardinality(n int) int {
	if l.Mode == LayoutModeTemplates {
		return len(l.Templates)
	}
	if l.MaxWindows > 0 && n > l.MaxWindows {
		return l.MaxWindows
	}
	return n
}

// Viewport is the size assumed before the host reports its own.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WindowConfig holds placement rules for new and moved windows.
type WindowConfig struct {
	MinWidth         int `yaml:"min_width"`
	MinHeight        int `yaml:"min_height"`
	VisibleMargin    int `yaml:"visible_margin"`
	CascadeStep      int `yaml:"cascade_step"`
	MobileBreakpoint int `yaml:"mobile_breakpoint"`
	MobileGutter     int `yaml:"mobile_gutter"`
}

// SnapConfig configures edge snapping and snap zones.
type SnapConfig struct {
	// Threshold is the edge-snap distance applied when a drag ends.
	Threshold  int `yaml:"threshold"`
	EdgeMargin int `yaml:"edge_margin"`
	CornerSize int `yaml:"corner_size"`
	// ZonesOnDrag tiles a dragged window into the zone under the pointer on
	// release instead of edge snapping.
	ZonesOnDrag bool `yaml:"zones_on_drag"`
}

// AutoSnapConfig configures related-window suggestions.
type AutoSnapConfig struct {
	Enabled         bool `yaml:"enabled"`
	DelayMS         int  `yaml:"delay_ms"`
	SuggestionTTLMS int  `yaml:"suggestion_ttl_ms"`
}

// Config is the effective floatdesk configuration.
type Config struct {
	Listen          string            `yaml:"listen"`
	LogLevel        string            `yaml:"log_level"`
	Viewport        Viewport          `yaml:"viewport"`
	Window          WindowConfig      `yaml:"window"`
	Snap            SnapConfig        `yaml:"snap"`
	AutoSnap        AutoSnapConfig    `yaml:"auto_snap"`
	GapSize         int               `yaml:"gap_size"`
	DefaultLayout   string            `yaml:"default_layout"`
	Layouts         map[string]Layout `yaml:"layouts"`
	Shortcuts       map[string]string `yaml:"shortcuts"`
	ArrangementsDir string            `yaml:"arrangements_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8765",
		LogLevel: "info",
		Viewport: Viewport{Width: 1280, Height: 800},
		Window: WindowConfig{
			MinWidth:         150,
			MinHeight:        100,
			VisibleMargin:    24,
			CascadeStep:      30,
			MobileBreakpoint: 768,
			MobileGutter:     10,
		},
		Snap: SnapConfig{
			Threshold:  20,
			EdgeMargin: 50,
			CornerSize: 150,
		},
		AutoSnap: AutoSnapConfig{
			Enabled:         true,
			DelayMS:         500,
			SuggestionTTLMS: 8000,
		},
		GapSize:       0,
		DefaultLayout: DefaultBuiltinLayout,
		Layouts:       BuiltinLayouts(),
		Shortcuts:     DefaultShortcuts(),
	}
}

func (c *Config) AutoSnapDelay() time.Duration {
	return time.Duration(c.AutoSnap.DelayMS) * time.Millisecond
}

func (c *Config) SuggestionTTL() time.Duration {
	return time.Duration(c.AutoSnap.SuggestionTTLMS) * time.Millisecond
}

// Save writes the configuration to path, dropping layouts and shortcuts that
// equal their built-in values.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Layouts = layoutsForSave(c.Layouts)
	save.Shortcuts = shortcutsForSave(c.Shortcuts)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func layoutsForSave(layouts map[string]Layout) map[string]Layout {
	builtin := BuiltinLayouts()
	out := make(map[string]Layout)
	for name, layout := range layouts {
		if base, ok := builtin[name]; ok && layoutsEqual(base, layout) {
			continue
		}
		out[name] = layout
	}
	return out
}

func layoutsEqual(a, b Layout) bool {
	if a.Mode != b.Mode || a.Description != b.Description || a.Split != b.Split ||
		a.Fallback != b.Fallback || a.MaxWindows != b.MaxWindows || len(a.Templates) != len(b.Templates) {
		return false
	}
	for i := range a.Templates {
		if a.Templates[i] != b.Templates[i] {
			return false
		}
	}
	return true
}

func shortcutsForSave(shortcuts map[string]string) map[string]string {
	defaults := DefaultShortcuts()
	out := make(map[string]string)
	for combo, action := range shortcuts {
		if def, ok := defaults[combo]; ok && def == action {
			continue
		}
		out[combo] = action
	}
	for combo := range defaults {
		if _, ok := shortcuts[combo]; !ok {
			// Explicitly unbound.
			out[combo] = ""
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}
	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}
	return &layout, nil
}

// LayoutNames returns all layout names sorted.
func (c *Config) LayoutNames() []string {
	names := make([]string, 0, len(c.Layouts))
	for name := range c.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return &ValidationError{Path: "listen", Err: fmt.Errorf("listen address is required")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("min_width and min_height must be > 0")}
	}
	if c.Window.VisibleMargin < 0 {
		return &ValidationError{Path: "window.visible_margin", Err: fmt.Errorf("visible_margin must be >= 0")}
	}
	if c.Window.CascadeStep < 0 {
		return &ValidationError{Path: "window.cascade_step", Err: fmt.Errorf("cascade_step must be >= 0")}
	}
	if c.Window.MobileBreakpoint < 0 || c.Window.MobileGutter < 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("mobile_breakpoint and mobile_gutter must be >= 0")}
	}
	if c.Snap.Threshold < 0 {
		return &ValidationError{Path: "snap.threshold", Err: fmt.Errorf("threshold must be >= 0")}
	}
	if c.Snap.EdgeMargin < 0 || c.Snap.CornerSize < c.Snap.EdgeMargin {
		return &ValidationError{Path: "snap", Err: fmt.Errorf("corner_size must be >= edge_margin >= 0")}
	}
	if c.AutoSnap.DelayMS < 0 || c.AutoSnap.SuggestionTTLMS < 0 {
		return &ValidationError{Path: "auto_snap", Err: fmt.Errorf("delay_ms and suggestion_ttl_ms must be >= 0")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.DefaultLayout)}
	}
	for _, name := range c.LayoutNames() {
		layout := c.Layouts[name]
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
		if layout.Fallback != "" {
			if _, ok := c.Layouts[layout.Fallback]; !ok {
				return &ValidationError{Path: "layouts." + name + ".fallback", Err: fmt.Errorf("fallback %q not found in layouts", layout.Fallback)}
			}
		}
	}
	if err := c.validateFallbackChains(); err != nil {
		return err
	}

	for combo, action := range c.Shortcuts {
		if err := validateShortcut(combo, action, c.Layouts); err != nil {
			return &ValidationError{Path: "shortcuts." + combo, Err: err}
		}
	}
	return nil
}

func (c *Config) validateFallbackChains() error {
	for _, name := range c.LayoutNames() {
		seen := map[string]bool{}
		for cur := name; cur != ""; cur = c.Layouts[cur].Fallback {
			if seen[cur] {
				return &ValidationError{Path: "layouts." + name + ".fallback", Err: fmt.Errorf("fallback chain loops at %q", cur)}
			}
			seen[cur] = true
		}
	}
	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeTemplates:
		if len(layout.Templates) == 0 {
			return fmt.Errorf("templates mode requires at least one template")
		}
		for i, f := range layout.Templates {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("templates[%d]: %w", i, err)
			}
		}
		if layout.Split && len(layout.Templates) != 2 {
			return fmt.Errorf("split layouts must have exactly 2 templates")
		}
	case LayoutModeGrid, LayoutModeColumns, LayoutModeRows, LayoutModeCascade:
		if len(layout.Templates) > 0 {
			return fmt.Errorf("templates are only valid in templates mode")
		}
		if layout.Split {
			return fmt.Errorf("split is only valid in templates mode")
		}
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}
	if layout.MaxWindows < 0 {
		return fmt.Errorf("max_windows must be >= 0")
	}
	return nil
}
