package config

import "github.com/1broseidon/floatdesk/internal/geom"

// RawConfig mirrors Config with pointer fields so the loader can tell an
// omitted key from a zero value.
type RawConfig struct {
	Listen          *string              `yaml:"listen"`
	LogLevel        *string              `yaml:"log_level"`
	Viewport        *RawViewport         `yaml:"viewport"`
	Window          *RawWindowConfig     `yaml:"window"`
	Snap            *RawSnapConfig       `yaml:"snap"`
	AutoSnap        *RawAutoSnapConfig   `yaml:"auto_snap"`
	GapSize         *int                 `yaml:"gap_size"`
	DefaultLayout   *string              `yaml:"default_layout"`
	Layouts         map[string]RawLayout `yaml:"layouts"`
	Shortcuts       map[string]string    `yaml:"shortcuts"`
	ArrangementsDir *string              `yaml:"arrangements_dir"`
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawWindowConfig struct {
	MinWidth         *int `yaml:"min_width"`
	MinHeight        *int `yaml:"min_height"`
	VisibleMargin    *int `yaml:"visible_margin"`
	CascadeStep      *int `yaml:"cascade_step"`
	MobileBreakpoint *int `yaml:"mobile_breakpoint"`
	MobileGutter     *int `yaml:"mobile_gutter"`
}

type RawSnapConfig struct {
	Threshold   *int  `yaml:"threshold"`
	EdgeMargin  *int  `yaml:"edge_margin"`
	CornerSize  *int  `yaml:"corner_size"`
	ZonesOnDrag *bool `yaml:"zones_on_drag"`
}

type RawAutoSnapConfig struct {
	Enabled         *bool `yaml:"enabled"`
	DelayMS         *int  `yaml:"delay_ms"`
	SuggestionTTLMS *int  `yaml:"suggestion_ttl_ms"`
}

// RawLayout patches a built-in layout of the same name, or defines a new
// one when Inherits and the name are both unknown.
type RawLayout struct {
	Inherits    *string         `yaml:"inherits"`
	Mode        *LayoutMode     `yaml:"mode"`
	Description *string         `yaml:"description"`
	Templates   []geom.Fraction `yaml:"templates"`
	Split       *bool           `yaml:"split"`
	Fallback    *string         `yaml:"fallback"`
	MaxWindows  *int            `yaml:"max_windows"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
