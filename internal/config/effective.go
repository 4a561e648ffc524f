package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/1broseidon/floatdesk/internal/geom"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setString(&cfg.Listen, raw.Listen)
	setString(&cfg.LogLevel, raw.LogLevel)
	if v := raw.Viewport; v != nil {
		setInt(&cfg.Viewport.Width, v.Width)
		setInt(&cfg.Viewport.Height, v.Height)
	}
	if w := raw.Window; w != nil {
		setInt(&cfg.Window.MinWidth, w.MinWidth)
		setInt(&cfg.Window.MinHeight, w.MinHeight)
		setInt(&cfg.Window.VisibleMargin, w.VisibleMargin)
		setInt(&cfg.Window.CascadeStep, w.CascadeStep)
		setInt(&cfg.Window.MobileBreakpoint, w.MobileBreakpoint)
		setInt(&cfg.Window.MobileGutter, w.MobileGutter)
	}
	if s := raw.Snap; s != nil {
		setInt(&cfg.Snap.Threshold, s.Threshold)
		setInt(&cfg.Snap.EdgeMargin, s.EdgeMargin)
		setInt(&cfg.Snap.CornerSize, s.CornerSize)
		setBool(&cfg.Snap.ZonesOnDrag, s.ZonesOnDrag)
	}
	if a := raw.AutoSnap; a != nil {
		setBool(&cfg.AutoSnap.Enabled, a.Enabled)
		setInt(&cfg.AutoSnap.DelayMS, a.DelayMS)
		setInt(&cfg.AutoSnap.SuggestionTTLMS, a.SuggestionTTLMS)
	}
	setInt(&cfg.GapSize, raw.GapSize)
	setString(&cfg.DefaultLayout, raw.DefaultLayout)
	setString(&cfg.ArrangementsDir, raw.ArrangementsDir)

	if err := applyLayouts(cfg, raw); err != nil {
		return nil, err
	}
	applyShortcuts(cfg, raw)
	return cfg, nil
}

func applyLayouts(cfg *Config, raw RawConfig) error {
	builtin := BuiltinLayouts()
	for _, name := range sortedKeys(raw.Layouts) {
		patch := raw.Layouts[name]
		base, err := selectLayoutBase(name, patch, builtin)
		if err != nil {
			return err
		}
		cfg.Layouts[name] = mergeLayoutPatch(base, patch)
	}
	return nil
}

func selectLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (Layout, error) {
	if patch.Inherits != nil {
		base, ok := builtin[*patch.Inherits]
		if !ok {
			return Layout{}, &ValidationError{
				Path: "layouts." + name + ".inherits",
				Err:  fmt.Errorf("unknown builtin layout %q", *patch.Inherits),
			}
		}
		return base, nil
	}
	if base, ok := builtin[name]; ok {
		return base, nil
	}
	return Layout{Mode: LayoutModeTemplates}, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base
	out.Templates = append([]geom.Fraction(nil), base.Templates...)
	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	setString(&out.Description, patch.Description)
	if patch.Templates != nil {
		out.Templates = append([]geom.Fraction(nil), patch.Templates...)
	}
	setBool(&out.Split, patch.Split)
	setString(&out.Fallback, patch.Fallback)
	setInt(&out.MaxWindows, patch.MaxWindows)
	return out
}

// applyShortcuts merges user bindings over the defaults. An empty action
// unbinds a default combo.
func applyShortcuts(cfg *Config, raw RawConfig) {
	for combo, action := range raw.Shortcuts {
		if action == "" {
			delete(cfg.Shortcuts, combo)
			continue
		}
		cfg.Shortcuts[combo] = action
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
