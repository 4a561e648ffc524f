package config

import "github.com/1broseidon/floatdesk/internal/geom"

// DefaultBuiltinLayout is the layout applied when none is named.
const DefaultBuiltinLayout = "grid"

// BuiltinLayouts returns the built-in layout library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional custom layouts in their config file.
func BuiltinLayouts() map[string]Layout {
	return map[string]Layout{
		"maximize": {
			Mode:        LayoutModeTemplates,
			Description: "Focused window fills the viewport",
			Templates:   []geom.Fraction{{X: 0, Y: 0, W: 1, H: 1}},
		},
		"cascade": {
			Mode:        LayoutModeCascade,
			Description: "Overlapping diagonal stack",
		},
		"grid": {
			Mode:        LayoutModeGrid,
			Description: "Square-ish grid of every window",
		},
		"columns": {
			Mode:        LayoutModeColumns,
			Description: "Every window side by side",
		},
		"rows": {
			Mode:        LayoutModeRows,
			Description: "Every window stacked",
		},
		"split-h": {
			Mode:        LayoutModeTemplates,
			Description: "Two windows side by side, linked",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 0.5, H: 1},
				{X: 0.5, Y: 0, W: 0.5, H: 1},
			},
			Split:    true,
			Fallback: "maximize",
		},
		"split-v": {
			Mode:        LayoutModeTemplates,
			Description: "Two windows stacked, linked",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 1, H: 0.5},
				{X: 0, Y: 0.5, W: 1, H: 0.5},
			},
			Split:    true,
			Fallback: "maximize",
		},
		"split-33-67": {
			Mode:        LayoutModeTemplates,
			Description: "Narrow left, wide right, linked",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 1.0 / 3, H: 1},
				{X: 1.0 / 3, Y: 0, W: 2.0 / 3, H: 1},
			},
			Split:    true,
			Fallback: "maximize",
		},
		"split-67-33": {
			Mode:        LayoutModeTemplates,
			Description: "Wide left, narrow right, linked",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 2.0 / 3, H: 1},
				{X: 2.0 / 3, Y: 0, W: 1.0 / 3, H: 1},
			},
			Split:    true,
			Fallback: "maximize",
		},
		"triple-col": {
			Mode:        LayoutModeTemplates,
			Description: "Three equal columns",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 1.0 / 3, H: 1},
				{X: 1.0 / 3, Y: 0, W: 1.0 / 3, H: 1},
				{X: 2.0 / 3, Y: 0, W: 1.0 / 3, H: 1},
			},
			Fallback: "split-h",
		},
		"one-plus-two": {
			Mode:        LayoutModeTemplates,
			Description: "Left half plus two stacked quarters",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 0.5, H: 1},
				{X: 0.5, Y: 0, W: 0.5, H: 0.5},
				{X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
			},
			Fallback: "split-h",
		},
		"quad": {
			Mode:        LayoutModeTemplates,
			Description: "Four quarters",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 0.5, H: 0.5},
				{X: 0.5, Y: 0, W: 0.5, H: 0.5},
				{X: 0, Y: 0.5, W: 0.5, H: 0.5},
				{X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
			},
			Fallback: "one-plus-two",
		},
		"quad-focus": {
			Mode:        LayoutModeTemplates,
			Description: "One large window plus three thumbnails",
			Templates: []geom.Fraction{
				{X: 0, Y: 0, W: 2.0 / 3, H: 1},
				{X: 2.0 / 3, Y: 0, W: 1.0 / 3, H: 1.0 / 3},
				{X: 2.0 / 3, Y: 1.0 / 3, W: 1.0 / 3, H: 1.0 / 3},
				{X: 2.0 / 3, Y: 2.0 / 3, W: 1.0 / 3, H: 1.0 / 3},
			},
			Fallback: "one-plus-two",
		},
	}
}

// DefaultShortcuts maps key combos to actions. Combos are lower-case,
// modifiers first in the order ctrl, shift, alt, meta.
func DefaultShortcuts() map[string]string {
	return map[string]string{
		"ctrl+arrowup":             "snap:full",
		"ctrl+arrowleft":           "snap:half-left",
		"ctrl+arrowright":          "snap:half-right",
		"ctrl+arrowdown":           "restore",
		"ctrl+shift+arrowup":       "snap:quarter-tr",
		"ctrl+shift+arrowdown":     "snap:quarter-br",
		"ctrl+shift+alt+arrowup":   "snap:quarter-tl",
		"ctrl+shift+alt+arrowdown": "snap:quarter-bl",
		"ctrl+m":                   "magnetic",
		"ctrl+f":                   "fullscreen",
		"ctrl+w":                   "close",
		"ctrl+l":                   "menu",
		"ctrl+h":                   "help",
		"ctrl+alt+1":               "layout:split-h",
		"ctrl+alt+2":               "layout:split-v",
		"ctrl+alt+3":               "layout:triple-col",
		"ctrl+alt+4":               "layout:quad",
		"ctrl+alt+g":               "layout:grid",
		"ctrl+alt+c":               "layout:cascade",
		"ctrl+alt+m":               "layout:maximize",
	}
}
