package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if res.Config.Snap.Threshold != 20 || res.Config.Window.MinWidth != 150 {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, `
listen: 127.0.0.1:9999
log_level: debug
snap:
  threshold: 12
auto_snap:
  delay_ms: 250
layouts:
  wide-left:
    templates:
      - {x: 0, y: 0, w: 0.75, h: 1}
      - {x: 0.75, y: 0, w: 0.25, h: 1}
    split: true
    fallback: maximize
  quad:
    description: my quad
shortcuts:
  ctrl+alt+1: layout:wide-left
  ctrl+h: ""
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config

	if cfg.Listen != "127.0.0.1:9999" || cfg.LogLevel != "debug" {
		t.Fatalf("expected listen/log overrides, got %q %q", cfg.Listen, cfg.LogLevel)
	}
	if cfg.Snap.Threshold != 12 || cfg.Snap.EdgeMargin != 50 {
		t.Fatalf("expected threshold 12 with default edge margin, got %+v", cfg.Snap)
	}
	if cfg.AutoSnapDelay().Milliseconds() != 250 {
		t.Fatalf("expected 250ms delay, got %v", cfg.AutoSnapDelay())
	}

	wide, err := cfg.GetLayout("wide-left")
	if err != nil {
		t.Fatalf("get layout: %v", err)
	}
	if wide.Mode != LayoutModeTemplates || !wide.Split || len(wide.Templates) != 2 {
		t.Fatalf("unexpected custom layout %+v", wide)
	}

	quad, _ := cfg.GetLayout("quad")
	if quad.Description != "my quad" || len(quad.Templates) != 4 {
		t.Fatalf("expected patched builtin quad, got %+v", quad)
	}

	if cfg.Shortcuts["ctrl+alt+1"] != "layout:wide-left" {
		t.Fatalf("expected rebound shortcut, got %q", cfg.Shortcuts["ctrl+alt+1"])
	}
	if _, ok := cfg.Shortcuts["ctrl+h"]; ok {
		t.Fatalf("expected ctrl+h unbound")
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "no_such_key: 1\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected strict decode error")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, "listen: x\nlog_level: loud\n")
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "log_level" || verr.Source.Line != 2 {
		t.Fatalf("expected log_level at line 2, got %q line %d", verr.Path, verr.Source.Line)
	}
	if !strings.Contains(err.Error(), "config.yaml:2:") {
		t.Fatalf("expected file position in error, got %v", err)
	}
}

func TestValidate_Layouts(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"templates without cells", Layout{Mode: LayoutModeTemplates}},
		{"split with three cells", Layout{Mode: LayoutModeTemplates, Split: true, Templates: BuiltinLayouts()["triple-col"].Templates}},
		{"grid with templates", Layout{Mode: LayoutModeGrid, Templates: BuiltinLayouts()["maximize"].Templates}},
		{"unknown mode", Layout{Mode: "spiral"}},
		{"unknown fallback", Layout{Mode: LayoutModeGrid, Fallback: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Layouts["bad"] = tt.layout
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidate_FallbackLoop(t *testing.T) {
	cfg := DefaultConfig()
	a := cfg.Layouts["split-h"]
	a.Fallback = "quad"
	cfg.Layouts["split-h"] = a
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "loops") {
		t.Fatalf("expected fallback loop error, got %v", err)
	}
}

func TestValidate_Shortcuts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shortcuts["Alt+Ctrl+X"] = "close"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected non-canonical combo to be rejected")
	}

	cfg = DefaultConfig()
	cfg.Shortcuts["ctrl+alt+9"] = "layout:nope"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown layout to be rejected")
	}

	cfg = DefaultConfig()
	cfg.Shortcuts["ctrl+alt+9"] = "snap:diagonal"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown zone to be rejected")
	}
}

func TestNormalizeCombo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ctrl+ArrowUp", "ctrl+arrowup"},
		{"alt+shift+control+1", "ctrl+shift+alt+1"},
		{"cmd+k", "meta+k"},
		{"f", "f"},
	}
	for _, tt := range tests {
		got, err := NormalizeCombo(tt.in)
		if err != nil {
			t.Fatalf("NormalizeCombo(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeCombo(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "ctrl+", "ctrl+a+b", "ctrl+shift"} {
		if _, err := NormalizeCombo(bad); err == nil {
			t.Errorf("NormalizeCombo(%q): expected error", bad)
		}
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("snap:quarter-tl")
	if err != nil || a.Kind != ActionSnap || a.Arg != "quarter-tl" {
		t.Fatalf("unexpected action %+v (%v)", a, err)
	}
	if _, err := ParseAction("close:now"); err == nil {
		t.Fatalf("expected argument error")
	}
	if _, err := ParseAction("dance"); err == nil {
		t.Fatalf("expected unknown action error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Snap.Threshold = 8
	delete(cfg.Shortcuts, "ctrl+h")
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.Snap.Threshold != 8 {
		t.Fatalf("expected threshold 8, got %d", res.Config.Snap.Threshold)
	}
	if _, ok := res.Config.Shortcuts["ctrl+h"]; ok {
		t.Fatalf("expected ctrl+h to stay unbound")
	}
	if len(res.Config.Layouts) != len(BuiltinLayouts()) {
		t.Fatalf("expected builtin layouts only, got %d", len(res.Config.Layouts))
	}
}
