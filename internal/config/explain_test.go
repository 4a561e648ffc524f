package config

import (
	"path/filepath"
	"testing"
)

func TestExplain(t *testing.T) {
	path := writeConfig(t, "snap:\n  threshold: 30\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		path string
		want any
		kind SourceKind
		line int
	}{
		{path: "snap.threshold", want: 30, kind: SourceFile, line: 2},
		{path: "snap.edge_margin", want: 50, kind: SourceDefault},
		{path: "listen", want: "127.0.0.1:8765", kind: SourceDefault},
		{path: "layouts.split-h.fallback", want: "maximize", kind: SourceDefault},
		{path: "auto_snap.enabled", want: true, kind: SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			value, src, err := Explain(res, tt.path)
			if err != nil {
				t.Fatalf("explain: %v", err)
			}
			if value != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, value)
			}
			if src.Kind != tt.kind {
				t.Fatalf("expected source %s, got %s", tt.kind, src.Kind)
			}
			if tt.line != 0 && src.Line != tt.line {
				t.Fatalf("expected line %d, got %d", tt.line, src.Line)
			}
		})
	}
}

func TestExplain_Errors(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, path := range []string{"", "nope", "listen.port", "layouts.nope.mode"} {
		if _, _, err := Explain(res, path); err == nil {
			t.Fatalf("expected error for %q", path)
		}
	}
	if _, _, err := Explain(nil, "listen"); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
