package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/floatdesk/internal/arrangement"
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/window"
)

type fakeClient struct {
	windows  []window.Window
	opened   []ipc.OpenViewerPayload
	closed   []string
	focused  []string
	applied  []string
	applyIDs []string
	saved    []string
	err      error
}

func (f *fakeClient) ListWindows() ([]window.Window, error) { return f.windows, f.err }

func (f *fakeClient) OpenViewer(p ipc.OpenViewerPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.opened = append(f.opened, p)
	if p.Popup {
		return "", nil
	}
	return "w1", nil
}

func (f *fakeClient) CloseWindow(id string) error {
	f.closed = append(f.closed, id)
	return f.err
}

func (f *fakeClient) FocusWindow(id string) error {
	f.focused = append(f.focused, id)
	return f.err
}

func (f *fakeClient) ListLayouts() (*ipc.LayoutsData, error) {
	return &ipc.LayoutsData{
		Layouts:       []desk.LayoutInfo{{Name: "grid", Default: true}, {Name: "split-h", Cells: 2, Split: true}},
		DefaultLayout: "grid",
	}, f.err
}

func (f *fakeClient) ApplyLayout(name string, ids []string) (*ipc.ApplyLayoutData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.applied = append(f.applied, name)
	f.applyIDs = ids
	return &ipc.ApplyLayoutData{
		Requested: name,
		Layout:    "split-h",
		Linked:    true,
		Placed:    []tiling.Placement{{ID: "a", Rect: geom.Rect{Width: 600, Height: 800}}},
	}, nil
}

func (f *fakeClient) Undo() (int, error) { return 2, f.err }

func (f *fakeClient) ListArrangements() ([]string, error) { return nil, f.err }

func (f *fakeClient) SaveArrangement(name string) (*ipc.SaveArrangementData, error) {
	f.saved = append(f.saved, name)
	return &ipc.SaveArrangementData{Name: name, Windows: 3}, f.err
}

func (f *fakeClient) RestoreArrangement(name string) (*ipc.RestoreArrangementData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &arrangement.Result{Reused: 1, Opened: 2, IDs: []string{"a", "b", "c"}}, nil
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer(&fakeClient{}, nil)
	if s.mcpServer == nil {
		t.Fatalf("expected mcp server")
	}
}

func TestHandleListWindows(t *testing.T) {
	restore := geom.Rect{X: 10, Y: 10, Width: 300, Height: 200}
	f := &fakeClient{windows: []window.Window{
		{ID: "a", Kind: window.KindImage, Title: "cat.jpg", Geometry: geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}, LinkedPeerID: "b"},
		{ID: "b", Kind: window.KindVideo, Restore: &restore},
	}}
	s := NewServer(f, nil)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(out.Windows))
	}
	a := out.Windows[0]
	if a.Kind != "image" || a.X != 1 || a.Height != 4 || a.LinkedPeerID != "b" {
		t.Fatalf("unexpected window info %+v", a)
	}
	if !out.Windows[1].Fullscreen {
		t.Fatalf("expected second window fullscreen")
	}
}

func TestHandleOpenViewer(t *testing.T) {
	f := &fakeClient{}
	s := NewServer(f, nil)

	_, out, err := s.handleOpenViewer(context.Background(), nil, OpenViewerInput{Kind: "image", Ref: "/cat.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "w1" || out.Popup {
		t.Fatalf("unexpected output %+v", out)
	}

	_, out, err = s.handleOpenViewer(context.Background(), nil, OpenViewerInput{Kind: "video", Ref: "/m.mp4", Popup: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "" || !out.Popup {
		t.Fatalf("expected popup output, got %+v", out)
	}
	if len(f.opened) != 2 || f.opened[1].Kind != window.KindVideo {
		t.Fatalf("unexpected forwarded payloads %+v", f.opened)
	}

	tests := []struct {
		name string
		in   OpenViewerInput
	}{
		{"unknown kind", OpenViewerInput{Kind: "hologram", Ref: "/x"}},
		{"missing ref", OpenViewerInput{Kind: "image", Ref: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.handleOpenViewer(context.Background(), nil, tt.in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if len(f.opened) != 2 {
		t.Fatalf("invalid input should not reach the daemon, got %d calls", len(f.opened))
	}
}

func TestHandleWindowTools(t *testing.T) {
	f := &fakeClient{}
	s := NewServer(f, nil)

	if _, out, err := s.handleFocusWindow(context.Background(), nil, WindowInput{ID: "a"}); err != nil || !out.OK {
		t.Fatalf("focus: out=%+v err=%v", out, err)
	}
	if _, out, err := s.handleCloseWindow(context.Background(), nil, WindowInput{ID: "a"}); err != nil || !out.OK {
		t.Fatalf("close: out=%+v err=%v", out, err)
	}
	if _, _, err := s.handleCloseWindow(context.Background(), nil, WindowInput{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if len(f.focused) != 1 || len(f.closed) != 1 {
		t.Fatalf("expected one focus and one close, got %v %v", f.focused, f.closed)
	}

	f.err = errors.New("daemon error: not found")
	if _, out, err := s.handleCloseWindow(context.Background(), nil, WindowInput{ID: "zz"}); err == nil || out.OK {
		t.Fatalf("expected error to propagate, got out=%+v err=%v", out, err)
	}
}

func TestHandleApplyLayout(t *testing.T) {
	f := &fakeClient{}
	s := NewServer(f, nil)

	_, out, err := s.handleApplyLayout(context.Background(), nil, ApplyLayoutInput{Layout: " quad ", WindowIDs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.applied[0] != "quad" {
		t.Fatalf("expected trimmed layout name, got %q", f.applied[0])
	}
	if len(f.applyIDs) != 2 {
		t.Fatalf("expected window ids forwarded, got %v", f.applyIDs)
	}
	if !out.Degraded || out.Layout != "split-h" || !out.Linked || len(out.Placed) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}

	if _, _, err := s.handleApplyLayout(context.Background(), nil, ApplyLayoutInput{}); err == nil {
		t.Fatalf("expected error for missing layout")
	}
}

func TestHandleLayoutsAndUndo(t *testing.T) {
	s := NewServer(&fakeClient{}, nil)

	_, layouts, err := s.handleListLayouts(context.Background(), nil, ListLayoutsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layouts.DefaultLayout != "grid" || len(layouts.Layouts) != 2 {
		t.Fatalf("unexpected layouts %+v", layouts)
	}

	_, undo, err := s.handleUndoLayout(context.Background(), nil, UndoLayoutInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undo.Restored != 2 {
		t.Fatalf("expected 2 restored, got %d", undo.Restored)
	}
}

func TestHandleArrangements(t *testing.T) {
	f := &fakeClient{}
	s := NewServer(f, nil)

	_, list, err := s.handleListArrangements(context.Background(), nil, ListArrangementsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Names == nil {
		t.Fatalf("expected empty non-nil names")
	}

	_, saved, err := s.handleSaveArrangement(context.Background(), nil, ArrangementInput{Name: "work"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Name != "work" || saved.Windows != 3 {
		t.Fatalf("unexpected save output %+v", saved)
	}

	_, restored, err := s.handleRestoreArrangement(context.Background(), nil, ArrangementInput{Name: "work"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Reused != 1 || restored.Opened != 2 || len(restored.IDs) != 3 {
		t.Fatalf("unexpected restore output %+v", restored)
	}

	if _, _, err := s.handleSaveArrangement(context.Background(), nil, ArrangementInput{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
