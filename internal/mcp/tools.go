package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/window"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:           w.ID,
			Kind:         string(w.Kind),
			Title:        w.Title,
			SourceRef:    w.SourceRef,
			X:            w.Geometry.X,
			Y:            w.Geometry.Y,
			Width:        w.Geometry.Width,
			Height:       w.Geometry.Height,
			ZIndex:       w.ZIndex,
			Pinned:       w.Pinned,
			Minimized:    w.Minimized,
			Fullscreen:   w.Fullscreen(),
			LinkedPeerID: w.LinkedPeerID,
		})
	}
	return nil, out, nil
}

func (s *Server) handleOpenViewer(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenViewerInput) (*mcpsdk.CallToolResult, OpenViewerOutput, error) {
	kind, err := window.ParseKind(strings.TrimSpace(args.Kind))
	if err != nil {
		return nil, OpenViewerOutput{}, err
	}
	if strings.TrimSpace(args.Ref) == "" {
		return nil, OpenViewerOutput{}, fmt.Errorf("ref is required")
	}

	id, err := s.client.OpenViewer(ipc.OpenViewerPayload{
		Kind:  kind,
		Title: args.Title,
		Ref:   args.Ref,
		Popup: args.Popup,
	})
	if err != nil {
		return nil, OpenViewerOutput{}, err
	}
	s.logger.Info("viewer opened", "kind", kind, "ref", args.Ref, "id", id)
	return nil, OpenViewerOutput{ID: id, Popup: id == ""}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, WindowOutput{ID: args.ID}, err
	}
	return nil, WindowOutput{ID: args.ID, OK: true}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := s.client.FocusWindow(args.ID); err != nil {
		return nil, WindowOutput{ID: args.ID}, err
	}
	return nil, WindowOutput{ID: args.ID, OK: true}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	data, err := s.client.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	return nil, ListLayoutsOutput{
		Layouts:       data.Layouts,
		DefaultLayout: data.DefaultLayout,
		ActiveLayout:  data.ActiveLayout,
	}, nil
}

func (s *Server) handleApplyLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, ApplyLayoutOutput, error) {
	name := strings.TrimSpace(args.Layout)
	if name == "" {
		return nil, ApplyLayoutOutput{}, fmt.Errorf("layout is required")
	}
	res, err := s.client.ApplyLayout(name, args.WindowIDs)
	if err != nil {
		return nil, ApplyLayoutOutput{}, err
	}
	if res.Degraded() {
		s.logger.Info("layout degraded", "requested", res.Requested, "applied", res.Layout)
	}
	if res.Placed == nil {
		res.Placed = []tiling.Placement{}
	}
	return nil, ApplyLayoutOutput{
		Requested: res.Requested,
		Layout:    res.Layout,
		Degraded:  res.Degraded(),
		Linked:    res.Linked,
		Placed:    res.Placed,
	}, nil
}

func (s *Server) handleUndoLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ UndoLayoutInput) (*mcpsdk.CallToolResult, UndoLayoutOutput, error) {
	n, err := s.client.Undo()
	if err != nil {
		return nil, UndoLayoutOutput{}, err
	}
	return nil, UndoLayoutOutput{Restored: n}, nil
}

func (s *Server) handleListArrangements(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListArrangementsInput) (*mcpsdk.CallToolResult, ListArrangementsOutput, error) {
	names, err := s.client.ListArrangements()
	if err != nil {
		return nil, ListArrangementsOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListArrangementsOutput{Names: names}, nil
}

func (s *Server) handleSaveArrangement(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangementInput) (*mcpsdk.CallToolResult, SaveArrangementOutput, error) {
	if args.Name == "" {
		return nil, SaveArrangementOutput{}, fmt.Errorf("name is required")
	}
	data, err := s.client.SaveArrangement(args.Name)
	if err != nil {
		return nil, SaveArrangementOutput{}, err
	}
	return nil, SaveArrangementOutput{Name: data.Name, Windows: data.Windows}, nil
}

func (s *Server) handleRestoreArrangement(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangementInput) (*mcpsdk.CallToolResult, RestoreArrangementOutput, error) {
	if args.Name == "" {
		return nil, RestoreArrangementOutput{}, fmt.Errorf("name is required")
	}
	res, err := s.client.RestoreArrangement(args.Name)
	if err != nil {
		return nil, RestoreArrangementOutput{}, err
	}
	if res.IDs == nil {
		res.IDs = []string{}
	}
	s.logger.Info("arrangement restored", "name", args.Name, "reused", res.Reused, "opened", res.Opened, "failed", res.Failed)
	return nil, RestoreArrangementOutput{
		Name:   args.Name,
		Reused: res.Reused,
		Opened: res.Opened,
		Failed: res.Failed,
		IDs:    res.IDs,
	}, nil
}
