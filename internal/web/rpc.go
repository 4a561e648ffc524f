package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/interact"
	"github.com/1broseidon/floatdesk/internal/viewer"
	"github.com/1broseidon/floatdesk/internal/window"
)

type idParams struct {
	ID string `json:"id"`
}

type suggestionParams struct {
	WindowID string `json:"windowId"`
}

type pointParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pointerDownParams struct {
	WindowID string  `json:"windowId"`
	Region   string  `json:"region"`
	Edge     string  `json:"edge"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type resizeParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type openParams struct {
	Kind  window.Kind `json:"kind"`
	Name  string      `json:"name"`
	Ref   string      `json:"ref"`
	Popup bool        `json:"popup"`
}

type layoutParams struct {
	Layout  string   `json:"layout"`
	Targets []string `json:"targets"`
}

type snapParams struct {
	ID   string `json:"id"`
	Zone string `json:"zone"`
}

func (s *Server) handleRPC(req rpcRequest) rpcResponse {
	switch req.Method {
	case "init":
		return s.rpcInit(req)
	case "resize":
		return s.rpcResize(req)
	case "pointerDown":
		return s.rpcPointerDown(req)
	case "pointerMove":
		return withParams(req, func(p pointParams) (any, error) {
			return nil, s.desk.PointerMove(p.X, p.Y)
		})
	case "pointerUp":
		return withParams(req, func(p pointParams) (any, error) {
			return nil, s.desk.PointerUp(p.X, p.Y)
		})
	case "pointerCancel":
		s.desk.PointerCancel()
		return rpcResponse{ID: req.ID}
	case "key":
		return withParams(req, func(p struct {
			Combo string `json:"combo"`
		}) (any, error) {
			return map[string]bool{"handled": s.desk.Key(p.Combo)}, nil
		})
	case "open":
		return withParams(req, func(p openParams) (any, error) {
			id, err := s.desk.Open(viewer.Request{Kind: p.Kind, Title: p.Name, Ref: p.Ref, Popup: p.Popup})
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": id, "popup": id == ""}, nil
		})
	case "close":
		return s.windowOp(req, s.desk.Close)
	case "focus":
		return s.windowOp(req, s.desk.Focus)
	case "minimize":
		return s.windowOp(req, s.desk.ToggleMinimized)
	case "pin":
		return s.windowOp(req, s.desk.TogglePinned)
	case "magnetic":
		return s.windowOp(req, s.desk.ToggleMagnetic)
	case "fullscreen":
		return s.windowOp(req, s.desk.ToggleFullscreen)
	case "popOut":
		return s.windowOp(req, s.desk.PopOut)
	case "snap":
		return withParams(req, func(p snapParams) (any, error) {
			zone, err := geom.ParseZone(p.Zone)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", err, window.ErrInvalidOperation)
			}
			return nil, s.desk.SnapTo(p.ID, zone)
		})
	case "applyLayout":
		return withParams(req, func(p layoutParams) (any, error) {
			return s.desk.ApplyLayout(p.Layout, p.Targets)
		})
	case "undoLayout":
		n, err := s.desk.UndoLayout()
		return respond(req, map[string]int{"restored": n}, err)
	case "acceptSuggestion":
		return withParams(req, func(p suggestionParams) (any, error) {
			return s.desk.AcceptSuggestion(p.WindowID)
		})
	case "dismissSuggestion":
		return withParams(req, func(p suggestionParams) (any, error) {
			return nil, s.desk.DismissSuggestion(p.WindowID)
		})
	case "windows":
		return rpcResponse{ID: req.ID, Result: map[string]any{"windows": s.desk.Windows()}}
	case "layouts":
		return rpcResponse{ID: req.ID, Result: map[string]any{"layouts": s.desk.Layouts()}}
	default:
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: codeUnknownMethod, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
}

func (s *Server) rpcInit(req rpcRequest) rpcResponse {
	var p resizeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return invalidParams(req, err)
		}
	}
	if p.Width > 0 && p.Height > 0 {
		if err := s.desk.HandleScreenResize(p.Width, p.Height); err != nil {
			return respond(req, nil, err)
		}
	}
	if err := s.desk.Init(); err != nil {
		return respond(req, nil, err)
	}
	status := s.desk.Status()
	return rpcResponse{ID: req.ID, Result: map[string]any{
		"windows":  s.desk.Windows(),
		"viewport": status.Viewport,
		"mobile":   status.Mobile,
	}}
}

func (s *Server) rpcResize(req rpcRequest) rpcResponse {
	return withParams(req, func(p resizeParams) (any, error) {
		return nil, s.desk.HandleScreenResize(p.Width, p.Height)
	})
}

func (s *Server) rpcPointerDown(req rpcRequest) rpcResponse {
	return withParams(req, func(p pointerDownParams) (any, error) {
		region, err := interact.ParseRegion(p.Region)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", err, window.ErrInvalidOperation)
		}
		target := interact.Target{WindowID: p.WindowID, Region: region}
		if region == interact.RegionHandle {
			if target.Edge, err = interact.ParseEdge(p.Edge); err != nil {
				return nil, fmt.Errorf("%w: %w", err, window.ErrInvalidOperation)
			}
		}
		return nil, s.desk.PointerDown(target, p.X, p.Y)
	})
}

func (s *Server) windowOp(req rpcRequest, fn func(string) error) rpcResponse {
	return withParams(req, func(p idParams) (any, error) {
		return nil, fn(p.ID)
	})
}

func withParams[P any](req rpcRequest, fn func(P) (any, error)) rpcResponse {
	var p P
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return invalidParams(req, err)
		}
	}
	result, err := fn(p)
	return respond(req, result, err)
}

func invalidParams(req rpcRequest, err error) rpcResponse {
	return rpcResponse{ID: req.ID, Error: &rpcError{Code: codeInvalidParams, Message: err.Error()}}
}

// respond maps a desk error onto the response. A missing window is not an
// error for the page: the result is null and the next render corrects it.
func respond(req rpcRequest, result any, err error) rpcResponse {
	switch {
	case err == nil:
		return rpcResponse{ID: req.ID, Result: result}
	case errors.Is(err, window.ErrNotFound):
		return rpcResponse{ID: req.ID}
	default:
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: codeFailed, Message: err.Error()}}
	}
}
