package desk

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/interact"
	"github.com/1broseidon/floatdesk/internal/tiling"
)

func (d *Desk) PointerDown(t interact.Target, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ctrl.PointerDown(t, x, y); err != nil {
		return d.report("pointer down", err)
	}
	d.render()
	return nil
}

func (d *Desk) PointerMove(x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl.State() == interact.StateIdle {
		return nil
	}
	if err := d.ctrl.PointerMove(x, y); err != nil {
		return d.report("pointer move", err)
	}
	d.render()
	return nil
}

func (d *Desk) PointerUp(x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl.State() == interact.StateIdle {
		return nil
	}
	err := d.ctrl.PointerUp(x, y)
	d.render()
	return d.report("pointer up", err)
}

func (d *Desk) PointerCancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctrl.PointerCancel()
	d.render()
}

// Gesture reports the active gesture and its window.
func (d *Desk) Gesture() (interact.State, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctrl.State(), d.ctrl.WindowID()
}

// Key dispatches a key combo to its shortcut. It reports whether the combo
// was bound.
func (d *Desk) Key(combo string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.keys.Dispatch(combo)
	if ok {
		d.render()
	}
	return ok
}

func (d *Desk) bindShortcuts() error {
	return d.keys.RegisterAll(d.cfg.Shortcuts, d.runAction)
}

// runAction executes a shortcut against the focused window. Runs locked.
func (d *Desk) runAction(a config.Action) {
	switch a.Kind {
	case config.ActionMenu:
		d.host.ShowOverlay(d.layoutMenu())
		return
	case config.ActionHelp:
		d.host.ShowOverlay(d.shortcutHelp())
		return
	}

	top, ok := d.reg.Top()
	if !ok {
		d.host.Notify("No windows open", SeverityInfo)
		return
	}

	var err error
	switch a.Kind {
	case config.ActionLayout:
		_, _ = d.applyLayout(a.Arg, nil)
		return
	case config.ActionSnap:
		zone, perr := geom.ParseZone(a.Arg)
		if perr != nil {
			err = perr
			break
		}
		err = d.tiler.SnapTo(top.ID, zone)
	case config.ActionRestore:
		if top.Fullscreen() {
			err = d.tiler.ToggleFullscreen(top.ID)
		} else {
			err = d.tiler.RestoreDefault(top.ID)
		}
	case config.ActionMagnetic:
		err = d.reg.SetMagnetic(top.ID, !top.Magnetic)
		if err == nil {
			state := "off"
			if !top.Magnetic {
				state = "on"
			}
			d.host.Notify(fmt.Sprintf("Magnetic snapping %s", state), SeverityInfo)
		}
	case config.ActionFullscreen:
		err = d.tiler.ToggleFullscreen(top.ID)
	case config.ActionClose:
		err = d.reg.Close(top.ID)
	case config.ActionMinimize:
		err = d.reg.SetMinimized(top.ID, true)
	}
	_ = d.report("shortcut "+a.String(), err)
}

func (d *Desk) layoutMenu() Overlay {
	o := Overlay{Kind: "menu"}
	for _, name := range d.cfg.LayoutNames() {
		label := name
		if l, err := d.cfg.GetLayout(name); err == nil && l.Description != "" {
			label = l.Description
		}
		o.Items = append(o.Items, OverlayItem{Key: name, Label: label})
	}
	return o
}

func (d *Desk) shortcutHelp() Overlay {
	o := Overlay{Kind: "help"}
	for _, b := range d.keys.Bindings() {
		o.Items = append(o.Items, OverlayItem{Key: b.Combo, Label: describeAction(b.Action)})
	}
	return o
}

func describeAction(a config.Action) string {
	switch a.Kind {
	case config.ActionLayout:
		return "Layout: " + a.Arg
	case config.ActionSnap:
		return "Snap to " + strings.ReplaceAll(a.Arg, "-", " ")
	case config.ActionRestore:
		return "Restore size"
	case config.ActionMagnetic:
		return "Toggle magnetic snapping"
	case config.ActionFullscreen:
		return "Toggle fullscreen"
	case config.ActionClose:
		return "Close window"
	case config.ActionMinimize:
		return "Minimize window"
	case config.ActionMenu:
		return "Layout menu"
	case config.ActionHelp:
		return "Shortcut help"
	}
	return a.String()
}

// AcceptSuggestion tiles a suggested pair.
func (d *Desk) AcceptSuggestion(windowID string) (tiling.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// The accepted split replaces whatever a pending preview would revert.
	if _, ok := d.detector.Shown(windowID); ok {
		d.stopPreview()
	}
	res, err := d.detector.Accept(windowID)
	if err != nil {
		return res, d.report("accept suggestion", err)
	}
	d.lastLayout = res.Layout
	d.render()
	return res, nil
}

// DismissSuggestion withdraws a suggestion without touching any window.
func (d *Desk) DismissSuggestion(windowID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.detector.Dismiss(windowID); err != nil {
		d.logger.Debug("dismiss ignored", "id", windowID, "err", err)
		return err
	}
	return nil
}
