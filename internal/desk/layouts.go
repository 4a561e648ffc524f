package desk

import (
	"fmt"
	"time"

	"github.com/1broseidon/floatdesk/internal/autosnap"
	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/window"
)

// LayoutInfo describes one layout for listings.
type LayoutInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Mode        config.LayoutMode `json:"mode"`
	// Cells is the number of windows the layout holds, 0 for dynamic
	// layouts.
	Cells    int    `json:"cells"`
	Split    bool   `json:"split,omitempty"`
	Fallback string `json:"fallback,omitempty"`
	Default  bool   `json:"default,omitempty"`
}

// Layouts lists the configured layouts by name.
func (d *Desk) Layouts() []LayoutInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]LayoutInfo, 0, len(d.cfg.Layouts))
	for _, name := range d.cfg.LayoutNames() {
		l := d.cfg.Layouts[name]
		info := LayoutInfo{
			Name:        name,
			Description: l.Description,
			Mode:        l.Mode,
			Split:       l.Split,
			Fallback:    l.Fallback,
			Default:     name == d.cfg.DefaultLayout,
		}
		if l.Mode == config.LayoutModeTemplates {
			info.Cells = len(l.Templates)
		}
		out = append(out, info)
	}
	return out
}

// ApplyLayout arranges targets, or every window when targets is nil. An
// empty name uses the default layout.
func (d *Desk) ApplyLayout(name string, targets []string) (tiling.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyLayout(name, targets)
}

func (d *Desk) applyLayout(name string, targets []string) (tiling.Result, error) {
	if name == "" {
		name = d.cfg.DefaultLayout
	}
	d.stopPreview()
	res, err := d.tiler.ApplyLayout(name, targets)
	if err != nil {
		return res, d.report("apply layout", err)
	}
	d.lastLayout = res.Layout
	if res.Degraded() {
		d.host.Notify(fmt.Sprintf("%s needs more windows; applied %s", res.Requested, res.Layout), SeverityInfo)
	}
	d.logger.Info("layout applied", "requested", res.Requested, "layout", res.Layout, "windows", len(res.Placed), "linked", res.Linked)
	d.render()
	return res, nil
}

// UndoLayout puts windows back where they were before the last layout.
func (d *Desk) UndoLayout() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopPreview()
	n, err := d.tiler.Undo()
	if err != nil {
		return 0, d.report("undo layout", err)
	}
	d.render()
	return n, nil
}

// PreviewLayout applies a layout and undoes it after duration.
func (d *Desk) PreviewLayout(name string, duration time.Duration) (tiling.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, err := d.applyLayout(name, nil)
	if err != nil {
		return res, err
	}
	var timer autosnap.Timer
	timer = d.scheduler.AfterFunc(duration, func() {
		if d.preview != timer {
			return
		}
		d.preview = nil
		if _, err := d.tiler.Undo(); err != nil {
			d.logger.Debug("preview revert skipped", "err", err)
		}
	})
	d.preview = timer
	return res, nil
}

func (d *Desk) stopPreview() {
	if d.preview != nil {
		d.preview.Stop()
		d.preview = nil
	}
}

// SnapTo tiles id into a screen zone.
func (d *Desk) SnapTo(id string, zone geom.Zone) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tiler.SnapTo(id, zone); err != nil {
		return d.report("snap", err)
	}
	d.render()
	return nil
}

// SetDefaultLayout changes the layout used when none is named. When path is
// set the configuration is saved there.
func (d *Desk) SetDefaultLayout(name, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.cfg.Layouts[name]; !ok {
		return fmt.Errorf("layout %q: %w: %w", name, tiling.ErrUnknownLayout, window.ErrInvalidOperation)
	}
	d.cfg.DefaultLayout = name
	if path == "" {
		return nil
	}
	if err := d.cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Status summarizes the desk.
type Status struct {
	Windows       int       `json:"windows"`
	Viewport      geom.Rect `json:"viewport"`
	Mobile        bool      `json:"mobile"`
	Gesture       string    `json:"gesture"`
	DefaultLayout string    `json:"default_layout"`
	ActiveLayout  string    `json:"active_layout,omitempty"`
	AutoSnap      bool      `json:"auto_snap"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

func (d *Desk) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Windows:       d.reg.Len(),
		Viewport:      d.reg.Viewport(),
		Mobile:        d.reg.Mobile(),
		Gesture:       d.ctrl.State().String(),
		DefaultLayout: d.cfg.DefaultLayout,
		ActiveLayout:  d.lastLayout,
		AutoSnap:      d.cfg.AutoSnap.Enabled,
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
	}
}
