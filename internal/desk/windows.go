package desk

import (
	"fmt"

	"github.com/1broseidon/floatdesk/internal/viewer"
	"github.com/1broseidon/floatdesk/internal/window"
)

// Open opens a viewer. A popup request handled by the host returns an empty
// id.
func (d *Desk) Open(req viewer.Request) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.creator.Open(req)
	if err != nil {
		return "", d.report("open", err)
	}
	if id != "" {
		d.render()
	}
	return id, nil
}

func (d *Desk) CreateImageViewer(name, url string, asPopup bool) (string, error) {
	return d.Open(viewer.Request{Kind: window.KindImage, Title: name, Ref: url, Popup: asPopup})
}

func (d *Desk) CreateAudioPlayer(name, url string, asPopup bool) (string, error) {
	return d.Open(viewer.Request{Kind: window.KindAudio, Title: name, Ref: url, Popup: asPopup})
}

func (d *Desk) CreateVideoPlayer(name, url string, asPopup bool) (string, error) {
	return d.Open(viewer.Request{Kind: window.KindVideo, Title: name, Ref: url, Popup: asPopup})
}

func (d *Desk) CreateFolderViewer(name, path string) (string, error) {
	return d.Open(viewer.Request{Kind: window.KindFolder, Title: name, Ref: path})
}

func (d *Desk) CreateTextEditor(name, path string) (string, error) {
	return d.Open(viewer.Request{Kind: window.KindTextEditor, Title: name, Ref: path})
}

// Windows lists open windows bottom to top.
func (d *Desk) Windows() []window.Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg.Snapshot()
}

// Window returns one window.
func (d *Desk) Window(id string) (window.Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg.Get(id)
}

func (d *Desk) Close(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reg.Close(id); err != nil {
		return d.report("close", err)
	}
	d.render()
	return nil
}

// CloseAll closes every window and returns how many there were.
func (d *Desk) CloseAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.reg.CloseAll()
	d.render()
	return n
}

// Focus raises id, restoring it first if minimized.
func (d *Desk) Focus(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.focus(id); err != nil {
		return d.report("focus", err)
	}
	d.render()
	return nil
}

func (d *Desk) focus(id string) error {
	if err := d.reg.SetMinimized(id, false); err != nil {
		return err
	}
	d.reg.Focus(id)
	return nil
}

// ToggleMinimized hides or restores id.
func (d *Desk) ToggleMinimized(id string) error {
	return d.toggle("minimize", id, func(w window.Window) error {
		return d.reg.SetMinimized(id, !w.Minimized)
	})
}

// TogglePinned locks or unlocks id against dragging.
func (d *Desk) TogglePinned(id string) error {
	return d.toggle("pin", id, func(w window.Window) error {
		return d.reg.SetPinned(id, !w.Pinned)
	})
}

// ToggleMagnetic switches edge snapping for id.
func (d *Desk) ToggleMagnetic(id string) error {
	return d.toggle("magnetic", id, func(w window.Window) error {
		if err := d.reg.SetMagnetic(id, !w.Magnetic); err != nil {
			return err
		}
		state := "off"
		if !w.Magnetic {
			state = "on"
		}
		d.host.Notify(fmt.Sprintf("Magnetic snapping %s for %s", state, w.Title), SeverityInfo)
		return nil
	})
}

func (d *Desk) ToggleFullscreen(id string) error {
	return d.toggle("fullscreen", id, func(window.Window) error {
		return d.tiler.ToggleFullscreen(id)
	})
}

// PopOut moves id into a separate browser window.
func (d *Desk) PopOut(id string) error {
	return d.toggle("pop out", id, func(window.Window) error {
		return d.creator.PopOut(id)
	})
}

func (d *Desk) toggle(op, id string, fn func(window.Window) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.reg.Get(id)
	if !ok {
		return d.report(op, fmt.Errorf("%s %q: %w", op, id, window.ErrNotFound))
	}
	if err := fn(w); err != nil {
		return d.report(op, err)
	}
	d.render()
	return nil
}
