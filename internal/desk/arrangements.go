package desk

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/1broseidon/floatdesk/internal/arrangement"
)

var errNoStore = errors.New("arrangements are disabled")

// SaveArrangement stores the current windows under name, replacing any
// arrangement with that name.
func (d *Desk) SaveArrangement(name string) (*arrangement.Arrangement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return nil, errNoStore
	}
	a, err := arrangement.Capture(name, d.reg)
	if err != nil {
		return nil, d.report("save arrangement", err)
	}
	if err := d.store.Write(a); err != nil {
		return nil, d.report("save arrangement", err)
	}
	d.logger.Info("arrangement saved", "name", name, "windows", len(a.Windows))
	d.host.Notify(fmt.Sprintf("Saved arrangement %q", name), SeveritySuccess)
	return a, nil
}

// Checkpoint saves the current windows under name without notifying the
// host. It skips the write when nothing changed since the last checkpoint
// and reports whether it wrote.
func (d *Desk) Checkpoint(name string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return false, errNoStore
	}
	if d.reg.Len() == 0 && d.checkpoint == nil {
		return false, nil
	}
	a, err := arrangement.Capture(name, d.reg)
	if err != nil {
		return false, err
	}
	if d.checkpoint != nil && reflect.DeepEqual(a.Windows, d.checkpoint) {
		return false, nil
	}
	if err := d.store.Write(a); err != nil {
		return false, err
	}
	d.checkpoint = a.Windows
	d.logger.Debug("checkpoint written", "name", name, "windows", len(a.Windows))
	return true, nil
}

// RestoreArrangement reopens and places the windows of a saved arrangement.
func (d *Desk) RestoreArrangement(name string) (arrangement.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return arrangement.Result{}, errNoStore
	}
	a, err := d.store.Read(name)
	if err != nil {
		return arrangement.Result{}, d.report("restore arrangement", err)
	}
	d.stopPreview()
	// No suggestions for windows the restore itself opens.
	d.detector.SetSuppressed(true)
	defer d.detector.SetSuppressed(false)
	res, err := arrangement.Restore(a, d.reg, d.creator, d.logger.With("arrangement", name))
	if err != nil {
		return res, d.report("restore arrangement", err)
	}
	if res.Failed > 0 {
		d.host.Notify(fmt.Sprintf("%d windows of %q could not be reopened", res.Failed, name), SeverityWarning)
	}
	d.logger.Info("arrangement restored", "name", name, "reused", res.Reused, "opened", res.Opened, "failed", res.Failed)
	d.render()
	return res, nil
}

func (d *Desk) DeleteArrangement(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return errNoStore
	}
	return d.store.Delete(name)
}

func (d *Desk) ListArrangements() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return nil, errNoStore
	}
	return d.store.List()
}
