// Package autosnap offers to tile a newly opened window next to an already
// open window showing a related file.
package autosnap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/window"
)

// ErrNoSuggestion means no suggestion is shown for the window.
var ErrNoSuggestion = errors.New("no suggestion for window")

const (
	DefaultDelay = 500 * time.Millisecond
	DefaultTTL   = 8 * time.Second
)

// Suggestion proposes tiling WindowID (the new window) with MatchID.
type Suggestion struct {
	WindowID   string `json:"windowId"`
	MatchID    string `json:"matchId"`
	Title      string `json:"title"`
	MatchTitle string `json:"matchTitle"`
	Reason     Reason `json:"reason"`
}

// Message is the user-facing prompt text.
func (s Suggestion) Message() string {
	return fmt.Sprintf("%q and %q look related. Tile them side by side?", s.MatchTitle, s.Title)
}

// Presenter shows and withdraws suggestion prompts.
type Presenter interface {
	ShowSuggestion(s Suggestion)
	HideSuggestion(windowID string)
}

// Tiler is the tiling operation an accepted suggestion runs.
type Tiler interface {
	ApplyLayout(layoutID string, targets []string) (tiling.Result, error)
}

// Options configures a Detector.
type Options struct {
	Disabled bool
	// Delay debounces a detection before the prompt is shown.
	Delay time.Duration
	// TTL auto-dismisses a shown prompt. Zero keeps it until answered.
	TTL       time.Duration
	Scheduler Scheduler
	Logger    *slog.Logger
}

type entry struct {
	s     Suggestion
	timer Timer
}

// Detector watches window opens and closes. It is not safe for concurrent
// use: the owner must serialize registry events, timer callbacks and
// Accept/Dismiss calls.
type Detector struct {
	reg       *window.Registry
	tiler     Tiler
	presenter Presenter
	opts      Options
	logger    *slog.Logger
	// suppressed ignores newly opened windows without touching queued work.
	suppressed bool

	// pending and shown are keyed by the new window's id.
	pending map[string]*entry
	shown   map[string]*entry
}

// NewDetector creates a detector and subscribes it to reg's open and close
// hooks.
func NewDetector(reg *window.Registry, tiler Tiler, presenter Presenter, opts Options) *Detector {
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Detector{
		reg:       reg,
		tiler:     tiler,
		presenter: presenter,
		opts:      opts,
		logger:    logger,
		pending:   make(map[string]*entry),
		shown:     make(map[string]*entry),
	}
	reg.OnOpen(d.HandleOpened)
	reg.OnClose(d.HandleClosed)
	return d
}

// SetEnabled switches detection on or off. Turning it off drops pending
// suggestions; shown ones stay until answered.
func (d *Detector) SetEnabled(enabled bool) {
	d.opts.Disabled = !enabled
	if !enabled {
		for id := range d.pending {
			d.cancelPending(id)
		}
	}
}

// SetSuppressed makes HandleOpened ignore windows opened while it is set.
// Pending and shown suggestions are left alone.
func (d *Detector) SetSuppressed(suppressed bool) {
	d.suppressed = suppressed
}

// SetTiming changes the debounce delay and prompt TTL for suggestions
// scheduled from now on.
func (d *Detector) SetTiming(delay, ttl time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d.opts.Delay = delay
	d.opts.TTL = ttl
}

// Pending reports whether a suggestion for windowID is waiting for its
// debounce.
func (d *Detector) Pending(windowID string) bool {
	_, ok := d.pending[windowID]
	return ok
}

// Shown returns the suggestion currently offered for windowID.
func (d *Detector) Shown(windowID string) (Suggestion, bool) {
	e, ok := d.shown[windowID]
	if !ok {
		return Suggestion{}, false
	}
	return e.s, true
}

// HandleOpened runs detection for a newly opened window.
func (d *Detector) HandleOpened(w window.Window) {
	if d.opts.Disabled || d.suppressed || d.reg.Len() < 2 {
		return
	}
	match, reason, ok := d.detect(newResource(w.Kind, w.Title, w.SourceRef), []string{w.ID})
	if !ok {
		d.logger.Debug("no related window", "id", w.ID, "ref", w.SourceRef)
		return
	}
	if d.pairQueued(w.ID, match.ID) {
		d.logger.Debug("pair already suggested", "id", w.ID, "match", match.ID)
		return
	}

	d.cancelPending(w.ID)
	e := &entry{s: Suggestion{
		WindowID:   w.ID,
		MatchID:    match.ID,
		Title:      w.Title,
		MatchTitle: match.Title,
		Reason:     reason,
	}}
	e.timer = d.opts.Scheduler.AfterFunc(d.opts.Delay, func() { d.fire(e) })
	d.pending[w.ID] = e
	d.logger.Debug("suggestion scheduled", "id", w.ID, "match", match.ID, "reason", reason, "delay", d.opts.Delay)
}

// pairQueued reports whether a and b are already paired in a pending or
// shown suggestion, in either direction.
func (d *Detector) pairQueued(a, b string) bool {
	for _, m := range []map[string]*entry{d.pending, d.shown} {
		for _, e := range m {
			if (e.s.WindowID == a && e.s.MatchID == b) || (e.s.WindowID == b && e.s.MatchID == a) {
				return true
			}
		}
	}
	return false
}

// HandleClosed withdraws every suggestion that mentions the closed window.
func (d *Detector) HandleClosed(w window.Window) {
	for id, e := range d.pending {
		if e.s.WindowID == w.ID || e.s.MatchID == w.ID {
			d.logger.Debug("pending suggestion cancelled by close", "id", id, "closed", w.ID)
			d.cancelPending(id)
		}
	}
	for id, e := range d.shown {
		if e.s.WindowID == w.ID || e.s.MatchID == w.ID {
			d.withdraw(id)
		}
	}
}

func (d *Detector) cancelPending(id string) {
	if e, ok := d.pending[id]; ok {
		e.timer.Stop()
		delete(d.pending, id)
	}
}

func (d *Detector) withdraw(id string) {
	e, ok := d.shown[id]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(d.shown, id)
	if d.presenter != nil {
		d.presenter.HideSuggestion(id)
	}
}

func (d *Detector) fire(e *entry) {
	// A stopped timer may still fire if its callback was already queued
	// behind the owner's lock.
	if d.pending[e.s.WindowID] != e {
		return
	}
	delete(d.pending, e.s.WindowID)

	_, newOK := d.reg.Get(e.s.WindowID)
	_, matchOK := d.reg.Get(e.s.MatchID)
	if !newOK || !matchOK || d.reg.Len() < 2 {
		return
	}

	e.timer = nil
	if d.opts.TTL > 0 {
		e.timer = d.opts.Scheduler.AfterFunc(d.opts.TTL, func() { d.expire(e) })
	}
	d.shown[e.s.WindowID] = e
	d.logger.Info("suggesting split", "id", e.s.WindowID, "match", e.s.MatchID, "reason", e.s.Reason)
	if d.presenter != nil {
		d.presenter.ShowSuggestion(e.s)
	}
}

func (d *Detector) expire(e *entry) {
	if d.shown[e.s.WindowID] != e {
		return
	}
	d.logger.Debug("suggestion expired", "id", e.s.WindowID)
	d.withdraw(e.s.WindowID)
}

// Accept tiles the suggested pair side by side and links them.
func (d *Detector) Accept(windowID string) (tiling.Result, error) {
	e, ok := d.shown[windowID]
	if !ok {
		return tiling.Result{}, fmt.Errorf("accept %q: %w", windowID, ErrNoSuggestion)
	}
	d.withdraw(windowID)
	res, err := d.tiler.ApplyLayout(tiling.SplitLayout, []string{e.s.MatchID, e.s.WindowID})
	if err != nil {
		return res, fmt.Errorf("accept suggestion for %q: %w", windowID, err)
	}
	return res, nil
}

// Dismiss withdraws the suggestion without changing any window.
func (d *Detector) Dismiss(windowID string) error {
	if _, ok := d.shown[windowID]; !ok {
		return fmt.Errorf("dismiss %q: %w", windowID, ErrNoSuggestion)
	}
	d.withdraw(windowID)
	return nil
}
