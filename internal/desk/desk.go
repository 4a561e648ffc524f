// Package desk wires the window registry, gesture controller, tiler,
// auto-snap detector and viewer creators into one host-facing window
// manager.
package desk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/floatdesk/internal/arrangement"
	"github.com/1broseidon/floatdesk/internal/autosnap"
	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/hotkeys"
	"github.com/1broseidon/floatdesk/internal/interact"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/viewer"
	"github.com/1broseidon/floatdesk/internal/window"
)

// Severity grades a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Overlay is a transient panel such as the layout menu or shortcut help.
type Overlay struct {
	Kind  string        `json:"kind"`
	Items []OverlayItem `json:"items"`
}

type OverlayItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Host is the page the desk draws into. Calls happen with the desk locked
// and must not call back into the desk.
type Host interface {
	Render(windows []window.Window)
	Notify(message string, severity Severity)
	ShowSuggestion(s autosnap.Suggestion)
	HideSuggestion(windowID string)
	ShowOverlay(o Overlay)
	OpenPopup(kind window.Kind, title, ref string) error
}

// Options configures a Desk.
type Options struct {
	Config *config.Config
	Host   Host
	Logger *slog.Logger
	// Store persists arrangements. Nil disables them.
	Store     *arrangement.Store
	Scheduler autosnap.Scheduler
	NewID     func() string
}

// Desk is safe for concurrent use. Every operation, timer callback included,
// runs under one lock so the registry sees events one at a time.
type Desk struct {
	mu        sync.Mutex
	cfg       *config.Config
	logger    *slog.Logger
	host      Host
	scheduler autosnap.Scheduler
	store     *arrangement.Store
	started   time.Time
	ready     bool

	reg      *window.Registry
	tiler    *tiling.Tiler
	ctrl     *interact.Controller
	detector *autosnap.Detector
	creator  *viewer.Creator
	keys     *hotkeys.Handler

	lastLayout string
	preview    autosnap.Timer
	checkpoint []arrangement.WindowState
}

// New builds a desk with an empty registry sized to the configured
// viewport.
func New(opts Options) (*Desk, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	host := opts.Host
	if host == nil {
		host = nopHost{}
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = autosnap.SystemScheduler
	}

	d := &Desk{
		cfg:     cfg,
		logger:  logger,
		host:    host,
		store:   opts.Store,
		started: time.Now(),
	}
	d.scheduler = lockedScheduler{d: d, inner: scheduler}

	d.reg = window.NewRegistry(window.Options{
		Policy:   policyFrom(cfg),
		Viewport: geom.Rect{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Logger:   logger.With("component", "registry"),
		NewID:    opts.NewID,
	})
	d.tiler = tiling.NewTiler(d.reg, cfg, logger.With("component", "tiling"))
	d.ctrl = interact.NewController(d.reg, d.controllerOptions(cfg))
	d.detector = autosnap.NewDetector(d.reg, d.tiler, presenter{d}, autosnap.Options{
		Disabled:  !cfg.AutoSnap.Enabled,
		Delay:     cfg.AutoSnapDelay(),
		TTL:       cfg.SuggestionTTL(),
		Scheduler: d.scheduler,
		Logger:    logger.With("component", "autosnap"),
	})
	d.creator = viewer.NewCreator(d.reg, viewer.Options{
		Popups: popupHost{d},
		OnPopupBlocked: func(title string) {
			d.host.Notify(fmt.Sprintf("Popups are blocked; %s opened in a floating window", title), SeverityWarning)
		},
		Logger: logger.With("component", "viewer"),
	})
	d.keys = hotkeys.NewHandler(logger.With("component", "hotkeys"))
	return d, nil
}

func policyFrom(cfg *config.Config) window.Policy {
	p := window.DefaultPolicy()
	p.MinWidth = cfg.Window.MinWidth
	p.MinHeight = cfg.Window.MinHeight
	p.VisibleMargin = cfg.Window.VisibleMargin
	p.CascadeStep = cfg.Window.CascadeStep
	p.MobileBreakpoint = cfg.Window.MobileBreakpoint
	p.MobileGutter = cfg.Window.MobileGutter
	return p
}

func (d *Desk) controllerOptions(cfg *config.Config) interact.Options {
	return interact.Options{
		SnapThreshold: cfg.Snap.Threshold,
		ZonesOnDrag:   cfg.Snap.ZonesOnDrag,
		Zones:         geom.ZoneMetrics{EdgeMargin: cfg.Snap.EdgeMargin, CornerSize: cfg.Snap.CornerSize},
		Snapper:       d.tiler,
		Logger:        d.logger.With("component", "interact"),
	}
}

// SetHost replaces the host. A nil host discards output.
func (d *Desk) SetHost(h Host) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == nil {
		h = nopHost{}
	}
	d.host = h
}

// Init binds the configured shortcuts and draws the current windows. Calls
// after the first only redraw.
func (d *Desk) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		if err := d.bindShortcuts(); err != nil {
			return err
		}
		d.ready = true
		d.logger.Info("desk initialized", "viewport", d.reg.Viewport(), "shortcuts", len(d.keys.Bindings()))
	}
	d.render()
	return nil
}

// SetConfig applies a reloaded configuration to every component.
func (d *Desk) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg = cfg
	d.reg.SetPolicy(policyFrom(cfg))
	d.tiler.SetConfig(cfg)
	d.ctrl.SetOptions(d.controllerOptions(cfg))
	d.detector.SetEnabled(cfg.AutoSnap.Enabled)
	d.detector.SetTiming(cfg.AutoSnapDelay(), cfg.SuggestionTTL())
	if d.ready {
		d.keys.Reset()
		if err := d.bindShortcuts(); err != nil {
			return err
		}
	}
	d.logger.Info("configuration applied", "layouts", len(cfg.Layouts), "shortcuts", len(cfg.Shortcuts))
	return nil
}

// Config returns the configuration in use.
func (d *Desk) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// HandleScreenResize records a new viewport and refits every window.
func (d *Desk) HandleScreenResize(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, window.ErrInvalidGeometry)
	}
	d.ctrl.HandleViewportResize(geom.Rect{Width: width, Height: height})
	d.logger.Debug("viewport resized", "width", width, "height", height, "mobile", d.reg.Mobile())
	d.render()
	return nil
}

func (d *Desk) render() {
	d.host.Render(d.reg.Snapshot())
}

// report logs err and tells the user about failures they can act on.
// NotFound is expected noise from stale host state and stays quiet.
func (d *Desk) report(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, window.ErrNotFound), errors.Is(err, autosnap.ErrNoSuggestion):
		d.logger.Debug("ignored stale window reference", "op", op, "err", err)
	case errors.Is(err, tiling.ErrNoWindows):
		d.host.Notify("No windows open", SeverityInfo)
	case errors.Is(err, window.ErrInvalidOperation), errors.Is(err, viewer.ErrInvalidSource),
		errors.Is(err, arrangement.ErrNotFound):
		d.logger.Info("operation rejected", "op", op, "err", err)
		d.host.Notify(err.Error(), SeverityWarning)
	default:
		d.logger.Warn("operation failed", "op", op, "err", err)
		d.host.Notify(err.Error(), SeverityError)
	}
	return err
}

// lockedScheduler runs timer callbacks under the desk lock and redraws
// afterwards.
type lockedScheduler struct {
	d     *Desk
	inner autosnap.Scheduler
}

func (s lockedScheduler) AfterFunc(dur time.Duration, f func()) autosnap.Timer {
	return s.inner.AfterFunc(dur, func() {
		s.d.mu.Lock()
		defer s.d.mu.Unlock()
		f()
		s.d.render()
	})
}

type presenter struct{ d *Desk }

func (p presenter) ShowSuggestion(s autosnap.Suggestion) { p.d.host.ShowSuggestion(s) }
func (p presenter) HideSuggestion(id string)             { p.d.host.HideSuggestion(id) }

type popupHost struct{ d *Desk }

func (p popupHost) OpenPopup(kind window.Kind, title, ref string) error {
	return p.d.host.OpenPopup(kind, title, ref)
}

type nopHost struct{}

func (nopHost) Render([]window.Window)             {}
func (nopHost) Notify(string, Severity)            {}
func (nopHost) ShowSuggestion(autosnap.Suggestion) {}
func (nopHost) HideSuggestion(string)              {}
func (nopHost) ShowOverlay(Overlay)                {}
func (nopHost) OpenPopup(window.Kind, string, string) error {
	return viewer.ErrPopupBlocked
}
