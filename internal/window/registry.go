package window

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/1broseidon/floatdesk/internal/geom"
)

// Options configures a Registry.
type Options struct {
	Policy   Policy
	Viewport geom.Rect
	Logger   *slog.Logger
	// NewID overrides id allocation, mainly for tests.
	NewID func() string
}

// Registry owns every open window and the z-order counter. It is not safe
// for concurrent use; the desk serializes access.
type Registry struct {
	policy   Policy
	viewport geom.Rect
	logger   *slog.Logger
	newID    func() string

	windows map[string]*Window
	order   []string // creation order
	nextZ   int

	openHooks  []func(Window)
	closeHooks []func(Window)
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	policy := opts.Policy
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	return &Registry{
		policy:   policy,
		viewport: opts.Viewport,
		logger:   logger,
		newID:    newID,
		windows:  make(map[string]*Window),
		nextZ:    policy.FirstZIndex,
	}
}

// OnOpen registers fn to run after every successful Open.
func (r *Registry) OnOpen(fn func(Window)) {
	r.openHooks = append(r.openHooks, fn)
}

// OnClose registers fn to run after a window is removed. fn receives the
// window as it was just before closing.
func (r *Registry) OnClose(fn func(Window)) {
	r.closeHooks = append(r.closeHooks, fn)
}

func (r *Registry) Policy() Policy { return r.policy }

// SetPolicy replaces the placement rules. Existing geometry is left as is
// until its next update.
func (r *Registry) SetPolicy(p Policy) { r.policy = p }

func (r *Registry) Viewport() geom.Rect { return r.viewport }

// SetViewport records new viewport bounds. Window geometry is not touched.
func (r *Registry) SetViewport(view geom.Rect) {
	r.viewport = view
}

// Mobile reports whether the current viewport uses the column layout.
func (r *Registry) Mobile() bool {
	return r.policy.Mobile(r.viewport)
}

// NextZIndex returns the value the next open or focus will take.
func (r *Registry) NextZIndex() int { return r.nextZ }

// OpenOption adjusts a single Open call.
type OpenOption func(*openConfig)

type openConfig struct {
	size     Size
	geometry *geom.Rect
}

// WithSize requests an initial size instead of the policy default.
func WithSize(width, height int) OpenOption {
	return func(c *openConfig) {
		c.size = Size{Width: width, Height: height}
	}
}

// WithGeometry places the window exactly (after clamping) instead of
// cascading it.
func WithGeometry(rect geom.Rect) OpenOption {
	return func(c *openConfig) {
		c.geometry = &rect
	}
}

// Open registers a new window on top of the stack.
func (r *Registry) Open(kind Kind, title, sourceRef string, opts ...OpenOption) Window {
	cfg := openConfig{size: r.policy.DefaultSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	var rect geom.Rect
	if cfg.geometry != nil {
		rect = *cfg.geometry
	} else {
		rect = r.place(cfg.size)
	}

	w := &Window{
		ID:        r.newID(),
		Kind:      kind,
		Title:     title,
		SourceRef: sourceRef,
		Geometry:  r.clamp(rect),
		ZIndex:    r.nextZ,
		Magnetic:  true,
	}
	r.nextZ++
	r.windows[w.ID] = w
	r.order = append(r.order, w.ID)

	r.logger.Debug("window opened", "id", w.ID, "kind", kind, "title", title, "z", w.ZIndex, "geometry", w.Geometry)

	snapshot := w.clone()
	for _, fn := range r.openHooks {
		fn(snapshot)
	}
	return snapshot
}

// place picks a default rect: a cascade step from the most recently opened
// window, or centered when nothing is open.
func (r *Registry) place(size Size) geom.Rect {
	view := r.viewport
	size.Width = geom.Clamp(size.Width, r.policy.MinWidth, max(view.Width, r.policy.MinWidth))
	size.Height = geom.Clamp(size.Height, r.policy.MinHeight, max(view.Height, r.policy.MinHeight))

	var last *Window
	if n := len(r.order); n > 0 {
		last = r.windows[r.order[n-1]]
	}

	if r.Mobile() {
		y := view.Y + r.policy.MobileGutter
		if last != nil {
			y = last.Geometry.Y + r.policy.CascadeStep
		}
		if y+size.Height > view.Bottom() {
			y = view.Y + r.policy.MobileGutter
		}
		return r.policy.Column(view, y, size.Height)
	}

	if last == nil {
		return geom.Rect{
			X:      view.X + (view.Width-size.Width)/2,
			Y:      view.Y + (view.Height-size.Height)/2,
			Width:  size.Width,
			Height: size.Height,
		}
	}

	step := r.policy.CascadeStep
	rect := geom.Rect{
		X:      last.Geometry.X + step,
		Y:      last.Geometry.Y + step,
		Width:  size.Width,
		Height: size.Height,
	}
	if rect.Right() > view.Right() || rect.Bottom() > view.Bottom() {
		rect.X = view.X + step
		rect.Y = view.Y + step
	}
	return rect
}

// clamp enforces the minimum size and keeps VisibleMargin pixels on screen.
// The top edge never goes above the viewport so the title bar stays
// reachable.
func (r *Registry) clamp(rect geom.Rect) geom.Rect {
	view := r.viewport
	margin := r.policy.VisibleMargin

	rect.Width = max(rect.Width, r.policy.MinWidth)
	rect.Height = max(rect.Height, r.policy.MinHeight)
	if view.Empty() {
		return rect
	}
	rect.X = geom.Clamp(rect.X, view.X+margin-rect.Width, view.Right()-margin)
	rect.Y = geom.Clamp(rect.Y, view.Y, view.Bottom()-margin)
	return rect
}

// Get returns a snapshot of one window.
func (r *Registry) Get(id string) (Window, bool) {
	w, ok := r.windows[id]
	if !ok {
		return Window{}, false
	}
	return w.clone(), true
}

// Len is the number of open windows.
func (r *Registry) Len() int { return len(r.windows) }

// Focus raises id to the top. Unknown ids are ignored; the result reports
// whether anything happened.
func (r *Registry) Focus(id string) bool {
	w, ok := r.windows[id]
	if !ok {
		return false
	}
	w.ZIndex = r.nextZ
	r.nextZ++
	r.logger.Debug("window focused", "id", id, "z", w.ZIndex)
	return true
}

// Top returns the window with the highest z-index.
func (r *Registry) Top() (Window, bool) {
	var top *Window
	for _, w := range r.windows {
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return top.clone(), true
}

// Close removes id and tears down its pairing.
func (r *Registry) Close(id string) error {
	w, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("close %q: %w", id, ErrNotFound)
	}
	snapshot := w.clone()
	if peer, ok := r.windows[w.LinkedPeerID]; ok {
		peer.LinkedPeerID = ""
	}
	delete(r.windows, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })

	r.logger.Debug("window closed", "id", id, "remaining", len(r.windows))

	for _, fn := range r.closeHooks {
		fn(snapshot)
	}
	return nil
}

// CloseAll closes every window in creation order and returns how many were
// closed.
func (r *Registry) CloseAll() int {
	ids := slices.Clone(r.order)
	for _, id := range ids {
		_ = r.Close(id)
	}
	return len(ids)
}

// UpdateGeometry applies rect to id after enforcing the minimum size and the
// visible margin. It returns the rect actually applied.
func (r *Registry) UpdateGeometry(id string, rect geom.Rect) (geom.Rect, error) {
	w, ok := r.windows[id]
	if !ok {
		return geom.Rect{}, fmt.Errorf("update geometry %q: %w", id, ErrNotFound)
	}
	if r.viewport.Empty() {
		return w.Geometry, fmt.Errorf("update geometry %q: empty viewport: %w", id, ErrInvalidGeometry)
	}
	applied := r.clamp(rect)
	if applied != rect {
		r.logger.Debug("geometry corrected", "id", id, "requested", rect, "applied", applied)
	}
	w.Geometry = applied
	return applied, nil
}

// Link pairs a and b for coupled resizing.
func (r *Registry) Link(a, b string) error {
	if a == b {
		return fmt.Errorf("link %q to itself: %w", a, ErrInvalidOperation)
	}
	wa, ok := r.windows[a]
	if !ok {
		return fmt.Errorf("link %q: %w", a, ErrNotFound)
	}
	wb, ok := r.windows[b]
	if !ok {
		return fmt.Errorf("link %q: %w", b, ErrNotFound)
	}
	if wa.LinkedPeerID != "" && wa.LinkedPeerID != b {
		return fmt.Errorf("link %q: already linked to %q: %w", a, wa.LinkedPeerID, ErrInvalidOperation)
	}
	if wb.LinkedPeerID != "" && wb.LinkedPeerID != a {
		return fmt.Errorf("link %q: already linked to %q: %w", b, wb.LinkedPeerID, ErrInvalidOperation)
	}
	wa.LinkedPeerID = b
	wb.LinkedPeerID = a
	r.logger.Debug("windows linked", "a", a, "b", b)
	return nil
}

// Unlink clears the pairing of id on both sides.
func (r *Registry) Unlink(id string) {
	w, ok := r.windows[id]
	if !ok || w.LinkedPeerID == "" {
		return
	}
	if peer, ok := r.windows[w.LinkedPeerID]; ok {
		peer.LinkedPeerID = ""
	}
	r.logger.Debug("windows unlinked", "a", id, "b", w.LinkedPeerID)
	w.LinkedPeerID = ""
}

// SetPinned marks id as pinned. Pinned windows ignore drag.
func (r *Registry) SetPinned(id string, pinned bool) error {
	w, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("pin %q: %w", id, ErrNotFound)
	}
	w.Pinned = pinned
	return nil
}

func (r *Registry) SetMinimized(id string, minimized bool) error {
	w, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("minimize %q: %w", id, ErrNotFound)
	}
	w.Minimized = minimized
	return nil
}

// SetMagnetic controls whether id edge-snaps when a drag ends.
func (r *Registry) SetMagnetic(id string, magnetic bool) error {
	w, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("magnetic %q: %w", id, ErrNotFound)
	}
	w.Magnetic = magnetic
	return nil
}

// SetRestore stores (or with nil clears) the rect id returns to when leaving
// fullscreen.
func (r *Registry) SetRestore(id string, rect *geom.Rect) error {
	w, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("restore %q: %w", id, ErrNotFound)
	}
	if rect == nil {
		w.Restore = nil
		return nil
	}
	saved := *rect
	w.Restore = &saved
	return nil
}

// List yields windows in paint order, lowest z-index first. Each iteration
// reads the live state at the moment it starts.
func (r *Registry) List() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		ws := make([]*Window, 0, len(r.windows))
		for _, w := range r.windows {
			ws = append(ws, w)
		}
		slices.SortFunc(ws, func(a, b *Window) int { return a.ZIndex - b.ZIndex })
		for _, w := range ws {
			if !yield(w.clone()) {
				return
			}
		}
	}
}

// Snapshot collects List into a slice.
func (r *Registry) Snapshot() []Window {
	return slices.Collect(r.List())
}

// ByRecency returns window ids with the most recently focused first.
func (r *Registry) ByRecency() []string {
	ws := r.Snapshot()
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[len(ws)-1-i] = w.ID
	}
	return ids
}
