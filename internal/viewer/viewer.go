// Package viewer opens content windows for files and folders.
package viewer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/1broseidon/floatdesk/internal/autosnap"
	"github.com/1broseidon/floatdesk/internal/window"
)

var (
	// ErrInvalidSource rejects an empty or malformed source ref.
	ErrInvalidSource = errors.New("invalid source ref")
	// ErrPopupBlocked is returned by a PopupOpener that could not open a
	// separate browser window.
	ErrPopupBlocked = errors.New("popup blocked")
)

// DefaultSizes is the initial size per window kind on wide viewports.
var DefaultSizes = map[window.Kind]window.Size{
	window.KindImage:      {Width: 400, Height: 500},
	window.KindAudio:      {Width: 350, Height: 180},
	window.KindVideo:      {Width: 640, Height: 420},
	window.KindFolder:     {Width: 600, Height: 500},
	window.KindTextEditor: {Width: 700, Height: 520},
	window.KindGeneric:    {Width: 400, Height: 300},
}

// PopupOpener shows content in a separate top-level browser window.
type PopupOpener interface {
	OpenPopup(kind window.Kind, title, ref string) error
}

// Options configures a Creator.
type Options struct {
	Popups PopupOpener
	// OnPopupBlocked is told when a popup request fell back to a floating
	// window.
	OnPopupBlocked func(title string)
	Logger         *slog.Logger
}

// Creator opens viewer windows in a registry.
type Creator struct {
	reg     *window.Registry
	popups  PopupOpener
	blocked func(string)
	logger  *slog.Logger
}

func NewCreator(reg *window.Registry, opts Options) *Creator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Creator{reg: reg, popups: opts.Popups, blocked: opts.OnPopupBlocked, logger: logger}
}

// Request describes one viewer to open.
type Request struct {
	Kind  window.Kind `json:"kind"`
	Title string      `json:"title"`
	Ref   string      `json:"ref"`
	Popup bool        `json:"popup"`
}

// Open validates req and opens it as a floating window, or as a popup when
// requested on a wide viewport. A popup returns an empty id.
func (c *Creator) Open(req Request) (string, error) {
	if _, err := window.ParseKind(string(req.Kind)); err != nil {
		return "", fmt.Errorf("open viewer: %v: %w", err, window.ErrInvalidOperation)
	}
	if err := ValidateRef(req.Ref); err != nil {
		return "", err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = TitleFor(req.Ref)
	}

	if req.Popup && !c.reg.Mobile() && req.Kind != window.KindTextEditor {
		err := c.openPopup(req.Kind, title, req.Ref)
		if err == nil {
			return "", nil
		}
		if !errors.Is(err, ErrPopupBlocked) {
			return "", err
		}
		c.logger.Warn("popup blocked, opening floating window", "title", title)
		if c.blocked != nil {
			c.blocked(title)
		}
	}

	size, ok := DefaultSizes[req.Kind]
	if !ok {
		size = c.reg.Policy().DefaultSize
	}
	w := c.reg.Open(req.Kind, title, req.Ref, window.WithSize(size.Width, size.Height))
	c.logger.Info("viewer opened", "id", w.ID, "kind", req.Kind, "title", title)
	return w.ID, nil
}

func (c *Creator) openPopup(kind window.Kind, title, ref string) error {
	if c.popups == nil {
		return ErrPopupBlocked
	}
	return c.popups.OpenPopup(kind, title, ref)
}

func (c *Creator) CreateImageViewer(name, ref string, asPopup bool) (string, error) {
	return c.Open(Request{Kind: window.KindImage, Title: name, Ref: ref, Popup: asPopup})
}

func (c *Creator) CreateAudioPlayer(name, ref string, asPopup bool) (string, error) {
	return c.Open(Request{Kind: window.KindAudio, Title: name, Ref: ref, Popup: asPopup})
}

func (c *Creator) CreateVideoPlayer(name, ref string, asPopup bool) (string, error) {
	return c.Open(Request{Kind: window.KindVideo, Title: name, Ref: ref, Popup: asPopup})
}

// CreateFolderViewer opens a folder listing. Folders always float.
func (c *Creator) CreateFolderViewer(name, folderPath string) (string, error) {
	return c.Open(Request{Kind: window.KindFolder, Title: name, Ref: folderPath})
}

// CreateTextEditor opens an editor. Editors always float.
func (c *Creator) CreateTextEditor(name, ref string) (string, error) {
	return c.Open(Request{Kind: window.KindTextEditor, Title: name, Ref: ref})
}

func (c *Creator) CreateGenericViewer(name, ref string, asPopup bool) (string, error) {
	return c.Open(Request{Kind: window.KindGeneric, Title: name, Ref: ref, Popup: asPopup})
}

// PopOut moves an open window into a popup. The floating window is closed
// only when the popup opened.
func (c *Creator) PopOut(id string) error {
	w, ok := c.reg.Get(id)
	if !ok {
		return fmt.Errorf("pop out %q: %w", id, window.ErrNotFound)
	}
	if w.Kind == window.KindTextEditor {
		return fmt.Errorf("pop out %q: editors cannot be detached: %w", id, window.ErrInvalidOperation)
	}
	if err := c.openPopup(w.Kind, w.Title, w.SourceRef); err != nil {
		if errors.Is(err, ErrPopupBlocked) && c.blocked != nil {
			c.blocked(w.Title)
		}
		return err
	}
	return c.reg.Close(id)
}

// ValidateRef rejects refs a viewer cannot load.
func ValidateRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("empty ref: %w", ErrInvalidSource)
	}
	if strings.IndexFunc(ref, unicode.IsControl) >= 0 {
		return fmt.Errorf("ref %q contains control characters: %w", ref, ErrInvalidSource)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("ref %q: %v: %w", ref, err, ErrInvalidSource)
	}
	switch u.Scheme {
	case "", "http", "https", "file", "blob", "data":
	default:
		return fmt.Errorf("ref %q: unsupported scheme %q: %w", ref, u.Scheme, ErrInvalidSource)
	}
	return nil
}

// TitleFor derives a title from ref's resource path.
func TitleFor(ref string) string {
	p := autosnap.ResourcePath(ref)
	if p == "" {
		return ref
	}
	return path.Base(p)
}
