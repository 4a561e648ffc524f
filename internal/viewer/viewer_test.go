package viewer

import (
	"errors"
	"testing"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

type fakePopups struct {
	err    error
	opened []string
}

func (p *fakePopups) OpenPopup(kind window.Kind, title, ref string) error {
	if p.err != nil {
		return p.err
	}
	p.opened = append(p.opened, title)
	return nil
}

func newTestCreator(width int, popups PopupOpener) (*Creator, *window.Registry, *[]string) {
	reg := window.NewRegistry(window.Options{Viewport: geom.Rect{Width: width, Height: 800}})
	var blocked []string
	c := NewCreator(reg, Options{
		Popups:         popups,
		OnPopupBlocked: func(title string) { blocked = append(blocked, title) },
	})
	return c, reg, &blocked
}

func TestCreate_DefaultSizes(t *testing.T) {
	c, reg, _ := newTestCreator(1600, nil)
	tests := []struct {
		name   string
		create func() (string, error)
		want   window.Size
	}{
		{"image", func() (string, error) { return c.CreateImageViewer("cat.png", "/p/cat.png", false) }, window.Size{Width: 400, Height: 500}},
		{"audio", func() (string, error) { return c.CreateAudioPlayer("song.mp3", "/m/song.mp3", false) }, window.Size{Width: 350, Height: 180}},
		{"video", func() (string, error) { return c.CreateVideoPlayer("movie.mp4", "/v/movie.mp4", false) }, window.Size{Width: 640, Height: 420}},
		{"folder", func() (string, error) { return c.CreateFolderViewer("p", "/p") }, window.Size{Width: 600, Height: 500}},
		{"editor", func() (string, error) { return c.CreateTextEditor("notes.txt", "/p/notes.txt") }, window.Size{Width: 700, Height: 520}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.create()
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			w, ok := reg.Get(id)
			if !ok {
				t.Fatalf("expected window %s registered", id)
			}
			if w.Geometry.Width != tt.want.Width || w.Geometry.Height != tt.want.Height {
				t.Fatalf("expected %dx%d, got %dx%d", tt.want.Width, tt.want.Height, w.Geometry.Width, w.Geometry.Height)
			}
		})
	}
}

func TestCreate_InvalidSource(t *testing.T) {
	c, reg, _ := newTestCreator(1600, nil)
	for _, ref := range []string{"", "   ", "/p/bad\nname.png", "%zz", "javascript:alert(1)"} {
		if _, err := c.CreateImageViewer("x", ref, false); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("ref %q: expected ErrInvalidSource, got %v", ref, err)
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no windows opened, got %d", reg.Len())
	}
}

func TestCreate_TitleFromRef(t *testing.T) {
	c, reg, _ := newTestCreator(1600, nil)
	id, err := c.CreateImageViewer("", "/api/view?path=/p/cat.png", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, _ := reg.Get(id)
	if w.Title != "cat.png" {
		t.Fatalf("expected title cat.png, got %q", w.Title)
	}
}

func TestCreate_PopupHandedToHost(t *testing.T) {
	popups := &fakePopups{}
	c, reg, _ := newTestCreator(1600, popups)

	id, err := c.CreateImageViewer("cat.png", "/p/cat.png", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "" || reg.Len() != 0 {
		t.Fatalf("expected no floating window, got id %q and %d windows", id, reg.Len())
	}
	if len(popups.opened) != 1 || popups.opened[0] != "cat.png" {
		t.Fatalf("expected popup for cat.png, got %v", popups.opened)
	}
}

func TestCreate_PopupBlockedFallsBack(t *testing.T) {
	c, reg, blocked := newTestCreator(1600, &fakePopups{err: ErrPopupBlocked})

	id, err := c.CreateAudioPlayer("song.mp3", "/m/song.mp3", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := reg.Get(id); !ok {
		t.Fatalf("expected floating fallback window")
	}
	if len(*blocked) != 1 {
		t.Fatalf("expected blocked notice, got %v", *blocked)
	}
}

func TestCreate_PopupIgnoredOnMobile(t *testing.T) {
	popups := &fakePopups{}
	c, reg, _ := newTestCreator(600, popups)

	id, err := c.CreateImageViewer("cat.png", "/p/cat.png", true)
	if err != nil || id == "" {
		t.Fatalf("expected floating window, got %q, %v", id, err)
	}
	if len(popups.opened) != 0 {
		t.Fatalf("expected no popup on mobile")
	}
	w, _ := reg.Get(id)
	if w.Geometry.X != 10 || w.Geometry.Width != 580 {
		t.Fatalf("expected full-width column, got %+v", w.Geometry)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	c, _, _ := newTestCreator(1600, nil)
	if _, err := c.Open(Request{Kind: "spreadsheet", Ref: "/a.xls"}); !errors.Is(err, window.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestPopOut(t *testing.T) {
	popups := &fakePopups{}
	c, reg, _ := newTestCreator(1600, popups)
	id, _ := c.CreateImageViewer("cat.png", "/p/cat.png", false)

	if err := c.PopOut(id); err != nil {
		t.Fatalf("pop out: %v", err)
	}
	if _, ok := reg.Get(id); ok {
		t.Fatalf("expected floating window closed")
	}

	popups.err = ErrPopupBlocked
	id, _ = c.CreateImageViewer("dog.png", "/p/dog.png", false)
	if err := c.PopOut(id); !errors.Is(err, ErrPopupBlocked) {
		t.Fatalf("expected ErrPopupBlocked, got %v", err)
	}
	if _, ok := reg.Get(id); !ok {
		t.Fatalf("expected window kept when popup blocked")
	}
	if err := c.PopOut("missing"); !errors.Is(err, window.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
