package autosnap

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/1broseidon/floatdesk/internal/window"
)

// Reason names the heuristic that related two windows.
type Reason string

const (
	// ReasonStem: same folder, same file name without extension.
	ReasonStem Reason = "stem"
	// ReasonFolder: one window is a folder viewer showing the other's folder.
	ReasonFolder Reason = "folder"
)

// ResourcePath extracts the filesystem-style path a source ref points at.
// Viewer URLs such as /api/view?path=/p/cat.png carry it in the path query
// parameter.
func ResourcePath(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	p := ref
	if u, err := url.Parse(ref); err == nil {
		if q := u.Query().Get("path"); q != "" {
			p = q
		} else if u.Path != "" {
			p = u.Path
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// stem is the lower-cased base name without its last extension.
func stem(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(base)
}

type resource struct {
	path   string
	dir    string
	stem   string
	folder bool
}

func newResource(kind window.Kind, title, ref string) resource {
	p := ResourcePath(ref)
	if p == "" && title != "" {
		p = path.Clean("/" + title)
	}
	r := resource{path: p, dir: path.Dir(p), stem: stem(p), folder: kind == window.KindFolder}
	if p == "" {
		r.stem = strings.ToLower(title)
	}
	return r
}

func sameStem(a, b resource) bool {
	if a.folder || b.folder || a.stem == "" {
		return false
	}
	return strings.EqualFold(a.dir, b.dir) && a.stem == b.stem
}

// contains reports whether folder is the directory file lives in.
func contains(folder, file resource) bool {
	return folder.folder && !file.folder && folder.path != "" && strings.EqualFold(folder.path, file.dir)
}

// DetectRelatedFiles finds an open window related to a new window with the
// given title and source ref. A matching file stem in the same folder wins
// over folder containment; within each rule the lowest z-index wins. Ids in
// exclude are never returned.
//
// A ref with no file extension is treated as a folder.
func (d *Detector) DetectRelatedFiles(title, ref string, exclude ...string) (window.Window, bool) {
	kind := window.KindGeneric
	if path.Ext(ResourcePath(ref)) == "" {
		kind = window.KindFolder
	}
	w, _, ok := d.detect(newResource(kind, title, ref), exclude)
	return w, ok
}

func (d *Detector) detect(n resource, exclude []string) (window.Window, Reason, bool) {
	var candidates []window.Window
	var resources []resource
	for w := range d.reg.List() {
		if slices.Contains(exclude, w.ID) {
			continue
		}
		candidates = append(candidates, w)
		resources = append(resources, newResource(w.Kind, w.Title, w.SourceRef))
	}

	for i, c := range resources {
		if sameStem(n, c) {
			return candidates[i], ReasonStem, true
		}
	}
	for i, c := range resources {
		if contains(n, c) || contains(c, n) {
			return candidates[i], ReasonFolder, true
		}
	}
	return window.Window{}, "", false
}
