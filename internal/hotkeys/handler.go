package hotkeys

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/1broseidon/floatdesk/internal/config"
)

// ignoreMods are lock keys a browser may report as modifiers. They never
// change which binding fires.
var ignoreMods = []string{"capslock", "numlock", "scrolllock"}

// Binding is one registered shortcut.
type Binding struct {
	Combo  string        `json:"combo"`
	Action config.Action `json:"action"`
}

type entry struct {
	action   config.Action
	callback func(config.Action)
}

// Handler maps key combos to callbacks.
type Handler struct {
	logger   *slog.Logger
	bindings map[string]entry
}

// NewHandler creates an empty hotkey handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{logger: logger, bindings: make(map[string]entry)}
}

// Register binds combo to action. callback receives the action on every
// dispatch.
func (h *Handler) Register(combo string, action config.Action, callback func(config.Action)) error {
	norm, err := normalize(combo)
	if err != nil {
		return fmt.Errorf("failed to register hotkey %q: %w", combo, err)
	}
	if prev, ok := h.bindings[norm]; ok {
		h.logger.Debug("hotkey rebound", "combo", norm, "from", prev.action, "to", action)
	}
	h.bindings[norm] = entry{action: action, callback: callback}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(combo string, callback func()) error {
	return h.Register(combo, config.Action{}, func(config.Action) { callback() })
}

// RegisterAll binds every entry of a shortcut table ("combo" -> "action")
// to the same callback. Entries with an empty action are skipped.
func (h *Handler) RegisterAll(table map[string]string, callback func(config.Action)) error {
	for _, combo := range slices.Sorted(maps.Keys(table)) {
		if table[combo] == "" {
			continue
		}
		action, err := config.ParseAction(table[combo])
		if err != nil {
			return fmt.Errorf("shortcut %q: %w", combo, err)
		}
		if err := h.Register(combo, action, callback); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every binding.
func (h *Handler) Reset() {
	clear(h.bindings)
}

// Dispatch runs the callback bound to combo. It reports the bound action and
// whether anything was bound.
func (h *Handler) Dispatch(combo string) (config.Action, bool) {
	norm, err := normalize(combo)
	if err != nil {
		h.logger.Debug("ignoring malformed key combo", "combo", combo, "err", err)
		return config.Action{}, false
	}
	e, ok := h.bindings[norm]
	if !ok {
		return config.Action{}, false
	}
	h.logger.Debug("hotkey triggered", "combo", norm, "action", e.action)
	e.callback(e.action)
	return e.action, true
}

// Bindings lists the registered shortcuts sorted by combo.
func (h *Handler) Bindings() []Binding {
	out := make([]Binding, 0, len(h.bindings))
	for combo, e := range h.bindings {
		out = append(out, Binding{Combo: combo, Action: e.action})
	}
	slices.SortFunc(out, func(a, b Binding) int { return strings.Compare(a.Combo, b.Combo) })
	return out
}

func normalize(combo string) (string, error) {
	parts := strings.Split(strings.ToLower(combo), "+")
	parts = slices.DeleteFunc(parts, func(p string) bool {
		return slices.Contains(ignoreMods, strings.TrimSpace(p))
	})
	return config.NormalizeCombo(strings.Join(parts, "+"))
}
