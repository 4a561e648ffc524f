package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatdesk/internal/geom"
)

// ActionKind is what a shortcut does.
type ActionKind string

const (
	ActionLayout     ActionKind = "layout"
	ActionSnap       ActionKind = "snap"
	ActionRestore    ActionKind = "restore"
	ActionMagnetic   ActionKind = "magnetic"
	ActionFullscreen ActionKind = "fullscreen"
	ActionClose      ActionKind = "close"
	ActionMinimize   ActionKind = "minimize"
	ActionMenu       ActionKind = "menu"
	ActionHelp       ActionKind = "help"
)

// Action is a parsed shortcut target such as "layout:quad" or "close".
type Action struct {
	Kind ActionKind
	Arg  string
}

func (a Action) String() string {
	if a.Arg == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + ":" + a.Arg
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction parses the value side of a shortcut binding.
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	a := Action{Kind: ActionKind(kind), Arg: arg}
	switch a.Kind {
	case ActionLayout:
		if arg == "" {
			return Action{}, fmt.Errorf("layout action needs a layout name")
		}
	case ActionSnap:
		if _, err := geom.ParseZone(arg); err != nil {
			return Action{}, err
		}
	case ActionRestore, ActionMagnetic, ActionFullscreen, ActionClose, ActionMinimize, ActionMenu, ActionHelp:
		if arg != "" {
			return Action{}, fmt.Errorf("action %q takes no argument", kind)
		}
	default:
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

var modifierOrder = []string{"ctrl", "shift", "alt", "meta"}

// NormalizeCombo puts a key combo in canonical form: lower-case, modifiers
// deduplicated and ordered ctrl, shift, alt, meta, then the key.
func NormalizeCombo(combo string) (string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	mods := map[string]bool{}
	key := ""
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			return "", fmt.Errorf("empty key in combo %q", combo)
		case "control":
			p = "ctrl"
		case "cmd", "super":
			p = "meta"
		case "option":
			p = "alt"
		}
		isMod := false
		for _, m := range modifierOrder {
			if p == m {
				mods[p] = true
				isMod = true
			}
		}
		if isMod {
			continue
		}
		if key != "" {
			return "", fmt.Errorf("combo %q has more than one key", combo)
		}
		key = p
	}
	if key == "" {
		return "", fmt.Errorf("combo %q has no key", combo)
	}

	out := make([]string, 0, len(mods)+1)
	for _, m := range modifierOrder {
		if mods[m] {
			out = append(out, m)
		}
	}
	return strings.Join(append(out, key), "+"), nil
}

func validateShortcut(combo, action string, layouts map[string]Layout) error {
	norm, err := NormalizeCombo(combo)
	if err != nil {
		return err
	}
	if norm != combo {
		return fmt.Errorf("combo must be written as %q", norm)
	}
	if action == "" {
		// Unbound.
		return nil
	}
	a, err := ParseAction(action)
	if err != nil {
		return err
	}
	if a.Kind == ActionLayout {
		if _, ok := layouts[a.Arg]; !ok {
			return fmt.Errorf("layout %q not found in layouts", a.Arg)
		}
	}
	return nil
}
