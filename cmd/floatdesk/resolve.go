package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/sahilm/fuzzy"
	"golang.org/x/term"

	"github.com/1broseidon/floatdesk/internal/window"
)

// resolveName maps query onto one of names: an exact match first, then a
// case-insensitive one, then the single best fuzzy match.
func resolveName(kind, query string, names []string) (string, error) {
	for _, n := range names {
		if n == query {
			return n, nil
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, query) {
			return n, nil
		}
	}

	matches := fuzzy.Find(query, names)
	switch {
	case len(matches) == 0:
		return "", fmt.Errorf("unknown %s %q (available: %s)", kind, query, strings.Join(names, ", "))
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		candidates := make([]string, 0, len(matches))
		for _, m := range matches {
			if m.Score == matches[0].Score {
				candidates = append(candidates, m.Str)
			}
		}
		return "", fmt.Errorf("ambiguous %s %q: matches %s", kind, query, strings.Join(candidates, ", "))
	}
	return matches[0].Str, nil
}

// resolveWindow accepts a window id or a (fuzzy) title.
func resolveWindow(query string, windows []window.Window) (string, error) {
	titles := make([]string, 0, len(windows))
	byTitle := make(map[string]string, len(windows))
	for _, w := range windows {
		if w.ID == query {
			return w.ID, nil
		}
		if _, dup := byTitle[w.Title]; !dup {
			titles = append(titles, w.Title)
		}
		byTitle[w.Title] = w.ID
	}
	if len(windows) == 0 {
		return "", fmt.Errorf("no windows open")
	}
	title, err := resolveName("window", query, titles)
	if err != nil {
		return "", err
	}
	return byTitle[title], nil
}

// confirm asks before a destructive action. Without a terminal on stdin it
// requires --yes.
func confirm(prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal; pass --yes to confirm")
	}

	ok := false
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
