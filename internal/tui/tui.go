// Package tui is the interactive layout browser.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/floatdesk/internal/config"
)

// Run opens the layout browser and blocks until it quits. It returns the
// layout applied from the browser, or "" when none was.
func Run(client LayoutClient, cfg *config.Config) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", fmt.Errorf("layout browser requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(NewBrowser(client, cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if b, ok := final.(Browser); ok {
		return b.Applied(), nil
	}
	return "", nil
}
