package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/window"
)

// LayoutClient is the daemon surface the browser drives.
type LayoutClient interface {
	ListLayouts() (*ipc.LayoutsData, error)
	ListWindows() ([]window.Window, error)
	ApplyLayout(layoutName string, windowIDs []string) (*ipc.ApplyLayoutData, error)
	PreviewLayout(layoutName string, durationSeconds int) error
	SetDefaultLayout(layoutName string, tileNow bool) error
}

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	name        string
	description string
	isActive    bool
	isDefault   bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isActive {
		prefix = "* "
	}
	suffix := ""
	if i.isDefault {
		suffix = " (default)"
	}
	return prefix + i.name + suffix
}

func (i layoutItem) Description() string { return i.description }
func (i layoutItem) FilterValue() string { return i.name }

// statusMsg is sent after an IPC action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// Browser lists layouts beside an ASCII preview of the selected one.
type Browser struct {
	list   list.Model
	client LayoutClient
	cfg    *config.Config

	activeLayout  string
	defaultLayout string
	windowCount   int

	statusText string
	applied    string

	width  int
	height int
	ready  bool
}

// NewBrowser creates the layout browser. cfg supplies layout geometry;
// client supplies the live default, active layout and window count. A nil
// client browses cfg offline.
func NewBrowser(client LayoutClient, cfg *config.Config) Browser {
	b := Browser{
		client:        client,
		cfg:           cfg,
		defaultLayout: cfg.DefaultLayout,
		windowCount:   4,
	}
	b.refreshFromDaemon()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(b.items(), delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	b.list = l

	for i, item := range b.list.Items() {
		if item.(layoutItem).name == b.defaultLayout {
			b.list.Select(i)
			break
		}
	}
	return b
}

func (b *Browser) refreshFromDaemon() {
	if b.client == nil {
		return
	}
	if data, err := b.client.ListLayouts(); err == nil {
		b.activeLayout = data.ActiveLayout
		b.defaultLayout = data.DefaultLayout
	}
	if windows, err := b.client.ListWindows(); err == nil && len(windows) > 0 {
		b.windowCount = len(windows)
	}
}

func (b Browser) items() []list.Item {
	names := b.cfg.LayoutNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, layoutItem{
			name:        name,
			description: b.cfg.Layouts[name].Description,
			isActive:    name == b.activeLayout,
			isDefault:   name == b.defaultLayout,
		})
	}
	return items
}

// Applied is the layout applied with enter before quitting, if any.
func (b Browser) Applied() string { return b.applied }

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.updateListSize()
		b.ready = true
		return b, nil

	case statusMsg:
		b.statusText = msg.text
		return b, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		b.statusText = ""
		return b, nil

	case tea.KeyMsg:
		if b.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		case "enter", "a":
			return b.applySelected()
		case "d":
			return b.setDefaultSelected()
		case "p":
			return b.previewSelected()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			b.windowCount = int(msg.String()[0] - '0')
			return b, nil
		case "+":
			b.windowCount = min(b.windowCount+1, 16)
			return b, nil
		case "-":
			b.windowCount = max(b.windowCount-1, 1)
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (b *Browser) updateListSize() {
	listHeight := max(b.height-2, 1)
	b.list.SetSize(b.sidebarWidth(), listHeight)
}

func (b Browser) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	return min(max(b.width*35/100, 20), 40)
}

func (b Browser) selectedName() string {
	item, ok := b.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.name
}

func (b Browser) applySelected() (tea.Model, tea.Cmd) {
	name := b.selectedName()
	if name == "" {
		return b, nil
	}
	if b.client == nil {
		b.statusText = "daemon not connected"
		return b, clearStatusAfter(3 * time.Second)
	}
	res, err := b.client.ApplyLayout(name, nil)
	if err != nil {
		b.statusText = fmt.Sprintf("error: %v", err)
		return b, clearStatusAfter(3 * time.Second)
	}
	b.applied = res.Layout
	return b, tea.Quit
}

func (b Browser) setDefaultSelected() (tea.Model, tea.Cmd) {
	name := b.selectedName()
	if name == "" {
		return b, nil
	}
	if b.client == nil {
		b.statusText = "daemon not connected"
		return b, clearStatusAfter(3 * time.Second)
	}
	if err := b.client.SetDefaultLayout(name, false); err != nil {
		b.statusText = fmt.Sprintf("error: %v", err)
	} else {
		b.defaultLayout = name
		b.statusText = fmt.Sprintf("default set: %s", name)
		b.list.SetItems(b.items())
	}
	return b, clearStatusAfter(3 * time.Second)
}

func (b Browser) previewSelected() (tea.Model, tea.Cmd) {
	name := b.selectedName()
	if name == "" {
		return b, nil
	}
	if b.client == nil {
		b.statusText = "daemon not connected"
		return b, clearStatusAfter(3 * time.Second)
	}
	if err := b.client.PreviewLayout(name, 5); err != nil {
		b.statusText = fmt.Sprintf("error: %v", err)
	} else {
		b.statusText = fmt.Sprintf("previewing: %s (5s)", name)
	}
	return b, clearStatusAfter(3 * time.Second)
}

// View implements tea.Model.
func (b Browser) View() string {
	if !b.ready || b.width == 0 || b.height == 0 {
		return ""
	}

	sidebarWidth := b.sidebarWidth()
	previewWidth := max(b.width-sidebarWidth-3, 10) // 3 for separator + padding

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(b.height - 2).
		Render(b.list.View())

	preview := b.renderPreview(previewWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", max(b.height-2, 1)))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, preview)
	return lipgloss.JoinVertical(lipgloss.Left, columns, b.renderStatus())
}

func (b Browser) renderPreview(previewWidth int) string {
	name := b.selectedName()
	if name == "" {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  [%d windows]", name, b.windowCount))

	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizeLayout(b.cfg, name, b.windowCount))

	previewHeight := max(b.height-6, 5) // title + summary + status + padding
	asciiWidth := max(previewWidth-2, 5)
	lines := renderASCIIPreview(b.cfg, name, b.windowCount, asciiWidth, previewHeight)

	block := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", block)
}

func (b Browser) renderStatus() string {
	left := ""
	if b.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(b.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("windows:%d  enter:apply  d:default  p:preview  1-9/+/-:windows  q:quit", b.windowCount))

	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(b.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
