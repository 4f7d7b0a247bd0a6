// Package tui defines the Bubble Tea model for dtogen's interactive browser.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f9-o/dtogen/internal/tui/components"
)

// Item is one browsable record: a label in the navigator and the text shown
// in the detail panel when it is selected.
type Item struct {
	Title  string
	OK     bool
	Detail string
}

// Config carries the data into the browser.
type Config struct {
	Title string
	Items []Item
}

// Model is the root Bubble Tea model (Elm architecture).
type Model struct {
	cfg Config

	// Dimensions
	width  int
	height int

	selected int
	detail   viewport.Model
	showHelp bool

	// Sub-components
	header components.Header
	list   components.List
	footer components.Footer

	keys   Keymap
	styles Styles
}

// New constructs a browser Model over cfg.Items.
func New(cfg Config) *Model {
	styles := newStyles()
	dv := viewport.New(0, 0)
	dv.Style = styles.Detail

	rows := make([]components.ListItem, len(cfg.Items))
	for i, it := range cfg.Items {
		rows[i] = components.ListItem{Label: it.Title, OK: it.OK}
	}

	m := &Model{
		cfg:    cfg,
		detail: dv,
		header: components.NewHeader(cfg.Title),
		list:   components.NewList(rows),
		footer: components.NewFooter(
			components.Hint{Key: "↑↓", Desc: "select"},
			components.Hint{Key: "pgup/pgdn", Desc: "scroll"},
			components.Hint{Key: "?", Desc: "help"},
			components.Hint{Key: "q", Desc: "quit"},
		),
		keys:   defaultKeymap(),
		styles: styles,
	}
	m.selectItem(0)
	return m
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(cfg Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Selected returns the index of the highlighted item.
func (m *Model) Selected() int { return m.selected }

// ─────────────────────────────────────────────────────────────────────────────
// Init
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd { return nil }

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = m.width - m.listWidth() - 1
		m.detail.Height = m.bodyHeight() - 2
		if m.detail.Height < 1 {
			m.detail.Height = 1
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// Help modal swallows the next key.
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handleKey processes navigation keys. Unhandled keys fall through to the
// detail viewport for scrolling.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	kb := m.keys

	switch msg.String() {
	case kb.Quit, "esc":
		return tea.Quit, true

	case kb.NavDown, "j":
		m.selectItem(m.selected + 1)

	case kb.NavUp, "k":
		m.selectItem(m.selected - 1)

	case kb.First, "g":
		m.selectItem(0)

	case kb.Last, "G":
		m.selectItem(len(m.cfg.Items) - 1)

	case kb.Help:
		m.showHelp = true

	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) selectItem(i int) {
	if len(m.cfg.Items) == 0 {
		m.detail.SetContent("")
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.cfg.Items) {
		i = len(m.cfg.Items) - 1
	}
	m.selected = i
	m.list.Select(i)
	m.header.SetPosition(i, len(m.cfg.Items))
	m.detail.SetContent(m.cfg.Items[i].Detail)
	m.detail.GotoTop()
}

// ─────────────────────────────────────────────────────────────────────────────
// View
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		modal := m.styles.Modal.Render(
			lipgloss.JoinVertical(lipgloss.Left, m.styles.ModalTitle.Render("KEYS"), HelpText()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	header := m.header.View(m.width)
	list := m.list.View(m.listWidth(), m.bodyHeight())
	footer := m.footer.View(m.width)

	title := "DETAILS"
	if len(m.cfg.Items) > 0 {
		title = m.cfg.Items[m.selected].Title
	}
	panel := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PanelTitle.Render(title),
		m.detail.View(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, panel)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) listWidth() int {
	w := m.width / 3
	switch {
	case w < 24:
		w = 24
	case w > 48:
		w = 48
	}
	if w > m.width-10 {
		w = m.width / 2
	}
	return w
}

// bodyHeight is the terminal height minus header and footer.
func (m *Model) bodyHeight() int {
	h := m.height - 2
	if h < 3 {
		h = 3
	}
	return h
}
