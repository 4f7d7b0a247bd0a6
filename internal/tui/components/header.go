// Package components: sub-components for the dtogen browser.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─────────────────────────────────────────────────────────────────────────────
// Header component
// ─────────────────────────────────────────────────────────────────────────────

// Header renders the top title bar.
type Header struct {
	title string
	total int
	pos   int
}

// NewHeader creates a Header with the given title.
func NewHeader(title string) Header {
	return Header{title: title}
}

// SetPosition records the selected item and the item count.
func (h *Header) SetPosition(pos, total int) { h.pos, h.total = pos, total }

// View renders the header bar. Accepts total terminal width.
func (h *Header) View(width int) string {
	left := fmt.Sprintf(" ◉ DTOGEN  %s ", h.title)
	right := " empty "
	if h.total > 0 {
		right = fmt.Sprintf(" %d/%d ", h.pos+1, h.total)
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color("#D08C3F")).
		Foreground(lipgloss.Color("#14110F")).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// ─────────────────────────────────────────────────────────────────────────────
// List component
// ─────────────────────────────────────────────────────────────────────────────

// ListItem is one row of the navigator.
type ListItem struct {
	Label string
	OK    bool
}

// List renders the item navigator on the left.
type List struct {
	selected int
	items    []ListItem
}

// NewList creates a List over items.
func NewList(items []ListItem) List { return List{items: items} }

// Select moves the highlight to index i.
func (l *List) Select(i int) { l.selected = i }

// View renders at most height rows, scrolled so the selection stays visible.
func (l *List) View(width, height int) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B625A"))
	if len(l.items) == 0 {
		return frame(width, height).Render(muted.Render("(nothing recorded)"))
	}

	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	start := 0
	if l.selected >= rows {
		start = l.selected - rows + 1
	}
	end := start + rows
	if end > len(l.items) {
		end = len(l.items)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item := l.items[i]
		icon := "● "
		color := lipgloss.Color("#8FBF7F")
		if !item.OK {
			color = lipgloss.Color("#E0645C")
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#EDE6DD"))
		marker := "  "
		if i == l.selected {
			marker = "▶ "
			style = style.Foreground(lipgloss.Color("#E8B46A")).Bold(true)
		}
		label := truncate(item.Label, width-6)
		b.WriteString(marker + lipgloss.NewStyle().Foreground(color).Render(icon) + style.Render(label) + "\n")
	}
	return frame(width, height).Render(strings.TrimSuffix(b.String(), "\n"))
}

func frame(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(lipgloss.Color("#6B625A")).
		Padding(1, 1, 0, 0)
}

// ─────────────────────────────────────────────────────────────────────────────
// Footer component
// ─────────────────────────────────────────────────────────────────────────────

// Hint is one key/description pair shown in the footer.
type Hint struct {
	Key, Desc string
}

// Footer renders the bottom hint bar.
type Footer struct {
	hints []Hint
}

// NewFooter creates a Footer with the given hints.
func NewFooter(hints ...Hint) Footer { return Footer{hints: hints} }

// View renders the footer.
func (f *Footer) View(width int) string {
	var b strings.Builder
	for _, h := range f.hints {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#D08C3F")).Bold(true).Render(h.Key))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B625A")).Render(" " + h.Desc + "  "))
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color("#221D19")).
		Width(width).Padding(0, 1).
		Render(b.String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
