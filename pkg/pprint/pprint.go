// Package pprint provides terminal output formatting for the dtogen CLI:
// status lines, key/value blocks, tables, panels and a spinner.
package pprint

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette.
var (
	ColorPrimary = lipgloss.Color("#D08C3F") // Amber
	ColorAccent  = lipgloss.Color("#E8B46A") // Sand
	ColorSuccess = lipgloss.Color("#8FBF7F") // Sage
	ColorWarning = lipgloss.Color("#E8B46A")
	ColorError   = lipgloss.Color("#E0645C") // Brick
	ColorMuted   = lipgloss.Color("#6B625A") // Taupe
	ColorText    = lipgloss.Color("#EDE6DD") // Paper
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	styleErr     = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	styleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	stylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	styleText    = lipgloss.NewStyle().Foreground(ColorText)
	styleKey     = stylePrimary.Width(14)
	stylePanel   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// Out and ErrOut are the destinations of all pprint output. Status lines that
// are not results (warnings, errors, the spinner) go to ErrOut so that
// --json output on Out stays parseable.
var (
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr
)

func line(w io.Writer, mark lipgloss.Style, icon, format string, args []any) {
	fmt.Fprintln(w, mark.Render(icon)+" "+styleText.Render(fmt.Sprintf(format, args...)))
}

// Success prints a ✓ line.
func Success(format string, args ...any) { line(Out, styleOK, "✓", format, args) }

// Warn prints a ! line to ErrOut.
func Warn(format string, args ...any) { line(ErrOut, styleWarn, "!", format, args) }

// Error prints a ✗ line to ErrOut.
func Error(format string, args ...any) { line(ErrOut, styleErr, "✗", format, args) }

// Info prints a dimmed, indented line.
func Info(format string, args ...any) {
	fmt.Fprintln(Out, styleMuted.Render("  "+fmt.Sprintf(format, args...)))
}

// Header prints a section title underlined to its own width.
func Header(title string) {
	title = strings.ToUpper(title)
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, stylePrimary.Render("◉ "+title))
	fmt.Fprintln(Out, styleMuted.Render(strings.Repeat("─", lipgloss.Width(title)+2)))
}

// KV prints a labelled value. Trailing spaces in key are ignored.
func KV(key, value string) {
	fmt.Fprintln(Out, styleKey.Render(strings.TrimSpace(key))+styleText.Render(value))
}

// Panel prints body in a rounded box, with title on the first line.
func Panel(title, body string) {
	content := strings.TrimRight(body, "\n")
	if title != "" {
		content = styleAccent.Render(title) + "\n" + content
	}
	fmt.Fprintln(Out, stylePanel.Render(content))
}

// ─────────────────────────────────────────────────────────────────────────────
// Table
// ─────────────────────────────────────────────────────────────────────────────

// Table collects rows and renders them with lipgloss/table.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a Table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a data row. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render prints the table to Out, or a muted "(none)" when it has no rows.
func (t *Table) Render() {
	if len(t.rows) == 0 {
		fmt.Fprintln(Out, styleMuted.Render("  (none)"))
		return
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderStyle(styleMuted).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return stylePrimary.Padding(0, 1)
			}
			return styleText.Padding(0, 1)
		})
	fmt.Fprintln(Out, tbl.Render())
}

// ─────────────────────────────────────────────────────────────────────────────
// Spinner
// ─────────────────────────────────────────────────────────────────────────────

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a label on ErrOut until stopped.
type Spinner struct {
	label  string
	done   chan struct{}
	mu     sync.Mutex
	active bool
}

// NewSpinner creates a Spinner with the given label.
func NewSpinner(label string) *Spinner {
	return &Spinner{label: label, done: make(chan struct{})}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	go func() {
		tick := time.NewTicker(80 * time.Millisecond)
		defer tick.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				return
			case <-tick.C:
			}
			s.mu.Lock()
			if s.active {
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(ErrOut, "\r%s %s ", stylePrimary.Render(frame), styleText.Render(s.label))
			}
			s.mu.Unlock()
		}
	}()
}

// Stop halts the spinner and replaces it with a ✓ or ✗ line.
func (s *Spinner) Stop(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	close(s.done)
	s.active = false

	mark, icon := styleOK, "✓"
	if !success {
		mark, icon = styleErr, "✗"
	}
	fmt.Fprintf(ErrOut, "\r%s %s\n", mark.Render(icon), styleText.Render(s.label))
}
