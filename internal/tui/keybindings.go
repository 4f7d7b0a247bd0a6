// Package tui: keyboard binding configuration.
package tui

// Keymap defines all keyboard shortcuts for the browser.
type Keymap struct {
	Quit     string
	NavUp    string
	NavDown  string
	First    string
	Last     string
	PageUp   string
	PageDown string
	Help     string
}

// defaultKeymap returns the default browser key bindings.
func defaultKeymap() Keymap {
	return Keymap{
		Quit:     "q",
		NavUp:    "up",
		NavDown:  "down",
		First:    "home",
		Last:     "end",
		PageUp:   "pgup",
		PageDown: "pgdown",
		Help:     "?",
	}
}

// HelpText returns the keyboard shortcut reference displayed in the help modal.
func HelpText() string {
	return `
  NAVIGATION
  ──────────────────────────────────────
  ↑↓  /  j k        Select item
  Home / End         First / last item
  PgUp / PgDn        Scroll details
  Mouse wheel        Scroll details

  MISC
  ──────────────────────────────────────
  ?                  Toggle this help
  q / Esc            Quit
  Ctrl+C             Force quit
`
}
