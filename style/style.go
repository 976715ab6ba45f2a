// Package style renders the ANSI vocabulary spec.md §6 specifies
// ("\e[31m" red, "\e[1m" bold, "\e[2J\e[H" clear screen, ...) through
// lipgloss styles rather than hand-written escape-code string literals,
// grounded on the reference corpus's history_tui.go lipgloss usage.
//
// lipgloss decides whether to actually emit color codes based on what it
// detects about the output (a color-capable terminal vs. a plain pipe or
// file); against a non-TTY sink, such as the one unit tests write to, these
// renders degrade to plain text with no escape codes at all. That is the
// right behavior for a real terminal session but means "red" here is a
// best-effort property of a real run, not a byte-for-byte guarantee.
package style

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	boldStyle   = lipgloss.NewStyle().Bold(true)
	greenOnBlack = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	brightRed   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Error wraps s in the red error-banner style spec.md §4.2 requires.
func Error(s string) string { return errorStyle.Render(s) }

// Bold renders s in the bold style used for the `top` built-in's header row.
func Bold(s string) string { return boldStyle.Render(s) }

// GreenOnBlack renders s the way the `top` built-in highlights a thread row.
func GreenOnBlack(s string) string { return greenOnBlack.Render(s) }

// BrightGreen renders s in bright green.
func BrightGreen(s string) string { return brightGreen.Render(s) }

// BrightRed renders s in bold bright red.
func BrightRed(s string) string { return brightRed.Render(s) }

// Dim renders s the way the `top` built-in renders its column header.
func Dim(s string) string { return dim.Render(s) }

// ClearScreen is the raw ANSI sequence for "\e[2J\e[H", opaque bytes to the
// core per spec.md §6 but a named constant here for built-ins to reuse.
const ClearScreen = "\x1b[2J\x1b[H"

// ClearLine is "\e[2K", used before redrawing a line in place.
const ClearLine = "\x1b[2K"

// CursorHome is "\e[H".
const CursorHome = "\x1b[H"

// Column1 is "\e[1G".
const Column1 = "\x1b[1G"

// Prompt is the dispatcher's standard prompt sequence, per spec.md §4.2:
// a newline, clear-line, then "> ".
const Prompt = "\n" + ClearLine + "> "
