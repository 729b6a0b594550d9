package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("240")
	colorSubtle = lipgloss.Color("245")
)

var (
	// StyleTitle renders headings: repertoire names, TUI titles.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks the selected row and planned moves.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleValue renders paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleInfo    = lipgloss.NewStyle().Foreground(colorSubtle)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status lines
// =============================================================================

// printer writes human-facing status lines. It never shares a stream with
// command output, so `repertree export x.yaml > x.pgn` stays a clean PGN.
type printer struct {
	w io.Writer
}

func (p printer) line(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(p.w, icon.Render(glyph)+" "+msg)
}

func (p printer) success(format string, args ...any) {
	p.line(styleOK, iconSuccess, fmt.Sprintf(format, args...))
}

func (p printer) fail(format string, args ...any) {
	p.line(styleFail, iconError, fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.line(StyleWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleInfo, iconInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line under the previous status line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// stats prints one export's tree statistics and whether the PGN came from
// the cache.
func (p printer) stats(positions, transpositions int, cached bool) {
	parts := []string{fmt.Sprintf("%d positions", positions)}
	if transpositions > 0 {
		parts = append(parts, fmt.Sprintf("%d transpositions", transpositions))
	}
	source := styleInfo.Render("fresh")
	if cached {
		source = styleOK.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(p.w, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+source)
}

func (p printer) next(description, command string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(command))
}
