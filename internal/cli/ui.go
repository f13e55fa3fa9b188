package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette and styles
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("220") // amber
	colorFail    = lipgloss.Color("167") // soft red
	colorBright  = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("245")
	colorFainter = lipgloss.Color("240")
)

var (
	// StyleTitle is used for section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim is used for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFainter)
	// StyleValue highlights paths, counts and other data.
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)
	// StyleWarning is used for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// =============================================================================
// Status lines
// =============================================================================

// status is the leading marker of a one-line status message.
type status struct {
	icon  string
	style lipgloss.Style
	body  *lipgloss.Style // optional style for the message itself
}

var (
	statusSuccess = status{icon: "✓", style: lipgloss.NewStyle().Foreground(colorOK)}
	statusError   = status{icon: "✗", style: lipgloss.NewStyle().Foreground(colorFail)}
	statusWarning = status{icon: "!", style: StyleWarning, body: &StyleWarning}
	statusInfo    = status{icon: "›", style: lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) print(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.body != nil {
		msg = s.body.Render(msg)
	}
	fmt.Fprintln(w, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) { statusSuccess.print(w, format, args...) }
func printError(w io.Writer, format string, args ...any)   { statusError.print(w, format, args...) }
func printWarning(w io.Writer, format string, args ...any) { statusWarning.print(w, format, args...) }
func printInfo(w io.Writer, format string, args ...any)    { statusInfo.print(w, format, args...) }

// printDetail prints an indented, dimmed line under a status message.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the size of a rendered selection and whether it came
// from the cache, e.g. "12 components · 30 edges · cached".
func printStats(w io.Writer, components, edges int, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(w, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d components", components)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		origin,
	}, sep))
}
