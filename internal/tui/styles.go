// Package tui provides the interactive terminal views of dscli.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/render"
)

// Color variables (set from the palette)
var (
	colorBorder   lipgloss.Color
	colorPrimary  lipgloss.Color
	colorAccent   lipgloss.Color
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorError    lipgloss.Color
	colorSelected lipgloss.Color
)

// Style variables (rebuilt when the palette changes)
var (
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	hintStyle        lipgloss.Style
	panelStyle       lipgloss.Style
	itemStyle        lipgloss.Style
	selectedStyle    lipgloss.Style
	cursorStyle      lipgloss.Style
	currentStyle     lipgloss.Style
	statusBarStyle   lipgloss.Style
	statusKeyStyle   lipgloss.Style
	statusDescStyle  lipgloss.Style
	errorStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	filterLabelStyle lipgloss.Style
)

func init() {
	ApplyPalette(render.DefaultPalette)
}

// ApplyPalette refreshes all styles from p
func ApplyPalette(p render.Palette) {
	colorBorder = p.Border
	colorPrimary = p.System
	colorAccent = p.Accent
	colorText = p.Assistant
	colorTextDim = p.Reasoning
	colorError = p.Error
	colorSelected = p.User

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		PaddingLeft(1)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	itemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	selectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	cursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	currentStyle = lipgloss.NewStyle().
		Foreground(colorSelected)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	filterLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary)
}

// FormatError returns a styled error message with the details carried by
// structured errors.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case errors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check that DEEPSEEK_API_KEY holds a valid key"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the request timed out, try again or raise timeout_seconds"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your internet connection and base_url"))
	}

	return sb.String()
}
