package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Painter colors chat output. The implementation is picked once at
// startup; callers never check for color support themselves.
type Painter interface {
	SupportsColor() bool
	System(s string) string
	User(s string) string
	Assistant(s string) string
	Reasoning(s string) string
	Accent(s string) string
	Error(s string) string
}

// NewPainter returns a color painter for palette when color is true and a
// plain one otherwise.
func NewPainter(palette Palette, color bool) Painter {
	if !color {
		return PlainPainter{}
	}
	return newColorPainter(palette)
}

// DetectPainter picks a painter for w: colors only when w is a terminal
// and NO_COLOR is unset.
func DetectPainter(w io.Writer, palette Palette) Painter {
	return NewPainter(palette, ColorEnabled(w))
}

// ColorEnabled reports whether w should receive colored output
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PlainPainter returns text unchanged
type PlainPainter struct{}

func (PlainPainter) SupportsColor() bool { return false }
func (PlainPainter) System(s string) string { return s }
func (PlainPainter) User(s string) string { return s }
func (PlainPainter) Assistant(s string) string { return s }
func (PlainPainter) Reasoning(s string) string { return s }
func (PlainPainter) Accent(s string) string { return s }
func (PlainPainter) Error(s string) string { return s }

type colorPainter struct {
	system    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	reasoning lipgloss.Style
	accent    lipgloss.Style
	err       lipgloss.Style
}

func newColorPainter(p Palette) *colorPainter {
	return &colorPainter{
		system:    lipgloss.NewStyle().Foreground(p.System),
		user:      lipgloss.NewStyle().Foreground(p.User).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(p.Assistant),
		reasoning: lipgloss.NewStyle().Foreground(p.Reasoning).Italic(true),
		accent:    lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		err:       lipgloss.NewStyle().Foreground(p.Error).Bold(true),
	}
}

func (c *colorPainter) SupportsColor() bool { return true }

func (c *colorPainter) System(s string) string { return paint(c.system, s) }
func (c *colorPainter) User(s string) string { return paint(c.user, s) }
func (c *colorPainter) Assistant(s string) string { return paint(c.assistant, s) }
func (c *colorPainter) Reasoning(s string) string { return paint(c.reasoning, s) }
func (c *colorPainter) Accent(s string) string { return paint(c.accent, s) }
func (c *colorPainter) Error(s string) string { return paint(c.err, s) }

// paint styles each line separately so streamed fragments are not padded
// to a common width.
func paint(style lipgloss.Style, s string) string {
	if !strings.Contains(s, "\n") {
		if s == "" {
			return s
		}
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
