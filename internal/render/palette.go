package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors used for chat output
type Palette struct {
	Name        string
	Description string

	System    lipgloss.Color // notices and command feedback
	User      lipgloss.Color // prompt and echoed input
	Assistant lipgloss.Color // answer text
	Reasoning lipgloss.Color // reasoning text, dimmed
	Accent    lipgloss.Color // headers and labels
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
}

// Built-in palettes
var (
	TokyoNightPalette = Palette{
		Name:        "tokyonight",
		Description: "Tokyo Night, blue accents on dark",
		System:      lipgloss.Color("#7aa2f7"),
		User:        lipgloss.Color("#9ece6a"),
		Assistant:   lipgloss.Color("#c0caf5"),
		Reasoning:   lipgloss.Color("#565f89"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Border:      lipgloss.Color("#414868"),
	}

	CatppuccinPalette = Palette{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		System:      lipgloss.Color("#89b4fa"),
		User:        lipgloss.Color("#a6e3a1"),
		Assistant:   lipgloss.Color("#cdd6f4"),
		Reasoning:   lipgloss.Color("#6c7086"),
		Accent:      lipgloss.Color("#cba6f7"),
		Warning:     lipgloss.Color("#f9e2af"),
		Error:       lipgloss.Color("#f38ba8"),
		Border:      lipgloss.Color("#45475a"),
	}

	NordPalette = Palette{
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		System:      lipgloss.Color("#88c0d0"),
		User:        lipgloss.Color("#a3be8c"),
		Assistant:   lipgloss.Color("#eceff4"),
		Reasoning:   lipgloss.Color("#7b88a1"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Border:      lipgloss.Color("#4c566a"),
	}

	DraculaPalette = Palette{
		Name:        "dracula",
		Description: "Dracula, vibrant on dark",
		System:      lipgloss.Color("#8be9fd"),
		User:        lipgloss.Color("#50fa7b"),
		Assistant:   lipgloss.Color("#f8f8f2"),
		Reasoning:   lipgloss.Color("#6272a4"),
		Accent:      lipgloss.Color("#ff79c6"),
		Warning:     lipgloss.Color("#f1fa8c"),
		Error:       lipgloss.Color("#ff5555"),
		Border:      lipgloss.Color("#44475a"),
	}
)

// DefaultPalette is used when no or an unknown theme is configured
var DefaultPalette = TokyoNightPalette

// PaletteByName returns a palette by its name
func PaletteByName(name string) (Palette, bool) {
	for _, p := range AvailablePalettes() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Palette{}, false
}

// AvailablePalettes returns all built-in palettes
func AvailablePalettes() []Palette {
	return []Palette{
		TokyoNightPalette,
		CatppuccinPalette,
		NordPalette,
		DraculaPalette,
	}
}

// PaletteNames returns the names of the built-in palettes
func PaletteNames() []string {
	palettes := AvailablePalettes()
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}
