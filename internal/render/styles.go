package render

import "strings"

// Markdown style names understood by glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for display
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the glamour styles that need no external file
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// IsBuiltinStyle reports whether style is a glamour built-in style
func IsBuiltinStyle(style string) bool {
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}

// NormalizeStyle maps palette names and common spellings onto glamour
// style names. Anything else, such as a path to a JSON style, is returned
// unchanged.
func NormalizeStyle(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	switch s {
	case "":
		return StyleDark
	case "tokyonight", "tokyo_night", "tokyo-night":
		return StyleTokyoNight
	case "catppuccin", "nord":
		return StyleDark
	}
	if IsBuiltinStyle(s) {
		return s
	}
	return style
}
