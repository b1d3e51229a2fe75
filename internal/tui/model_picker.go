package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coodar/dscli/internal/models"
)

// ModelPickerModel is the TUI state of the /model picker
type ModelPickerModel struct {
	all     []models.ModelInfo
	current string

	// Filter
	filter   textinput.Model
	filtered []models.ModelInfo

	// Navigation
	cursor int

	// Result
	selected  models.ModelInfo
	confirmed bool

	width int
}

// NewModelPickerModel creates a picker over set with the cursor on current
func NewModelPickerModel(set []models.ModelInfo, current string) ModelPickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Focus()

	m := ModelPickerModel{
		all:     set,
		current: current,
		filter:  ti,
	}
	m.applyFilter()
	for i, info := range m.filtered {
		if strings.EqualFold(info.ID, current) {
			m.cursor = i
			break
		}
	}
	return m
}

// Init implements tea.Model
func (m ModelPickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// applyFilter narrows the list to entries whose id or name contains the
// filter text and keeps the cursor in range.
func (m *ModelPickerModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	filtered := make([]models.ModelInfo, 0, len(m.all))
	for _, info := range m.all {
		if q == "" ||
			strings.Contains(strings.ToLower(info.ID), q) ||
			strings.Contains(strings.ToLower(info.Name), q) {
			filtered = append(filtered, info)
		}
	}
	m.filtered = filtered
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// Update handles messages and updates the model
func (m ModelPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "ctrl+p":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = max(0, len(m.filtered)-1)
			}
			return m, nil

		case "down", "ctrl+n", "tab":
			m.cursor++
			if m.cursor >= len(m.filtered) {
				m.cursor = 0
			}
			return m, nil

		case "enter":
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.selected = m.filtered[m.cursor]
			m.confirmed = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.cursor = 0
		m.applyFilter()
	}
	return m, cmd
}

// View renders the picker
func (m ModelPickerModel) View() string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	header := headerStyle.Render("Select Model")
	filter := filterLabelStyle.Render("Filter: ") + m.filter.View()

	var items []string
	if len(m.filtered) == 0 {
		items = append(items, hintStyle.Render("  No model matches the filter"))
	}
	for i, info := range m.filtered {
		items = append(items, m.renderItem(i, info))
	}
	list := panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, "", list, m.renderStatusBar())
}

func (m ModelPickerModel) renderItem(index int, info models.ModelInfo) string {
	cursor := "  "
	nameStyle := itemStyle
	if index == m.cursor {
		cursor = cursorStyle.Render("> ")
		nameStyle = selectedStyle
	}

	line := cursor + nameStyle.Render(info.DisplayName()) + dimStyle.Render(" ("+info.ID+")")
	if info.Reasoning {
		line += hintStyle.Render(" reasoning")
	}
	if strings.EqualFold(info.ID, m.current) {
		line += currentStyle.Render(" [current]")
	}
	return line
}

func (m ModelPickerModel) renderStatusBar() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", "Cancel"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Render(strings.Join(items, "  |  "))
}

// Result returns the chosen model and whether the choice was confirmed
func (m ModelPickerModel) Result() (models.ModelInfo, bool) {
	return m.selected, m.confirmed
}

// ModelPicker selects a model with the interactive picker
type ModelPicker struct {
	// Options are passed to the bubbletea program; tests set input and
	// output here.
	Options []tea.ProgramOption
}

// SelectModel runs the picker. ok is false when the user cancelled.
func (p ModelPicker) SelectModel(ctx context.Context, set []models.ModelInfo, current string) (string, bool, error) {
	if len(set) == 0 {
		return "", false, fmt.Errorf("no models available")
	}

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.Options...)
	final, err := tea.NewProgram(NewModelPickerModel(set, current), opts...).Run()
	if err != nil {
		return "", false, fmt.Errorf("model picker: %w", err)
	}

	pm, ok := final.(ModelPickerModel)
	if !ok {
		return "", false, nil
	}
	info, confirmed := pm.Result()
	return info.ID, confirmed, nil
}
