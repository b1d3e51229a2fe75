package dispatch

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coodar/dscli/internal/models"
	"github.com/coodar/dscli/internal/render"
)

// LineReader reads one line of user input
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// PromptSelector lists the models and reads a 1-based number or a model
// id. It is used when no interactive picker is available.
type PromptSelector struct {
	Reader  LineReader
	Out     io.Writer
	Painter render.Painter
}

// SelectModel implements ModelSelector
func (p PromptSelector) SelectModel(ctx context.Context, set []models.ModelInfo, current string) (string, bool, error) {
	painter := p.Painter
	if painter == nil {
		painter = render.PlainPainter{}
	}

	fmt.Fprintln(p.Out, painter.System("Available models:"))
	for i, m := range set {
		line := fmt.Sprintf("  %d. %s (%s)", i+1, m.DisplayName(), m.ID)
		if strings.EqualFold(m.ID, current) {
			line += " *"
		}
		fmt.Fprintln(p.Out, painter.System(line))
	}
	fmt.Fprintln(p.Out, painter.System("Enter a number or model id:"))

	input, err := p.Reader.ReadLine(ctx, painter.User("> "))
	if err != nil {
		return "", false, err
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(set) {
			fmt.Fprintln(p.Out, painter.Error("Invalid number: "+input))
			return "", false, nil
		}
		return set[n-1].ID, true, nil
	}

	m, ok := models.FindModel(set, input)
	if !ok {
		fmt.Fprintln(p.Out, painter.Error("Invalid model id or number: "+input))
		return "", false, nil
	}
	return m.ID, true, nil
}
