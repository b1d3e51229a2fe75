package session

import (
	"fmt"
	"io"

	"github.com/coodar/dscli/internal/models"
	"github.com/coodar/dscli/internal/render"
)

// Section headers of a streamed reply
const (
	ReasoningHeader = "Reasoning:"
	AnswerHeader    = "Answer:"
)

// streamPrinter writes deltas as they arrive, opening each section with
// its header once.
type streamPrinter struct {
	w              io.Writer
	painter        render.Painter
	reasoningModel bool

	reasoningOpen bool
	answerOpen    bool
}

func newStreamPrinter(w io.Writer, painter render.Painter, reasoningModel bool) *streamPrinter {
	return &streamPrinter{w: w, painter: painter, reasoningModel: reasoningModel}
}

func (p *streamPrinter) write(c models.DeltaChunk) {
	if p.reasoningModel && c.Reasoning != "" {
		if !p.reasoningOpen {
			fmt.Fprintln(p.w, p.painter.Accent(ReasoningHeader))
			p.reasoningOpen = true
		}
		fmt.Fprint(p.w, p.painter.Reasoning(c.Reasoning))
	}

	if c.Content != "" {
		if !p.answerOpen {
			if p.reasoningOpen {
				fmt.Fprint(p.w, "\n\n")
			}
			fmt.Fprintln(p.w, p.painter.Accent(AnswerHeader))
			p.answerOpen = true
		}
		fmt.Fprint(p.w, p.painter.Assistant(c.Content))
	}
}

// end terminates the last line if anything was printed
func (p *streamPrinter) end() {
	if p.reasoningOpen || p.answerOpen {
		fmt.Fprintln(p.w)
	}
}
