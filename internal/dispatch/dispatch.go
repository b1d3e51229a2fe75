package dispatch

import (
	"context"
	"fmt"
	"io"

	"github.com/coodar/dscli/internal/config"
	"github.com/coodar/dscli/internal/models"
	"github.com/coodar/dscli/internal/render"
	"github.com/coodar/dscli/internal/session"
)

// Outcome tells the REPL what to do after a line was dispatched
type Outcome int

const (
	Continue Outcome = iota // forward the line as a chat turn
	Handled                 // directive executed, read the next line
	Exit                    // leave the REPL
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Handled:
		return "handled"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// ModelSelector asks the user for a model. ok is false when the user made
// no valid choice; the active model is then left unchanged.
type ModelSelector interface {
	SelectModel(ctx context.Context, set []models.ModelInfo, current string) (id string, ok bool, err error)
}

// Resetter clears the conversation
type Resetter interface {
	Reset()
}

// Dispatcher applies directives to the session state
type Dispatcher struct {
	state    *session.State
	conv     Resetter
	selector ModelSelector
	out      io.Writer
	painter  render.Painter
	policy   string
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithSelector sets how /model without an argument asks for a model
func WithSelector(s ModelSelector) Option {
	return func(d *Dispatcher) {
		d.selector = s
	}
}

// WithOutput sets where command feedback is written
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.out = w
	}
}

// WithPainter sets the painter for command feedback
func WithPainter(p render.Painter) Option {
	return func(d *Dispatcher) {
		d.painter = p
	}
}

// WithUnknownPolicy sets what happens to unknown directives: forwarded as
// chat text (config.UnknownCommandForward) or reported and dropped
// (config.UnknownCommandReject).
func WithUnknownPolicy(policy string) Option {
	return func(d *Dispatcher) {
		d.policy = policy
	}
}

// New creates a Dispatcher over state. conv is cleared by /reset.
func New(state *session.State, conv Resetter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		state:   state,
		conv:    conv,
		out:     io.Discard,
		painter: render.PlainPainter{},
		policy:  config.UnknownCommandForward,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch parses line and runs the directive it names
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Outcome {
	cmd := Parse(line)
	log := d.state.Logger()
	if cmd.Kind != CmdNone {
		log.Debug().Str("command", cmd.Name).Str("kind", cmd.Kind.String()).Msg("dispatching command")
	}

	switch cmd.Kind {
	case CmdNone:
		return Continue

	case CmdQuit:
		d.notice("Exiting...")
		return Exit

	case CmdStream:
		d.notice("Streaming output " + enabled(d.state.ToggleStream()))
		return Handled

	case CmdHelp:
		info := d.state.ActiveModelInfo()
		d.notice(HelpText(d.state.StreamEnabled(), d.state.Debug(), info.DisplayName()))
		return Handled

	case CmdDebug:
		d.notice("Debug mode " + enabled(d.state.ToggleDebug()))
		return Handled

	case CmdMulti:
		d.state.SetMultiLine(true)
		d.notice("Multi-line mode: enter your text, finish with " + EOFMarker)
		return Handled

	case CmdModel:
		d.selectModel(ctx, cmd.Arg)
		return Handled

	case CmdReset:
		d.conv.Reset()
		d.notice("Conversation history cleared, starting over")
		return Handled

	case CmdStop:
		d.state.RequestInterrupt()
		d.notice("Interrupt requested")
		return Handled

	case CmdUnknown:
		if d.policy == config.UnknownCommandReject {
			fmt.Fprintln(d.out, d.painter.Error(
				fmt.Sprintf("Unknown command: %s (type /help for the list)", cmd.Name)))
			return Handled
		}
		log.Debug().Str("command", cmd.Name).Msg("unknown command forwarded as chat text")
		return Continue
	}

	return Continue
}

func (d *Dispatcher) selectModel(ctx context.Context, arg string) {
	current := d.state.ActiveModelInfo()
	id := arg

	if id == "" {
		d.notice("Current model: " + current.DisplayName())
		if d.selector == nil {
			d.listModels()
			d.notice("Use /model <id> to switch")
			return
		}

		choice, ok, err := d.selector.SelectModel(ctx, d.state.Models(), current.ID)
		if err != nil {
			fmt.Fprintln(d.out, d.painter.Error("Model selection failed: "+err.Error()))
			return
		}
		if !ok {
			d.notice("Model unchanged")
			return
		}
		id = choice
	}

	info, err := d.state.SetActiveModel(id)
	if err != nil {
		fmt.Fprintln(d.out, d.painter.Error("Invalid model: "+id))
		return
	}
	d.notice("Switched to model: " + info.DisplayName())
	d.notice("Conversation history is kept, you can continue where you left off")
}

func (d *Dispatcher) listModels() {
	d.notice("Available models:")
	for i, m := range d.state.Models() {
		d.notice(fmt.Sprintf("  %d. %s (%s)", i+1, m.DisplayName(), m.ID))
	}
}

func (d *Dispatcher) notice(s string) {
	fmt.Fprintln(d.out, d.painter.System(s))
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
