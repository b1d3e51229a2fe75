// Package session owns the conversation and runs one request/response turn
// at a time.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coodar/dscli/internal/api"
	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
	"github.com/coodar/dscli/internal/render"
	"github.com/coodar/dscli/internal/retry"
)

// Fixed replies stored when a turn produces nothing usable
const (
	EmptyReply    = "Sorry, no valid reply was received. Please try again later."
	FallbackReply = "Sorry, an error occurred while processing your request."
)

// InterruptedNotice is printed when a streaming reply is cut short
const InterruptedNotice = "[output interrupted]"

// Completer is the remote completion service
type Completer interface {
	Complete(ctx context.Context, req api.ChatRequest) (*models.Completion, error)
	Stream(ctx context.Context, req api.ChatRequest) (*api.Stream, error)
}

// Monitor reports keyboard cancellation during a streaming turn
type Monitor interface {
	Poll() bool
	Stop()
	Writer(w io.Writer) io.Writer
}

// MonitorFactory starts a monitor for one turn
type MonitorFactory func(logger zerolog.Logger) Monitor

// TurnResult describes how a turn ended. Reply is the text stored as the
// assistant message. Streamed is set when the reply was printed as it
// arrived; Failure is set when the turn ended with FallbackReply.
type TurnResult struct {
	Reply     string
	Content   string
	Reasoning string
	Streamed  bool
	Cancelled bool
	Attempts  int
	Failure   *apierrors.Classification
}

// Session runs turns against a Completer and keeps the conversation
type Session struct {
	client     Completer
	state      *State
	conv       *Conversation
	policy     retry.Policy
	newMonitor MonitorFactory
	out        io.Writer
	painter    render.Painter
	busy       func() (stop func())
}

// Option configures a Session
type Option func(*Session)

// WithPolicy sets the retry policy
func WithPolicy(p retry.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithMonitor sets how the keyboard monitor is started for streaming turns
func WithMonitor(f MonitorFactory) Option {
	return func(s *Session) {
		s.newMonitor = f
	}
}

// WithOutput sets where streamed text and error notices are written
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithPainter sets the painter for streamed output
func WithPainter(p render.Painter) Option {
	return func(s *Session) {
		s.painter = p
	}
}

// WithBusyIndicator sets a function run around each buffered request, such
// as a spinner. It returns the function that ends the indicator.
func WithBusyIndicator(f func() (stop func())) Option {
	return func(s *Session) {
		s.busy = f
	}
}

// New creates a Session with an empty conversation
func New(client Completer, state *State, opts ...Option) *Session {
	s := &Session{
		client:     client,
		state:      state,
		conv:       NewConversation(),
		policy:     retry.Default(),
		newMonitor: func(zerolog.Logger) Monitor { return noopMonitor{} },
		out:        io.Discard,
		painter:    render.PlainPainter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session state
func (s *Session) State() *State {
	return s.state
}

// Messages returns a copy of the conversation
func (s *Session) Messages() []models.Message {
	return s.conv.Messages()
}

// AddUserMessage appends a user message for the next turn
func (s *Session) AddUserMessage(content string) error {
	return s.conv.Append(models.Message{Role: models.RoleUser, Content: content})
}

// Reset clears the whole conversation. Calling it again has no effect.
func (s *Session) Reset() {
	s.conv.Reset()
	s.state.TakeInterrupt()
}

// Turn sends the conversation and appends exactly one assistant message:
// the reply, the text received before a cancellation, or FallbackReply
// when the request failed for good. Failures never propagate; they are
// reported on the output and in Failure.
func (s *Session) Turn(ctx context.Context) TurnResult {
	model := s.state.ActiveModel()
	reasoningModel := s.state.SupportsReasoning()
	stream := s.state.StreamEnabled()

	log := s.state.Logger().With().
		Str("turn", uuid.NewString()).
		Str("model", model).
		Bool("stream", stream).
		Logger()

	// a /stop typed at the prompt belongs to no turn
	s.state.TakeInterrupt()

	if err := s.conv.Validate(); err != nil {
		cls := s.policy.Classify(err)
		log.Warn().Err(err).Msg("conversation failed validation")
		s.report(s.out, cls)
		if last, ok := s.conv.Last(); ok && last.Role == models.RoleUser {
			s.appendAssistant(FallbackReply, "", log)
		}
		return TurnResult{Reply: FallbackReply, Failure: &cls}
	}

	req := api.ChatRequest{
		Model:       model,
		Messages:    s.conv.Messages(),
		Temperature: s.state.Temperature(),
		Logger:      &log,
	}

	mon := Monitor(noopMonitor{})
	if stream {
		mon = s.newMonitor(log)
		defer mon.Stop()
	}
	out := mon.Writer(s.out)

	for attempt := 1; ; attempt++ {
		var (
			res attemptResult
			err error
		)
		if stream {
			res, err = s.streamOnce(ctx, req, mon, reasoningModel, log)
		} else {
			res, err = s.completeOnce(ctx, req, log)
		}

		if err == nil || res.cancelled {
			return s.finish(res, stream, reasoningModel, attempt, log)
		}

		cls := s.policy.Classify(err)
		log.Debug().Err(err).Int("attempt", attempt).Str("kind", cls.Kind.String()).Msg("attempt failed")

		if !s.policy.ShouldRetry(cls.Kind, attempt) {
			log.Warn().Err(err).Int("attempts", attempt).Str("kind", cls.Kind.String()).Msg("turn failed")
			s.report(out, cls)
			s.appendAssistant(FallbackReply, "", log)
			return TurnResult{Reply: FallbackReply, Streamed: stream, Attempts: attempt, Failure: &cls}
		}

		if cls.Kind == apierrors.KindAuth {
			log.Warn().Msg("retrying after an authentication failure with the same key")
		}
		fmt.Fprintln(out, s.painter.System(
			fmt.Sprintf("%s, retrying (attempt %d of %d)...", cls.Message, attempt+1, s.policy.MaxRetries)))

		if err := s.policy.Wait(ctx); err != nil || s.state.TakeInterrupt() || mon.Poll() {
			log.Debug().Msg("turn cancelled while waiting to retry")
			return s.finish(attemptResult{cancelled: true}, stream, reasoningModel, attempt, log)
		}
	}
}

type attemptResult struct {
	content   string
	reasoning string
	cancelled bool
}

// finish stores the reply of a successful or cancelled attempt
func (s *Session) finish(res attemptResult, stream, reasoningModel bool, attempts int, log zerolog.Logger) TurnResult {
	reply := models.JoinReply(res.reasoning, res.content, reasoningModel)
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReply
	}

	reasoning := ""
	if reasoningModel {
		reasoning = res.reasoning
	}
	s.appendAssistant(reply, reasoning, log)

	log.Debug().
		Int("attempts", attempts).
		Bool("cancelled", res.cancelled).
		Int("reply_len", len(reply)).
		Msg("turn complete")

	return TurnResult{
		Reply:     reply,
		Content:   res.content,
		Reasoning: reasoning,
		Streamed:  stream,
		Cancelled: res.cancelled,
		Attempts:  attempts,
	}
}

func (s *Session) appendAssistant(reply, reasoning string, log zerolog.Logger) {
	err := s.conv.Append(models.Message{Role: models.RoleAssistant, Content: reply, Reasoning: reasoning})
	if err != nil {
		log.Error().Err(err).Msg("failed to store assistant reply")
	}
}

func (s *Session) report(w io.Writer, cls apierrors.Classification) {
	fmt.Fprintln(w, s.painter.Error("Error: "+cls.Message))
}

func (s *Session) completeOnce(ctx context.Context, req api.ChatRequest, log zerolog.Logger) (attemptResult, error) {
	if s.busy != nil {
		stop := s.busy()
		defer stop()
	}

	out, err := s.client.Complete(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Err(err).Msg("request cancelled")
			return attemptResult{cancelled: true}, nil
		}
		return attemptResult{}, err
	}
	return attemptResult{content: out.Content, reasoning: out.Reasoning}, nil
}

// streamOnce consumes one streamed response. Polling happens between
// chunks, so a cancellation takes effect after at most one more chunk.
// On error the partial text is dropped.
func (s *Session) streamOnce(ctx context.Context, req api.ChatRequest, mon Monitor, reasoningModel bool, log zerolog.Logger) (attemptResult, error) {
	stream, err := s.client.Stream(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return attemptResult{cancelled: true}, nil
		}
		return attemptResult{}, err
	}
	defer func() { _ = stream.Close() }()

	p := newStreamPrinter(mon.Writer(s.out), s.painter, reasoningModel)
	var content, reasoning strings.Builder
	cancelled := false

	for stream.Next() {
		if s.state.TakeInterrupt() || mon.Poll() || ctx.Err() != nil {
			cancelled = true
			break
		}

		chunk := stream.Current()
		if chunk.Empty() {
			continue
		}
		content.WriteString(chunk.Content)
		reasoning.WriteString(chunk.Reasoning)
		p.write(chunk)
	}

	if !cancelled && stream.Err() != nil && ctx.Err() != nil {
		cancelled = true
	}

	if cancelled {
		mon.Stop()
		p.end()
		fmt.Fprintln(s.out, s.painter.System(InterruptedNotice))
		log.Debug().Int("content_len", content.Len()).Msg("stream interrupted")
		return attemptResult{content: content.String(), reasoning: reasoning.String(), cancelled: true}, nil
	}

	p.end()
	if err := stream.Err(); err != nil {
		return attemptResult{}, err
	}
	if n := stream.Skipped(); n > 0 {
		log.Debug().Int("skipped", n).Msg("malformed stream records dropped")
	}
	return attemptResult{content: content.String(), reasoning: reasoning.String()}, nil
}

type noopMonitor struct{}

func (noopMonitor) Poll() bool { return false }

func (noopMonitor) Stop() {}

func (noopMonitor) Writer(w io.Writer) io.Writer { return w }
