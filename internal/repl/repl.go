// Package repl runs the interactive read-act loop of dscli.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/coodar/dscli/internal/dispatch"
	"github.com/coodar/dscli/internal/render"
	"github.com/coodar/dscli/internal/session"
)

// Prompts
const (
	UserPrompt      = "You: "
	MultiLinePrompt = "> "
	AssistantLabel  = "Assistant:"
)

var errExit = errors.New("exit requested")

// Turner runs chat turns
type Turner interface {
	State() *session.State
	AddUserMessage(content string) error
	Turn(ctx context.Context) session.TurnResult
}

// Dispatcher handles directive lines
type Dispatcher interface {
	Dispatch(ctx context.Context, line string) dispatch.Outcome
}

// REPL reads lines, dispatches directives and runs chat turns
type REPL struct {
	sess    Turner
	disp    Dispatcher
	reader  *LineReader
	out     io.Writer
	painter render.Painter
	signals <-chan os.Signal

	markdown   bool
	renderOpts render.Options
	copyReply  func(string) error

	mu         sync.Mutex
	turnCancel context.CancelFunc
}

// Option configures a REPL
type Option func(*REPL)

// WithOutput sets where replies and notices are written
func WithOutput(w io.Writer) Option {
	return func(r *REPL) {
		r.out = w
	}
}

// WithPainter sets the painter
func WithPainter(p render.Painter) Option {
	return func(r *REPL) {
		r.painter = p
	}
}

// WithSignals sets the interrupt signal channel. A signal during a turn
// cancels the turn; at the prompt it ends the loop.
func WithSignals(ch <-chan os.Signal) Option {
	return func(r *REPL) {
		r.signals = ch
	}
}

// WithMarkdown renders non-streamed replies as markdown with opts
func WithMarkdown(opts render.Options) Option {
	return func(r *REPL) {
		r.markdown = true
		r.renderOpts = opts
	}
}

// WithClipboard copies every completed reply with fn
func WithClipboard(fn func(string) error) Option {
	return func(r *REPL) {
		r.copyReply = fn
	}
}

// New creates a REPL reading from reader
func New(sess Turner, disp Dispatcher, reader *LineReader, opts ...Option) *REPL {
	r := &REPL{
		sess:    sess,
		disp:    disp,
		reader:  reader,
		out:     io.Discard,
		painter: render.PlainPainter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints the banner and loops until /quit, end of input, an interrupt
// at the prompt or ctx ending. Turn failures never end the loop.
func (r *REPL) Run(ctx context.Context) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	if r.signals != nil {
		go r.watchSignals(ctx, quit)
	}

	fmt.Fprintln(r.out, r.painter.System(dispatch.Banner()))

	for {
		text, ok, err := r.next(ctx)
		if err != nil {
			if errors.Is(err, errExit) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				if !errors.Is(err, errExit) {
					fmt.Fprintln(r.out)
				}
				fmt.Fprintln(r.out, r.painter.System("Goodbye!"))
				return nil
			}
			return err
		}
		if !ok {
			continue
		}
		r.runTurn(ctx, text)
	}
}

// next returns the next chat text. ok is false when the line was a
// directive or produced nothing to send.
func (r *REPL) next(ctx context.Context) (string, bool, error) {
	state := r.sess.State()
	if state.MultiLine() {
		return r.captureMultiLine(ctx)
	}

	line, err := r.reader.ReadLine(ctx, r.painter.User(UserPrompt))
	if err != nil {
		return "", false, err
	}
	log := state.Logger()
	log.Debug().Int("len", len(line)).Msg("input received")

	switch r.disp.Dispatch(ctx, line) {
	case dispatch.Exit:
		return "", false, errExit
	case dispatch.Handled:
		return "", false, nil
	}

	if strings.TrimSpace(line) == "" {
		return "", false, nil
	}
	return line, true, nil
}

// captureMultiLine buffers lines verbatim until /eof. An empty capture is
// discarded. Either way multi-line mode ends.
func (r *REPL) captureMultiLine(ctx context.Context) (string, bool, error) {
	state := r.sess.State()
	defer state.SetMultiLine(false)

	var lines []string
	for {
		line, err := r.reader.ReadLine(ctx, r.painter.User(MultiLinePrompt))
		if err != nil {
			return "", false, err
		}
		if dispatch.IsEOF(line) {
			break
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		fmt.Fprintln(r.out, r.painter.System("Nothing captured, multi-line input discarded"))
		return "", false, nil
	}
	fmt.Fprintln(r.out, r.painter.System(fmt.Sprintf("Received %d lines", len(lines))))
	return strings.Join(lines, "\n"), true, nil
}

func (r *REPL) runTurn(ctx context.Context, text string) {
	if err := r.sess.AddUserMessage(text); err != nil {
		fmt.Fprintln(r.out, r.painter.Error("Error: "+err.Error()))
		return
	}

	turnCtx, cancel := context.WithCancel(ctx)
	r.setTurnCancel(cancel)
	res := r.sess.Turn(turnCtx)
	r.setTurnCancel(nil)
	cancel()

	if !r.alreadyPrinted(res) {
		r.printReply(res)
	}

	if r.copyReply != nil && res.Failure == nil && !res.Cancelled {
		if err := r.copyReply(res.Reply); err != nil {
			fmt.Fprintln(r.out, r.painter.Error(fmt.Sprintf("Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(r.out, r.painter.System("Copied to clipboard"))
		}
	}
}

// alreadyPrinted reports whether the reply text reached the output while
// it streamed.
func (r *REPL) alreadyPrinted(res session.TurnResult) bool {
	if !res.Streamed || res.Failure != nil {
		return false
	}
	return strings.TrimSpace(res.Content+res.Reasoning) != ""
}

func (r *REPL) printReply(res session.TurnResult) {
	fmt.Fprintln(r.out, r.painter.Accent(AssistantLabel))

	if res.Failure == nil && strings.TrimSpace(res.Reasoning) != "" {
		fmt.Fprintln(r.out, r.painter.Reasoning(strings.TrimSpace(res.Reasoning)))
		fmt.Fprintln(r.out)
	}

	body := res.Content
	if res.Failure != nil || strings.TrimSpace(body) == "" {
		body = res.Reply
	}
	if r.markdown && res.Failure == nil {
		body = strings.TrimRight(render.MarkdownOrPlain(body, r.renderOpts), "\n")
		fmt.Fprintln(r.out, body)
		return
	}
	fmt.Fprintln(r.out, r.painter.Assistant(body))
}

func (r *REPL) setTurnCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnCancel = cancel
}

// watchSignals turns an interrupt during a turn into a cancellation of
// that turn, and an interrupt at the prompt into the end of the loop.
func (r *REPL) watchSignals(ctx context.Context, quit context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-r.signals:
			if !ok {
				return
			}
			r.mu.Lock()
			cancel := r.turnCancel
			r.mu.Unlock()

			if cancel != nil {
				r.sess.State().RequestInterrupt()
				cancel()
				continue
			}
			quit()
			return
		}
	}
}
