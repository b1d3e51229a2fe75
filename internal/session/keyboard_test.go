package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coodar/dscli/internal/api"
	"github.com/coodar/dscli/internal/interrupt"
	"github.com/coodar/dscli/internal/models"
)

// pipeConsole is an interactive console whose keyboard is an io.Pipe
type pipeConsole struct {
	mu       sync.Mutex
	raw      bool
	restored int
	keys     *io.PipeWriter
}

type pipeKeys struct {
	r *io.PipeReader
}

func (p *pipeKeys) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if errors.Is(err, io.ErrClosedPipe) {
		return n, cancelreader.ErrCanceled
	}
	return n, err
}

func (p *pipeKeys) Cancel() bool {
	_ = p.r.CloseWithError(cancelreader.ErrCanceled)
	return true
}

func (p *pipeKeys) Close() error { return nil }

func (c *pipeConsole) IsTerminal() bool { return true }

func (c *pipeConsole) MakeRaw() (func() error, error) {
	c.mu.Lock()
	c.raw = true
	c.mu.Unlock()
	return func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.raw = false
		c.restored++
		return nil
	}, nil
}

func (c *pipeConsole) NewReader() (cancelreader.CancelReader, error) {
	r, w := io.Pipe()
	c.keys = w
	return &pipeKeys{r: r}, nil
}

func (c *pipeConsole) state() (raw bool, restored int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw, c.restored
}

// typingBody serves one event record per Read. Before the record at
// typeBefore it types keys on the console.
type typingBody struct {
	records    [][]byte
	next       int
	typeBefore int
	console    *pipeConsole
	keys       string
}

func (b *typingBody) Read(p []byte) (int, error) {
	if b.next >= len(b.records) {
		return 0, io.EOF
	}
	if b.next == b.typeBefore {
		// the second write returns only once the monitor has queued the first
		_, _ = b.console.keys.Write([]byte(b.keys))
		_, _ = b.console.keys.Write([]byte{' '})
	}
	n := copy(p, b.records[b.next])
	b.next++
	return n, nil
}

func (b *typingBody) Close() error { return nil }

// typingCompleter streams body as the response to every request
type typingCompleter struct {
	body *typingBody
}

func (c typingCompleter) Complete(context.Context, api.ChatRequest) (*models.Completion, error) {
	return nil, errors.New("buffered requests not expected")
}

func (c typingCompleter) Stream(_ context.Context, req api.ChatRequest) (*api.Stream, error) {
	return api.NewStream(c.body, models.ContentTypeEventStream, zerolog.Nop())
}

func TestTurn_KeyboardStopRestoresTerminal(t *testing.T) {
	console := &pipeConsole{}
	var records [][]byte
	for _, text := range []string{"Hel", "lo", " world", "!"} {
		records = append(records, api.EncodeEventStream([]models.DeltaChunk{{Content: text}}, false))
	}
	records = append(records, api.EncodeEventStream(nil, true))

	body := &typingBody{records: records, typeBefore: 2, console: console, keys: "/stop"}
	s, out := newTestSession(t, typingCompleter{body: body}, newTestState(t, models.ModelChat, true),
		WithMonitor(func(l zerolog.Logger) Monitor { return interrupt.Start(console, l) }))
	require.NoError(t, s.AddUserMessage("hi"))

	res := s.Turn(context.Background())

	assert.True(t, res.Cancelled)
	assert.Equal(t, "Hello", res.Reply)
	assert.Contains(t, out.String(), InterruptedNotice)

	want := []models.Message{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "Hello"},
	}
	if diff := cmp.Diff(want, s.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	raw, restored := console.state()
	assert.False(t, raw, "terminal must leave raw mode")
	assert.Equal(t, 1, restored)
}
