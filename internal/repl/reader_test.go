package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_Lines(t *testing.T) {
	var prompts bytes.Buffer
	r := NewLineReader(strings.NewReader("one\r\ntwo\nlast"), &prompts)
	defer r.Close()
	ctx := context.Background()

	for _, want := range []string{"one", "two", "last"} {
		got, err := r.ReadLine(ctx, "> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF, "end of input is sticky")

	assert.Equal(t, "> > > > > ", prompts.String())
}

func TestLineReader_CancelKeepsPendingLine(t *testing.T) {
	pr, pw := io.Pipe()
	r := NewLineReader(pr, io.Discard)
	defer func() {
		_ = pw.Close()
		r.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.ReadLine(ctx, "")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = io.WriteString(pw, "late\n") }()

	got, err := r.ReadLine(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "late", got)
}

func TestLineReader_Closed(t *testing.T) {
	r := NewLineReader(strings.NewReader(""), io.Discard)
	r.Close()
	r.Close()

	_, err := r.ReadLine(context.Background(), "")
	assert.True(t, errors.Is(err, ErrReaderClosed))
}
