package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrReaderClosed is returned by ReadLine after Close
var ErrReaderClosed = errors.New("line reader closed")

type lineResult struct {
	line string
	err  error
}

// LineReader reads input lines in a background goroutine, one line per
// request. Nothing is read from the input between requests, so other
// readers such as the interrupt monitor can use it during a turn.
type LineReader struct {
	out      io.Writer
	requests chan struct{}
	results  chan lineResult

	mu      sync.Mutex
	pending bool // a request is outstanding from a cancelled ReadLine
	closed  bool
}

// NewLineReader starts reading from in on demand. Prompts go to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	r := &LineReader{
		out:      out,
		requests: make(chan struct{}),
		results:  make(chan lineResult, 1),
	}
	go r.loop(bufio.NewReader(in))
	return r
}

func (r *LineReader) loop(br *bufio.Reader) {
	var sticky error
	for range r.requests {
		if sticky != nil {
			r.results <- lineResult{err: sticky}
			continue
		}

		line, err := br.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil {
			sticky = err
			if line != "" {
				// deliver the unterminated last line first
				r.results <- lineResult{line: line}
				continue
			}
		}
		r.results <- lineResult{line: line, err: err}
	}
}

// ReadLine prints prompt and waits for the next line. It returns ctx's
// error when ctx ends first; the line still arrives and is returned by
// the next call.
func (r *LineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrReaderClosed
	}
	if !r.pending {
		r.requests <- struct{}{}
		r.pending = true
	}
	r.mu.Unlock()

	fmt.Fprint(r.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-r.results:
		r.mu.Lock()
		r.pending = false
		r.mu.Unlock()
		return res.line, res.err
	}
}

// Close stops the reader goroutine once its current read returns
func (r *LineReader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.requests)
}
