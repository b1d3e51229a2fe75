package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerLifecycle(t *testing.T) {
	var out syncBuffer
	s := newSpinner(&out, "Thinking")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stopAndWait()
	s.stopAndWait()

	got := out.String()
	if !strings.Contains(got, "Thinking") {
		t.Errorf("spinner never rendered its message: %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K\033[?25h") {
		t.Errorf("spinner should clear the line and restore the cursor, got %q", got)
	}
}

func TestBusyIndicator(t *testing.T) {
	var out syncBuffer
	start := busyIndicator(&out, "Waiting")

	stop := start()
	stop()

	if !strings.Contains(out.String(), "\033[?25h") {
		t.Error("stop should restore the cursor")
	}
}
