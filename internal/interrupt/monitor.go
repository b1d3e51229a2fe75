package interrupt

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
)

// queueSize bounds the characters waiting between two polls
const queueSize = 256

// rawOwner is set while a monitor holds the terminal in raw mode. Only one
// monitor per process may hold it.
var rawOwner atomic.Bool

// Monitor reads keystrokes in the background during a streaming turn.
// Poll and Writer are called from the consuming goroutine; Stop may be
// called from any goroutine, any number of times.
type Monitor struct {
	logger  zerolog.Logger
	reader  cancelreader.CancelReader
	restore func() error

	queue chan rune
	done  chan struct{}
	wg    sync.WaitGroup

	matcher  lineMatcher
	active   bool
	raw      atomic.Bool
	consumed atomic.Int64
	stopOnce sync.Once
}

// Start puts console in raw mode and begins reading from it. Without an
// interactive terminal, or when another monitor already holds raw mode,
// the returned monitor is inactive: Poll always reports false.
func Start(console Console, logger zerolog.Logger) *Monitor {
	m := &Monitor{logger: logger}

	if console == nil || !console.IsTerminal() {
		logger.Debug().Msg("no terminal attached, interrupt monitoring disabled")
		return m
	}
	if !rawOwner.CompareAndSwap(false, true) {
		logger.Debug().Msg("terminal already in raw mode, interrupt monitoring disabled")
		return m
	}

	restore, err := console.MakeRaw()
	if err != nil {
		rawOwner.Store(false)
		logger.Debug().Err(err).Msg("failed to enter raw mode, interrupt monitoring disabled")
		return m
	}

	reader, err := console.NewReader()
	if err != nil {
		if rerr := restore(); rerr != nil {
			logger.Warn().Err(rerr).Msg("failed to restore terminal")
		}
		rawOwner.Store(false)
		logger.Debug().Err(err).Msg("failed to open input reader, interrupt monitoring disabled")
		return m
	}

	m.reader = reader
	m.restore = restore
	m.queue = make(chan rune, queueSize)
	m.done = make(chan struct{})
	m.active = true
	m.raw.Store(true)

	m.wg.Add(1)
	go m.readLoop()

	return m
}

// Active reports whether the monitor is listening
func (m *Monitor) Active() bool {
	return m.active
}

func (m *Monitor) readLoop() {
	defer m.wg.Done()

	var asm runeAssembler
	b := make([]byte, 1)
	for {
		n, err := m.reader.Read(b)
		if n > 0 {
			for _, r := range asm.feed(b[0]) {
				select {
				case m.queue <- r:
				case <-m.done:
					return
				}
			}
			m.consumed.Add(1)
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) && !errors.Is(err, io.EOF) {
				m.logger.Debug().Err(err).Msg("interrupt reader stopped")
			}
			return
		}
	}
}

// Poll reports, without blocking, whether the input read since the last
// poll contains a cancellation request. A match drains the queue and
// resets the pending line, so it is reported once.
func (m *Monitor) Poll() bool {
	if !m.active {
		return false
	}

	for {
		select {
		case r := <-m.queue:
			if m.matcher.push(r) {
				m.drain()
				m.matcher.reset()
				m.logger.Debug().Msg("interrupt requested from keyboard")
				return true
			}
		default:
			return false
		}
	}
}

func (m *Monitor) drain() {
	for {
		select {
		case <-m.queue:
		default:
			return
		}
	}
}

// Stop ends the reader and restores the terminal mode
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		if !m.active {
			return
		}

		close(m.done)
		m.reader.Cancel()
		m.wg.Wait()
		_ = m.reader.Close()

		m.raw.Store(false)
		if err := m.restore(); err != nil {
			m.logger.Warn().Err(err).Msg("failed to restore terminal")
		}
		rawOwner.Store(false)
	})
}

// Writer wraps w so output stays readable while the terminal is raw. Raw
// mode disables output post-processing, so "\n" is written as "\r\n".
func (m *Monitor) Writer(w io.Writer) io.Writer {
	if !m.active {
		return w
	}
	return &crlfWriter{w: w, raw: &m.raw}
}

type crlfWriter struct {
	w    io.Writer
	raw  *atomic.Bool
	last byte
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !c.raw.Load() {
		c.last = p[len(p)-1]
		return c.w.Write(p)
	}

	out := make([]byte, 0, len(p)+8)
	prev := c.last
	for _, b := range p {
		if b == '\n' && prev != '\r' {
			out = append(out, '\r')
		}
		out = append(out, b)
		prev = b
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	c.last = prev
	return len(p), nil
}
