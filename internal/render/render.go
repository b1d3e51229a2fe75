package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle bounds the idle renderers kept per option set
const maxIdle = 4

// rendererSet hands out glamour renderers keyed by their options. A
// TermRenderer keeps state between calls, so each Render gets its own.
type rendererSet struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var renderers = newRendererSet()

func newRendererSet() *rendererSet {
	return &rendererSet{idle: make(map[Options][]*glamour.TermRenderer)}
}

func (s *rendererSet) acquire(opts Options) (*glamour.TermRenderer, error) {
	s.mu.Lock()
	if list := s.idle[opts]; len(list) > 0 {
		r := list[len(list)-1]
		s.idle[opts] = list[:len(list)-1]
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	return newTermRenderer(opts)
}

func (s *rendererSet) release(opts Options, r *glamour.TermRenderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list := s.idle[opts]; len(list) < maxIdle {
		s.idle[opts] = append(list, r)
	}
}

func (s *rendererSet) idleCount(opts Options) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.idle[opts])
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(NormalizeStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// Markdown renders an assistant reply for the terminal
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	renderers.release(opts, r)
	return out, err
}

// MarkdownOrPlain renders content, falling back to the raw text when the
// style cannot be loaded or rendering fails.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}
