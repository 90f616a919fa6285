// Package spinner draws terminal progress while a batch is evaluated.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// IsTerminal reports whether w is a terminal. Spinners are only drawn on
// terminals; redirected output stays free of control characters.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Spinner animates a message on one line until Stop is called.
type Spinner struct {
	w io.Writer

	mu      sync.Mutex
	message string
	width   int

	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// New starts a spinner showing message on w.
func New(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.loop()
	return s
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-ticker.C:
			s.mu.Lock()
			line := frames[i%len(frames)] + " " + s.message
			// Pad over a longer previous message.
			width := runewidth.StringWidth(line)
			pad := ""
			if width < s.width {
				pad = strings.Repeat(" ", s.width-width)
			} else {
				s.width = width
			}
			fmt.Fprintf(s.w, "\r%s%s", line, pad) //nolint:errcheck
			s.mu.Unlock()
			i++
		}
	}
}

// Progress counts finished items and shows "message n/total" on a spinner.
type Progress struct {
	spinner *Spinner
	message string
	total   int

	mu   sync.Mutex
	done int
}

// NewProgress starts a progress spinner for total items.
func NewProgress(w io.Writer, message string, total int) *Progress {
	p := &Progress{message: message, total: total}
	p.spinner = New(w, p.text(0))
	return p
}

// Increment marks one more item as finished.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.done++
	n := p.done
	p.mu.Unlock()
	p.spinner.SetMessage(p.text(n))
}

// Stop clears the progress line.
func (p *Progress) Stop() {
	p.spinner.Stop()
}

func (p *Progress) text(n int) string {
	return fmt.Sprintf("%s %d/%d", p.message, n, p.total)
}
