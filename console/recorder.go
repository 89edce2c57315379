package console

import (
	"bytes"
	"strings"
	"sync"
	"time"
)

// Line is a completed console line and the time its first byte was written.
type Line struct {
	Text string
	At   time.Time
}

// Recorder captures console output and timestamps every line.
type Recorder struct {
	now func() time.Time

	mu      sync.Mutex
	buf     bytes.Buffer
	lines   []Line
	partial strings.Builder
	started time.Time
}

func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{now: now}
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf.Write(p)
	for _, c := range p {
		if r.partial.Len() == 0 {
			r.started = r.now()
		}
		if c == '\n' {
			r.lines = append(r.lines, Line{Text: r.partial.String(), At: r.started})
			r.partial.Reset()
			continue
		}
		r.partial.WriteByte(c)
	}
	return len(p), nil
}

// String returns everything written so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Lines returns the completed lines without their newline.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.lines...)
}
