package streamlog

import (
	"io"
	"log"
	"sync"
)

// Stream is an output stream whose backing writer can be substituted without
// changing the stream's public write interface. Anything with a swappable
// writer slot qualifies; the stdlib logger is the canonical example (see
// StdLogger).
type Stream interface {
	// Output returns the writer currently backing the stream.
	Output() io.Writer

	// SetOutput replaces the writer backing the stream.
	SetOutput(w io.Writer)
}

// Var is a freestanding Stream over a plain swappable writer slot. It is
// itself an io.Writer delegating to whatever writer currently backs it, so
// it can stand in front of any write path the caller owns, such as the line
// pump of a captured child process.
type Var struct {
	mu sync.RWMutex
	w  io.Writer
}

// NewVar returns a Var initially backed by w.
func NewVar(w io.Writer) *Var {
	return &Var{w: w}
}

// Write forwards p to the writer currently backing the stream.
func (v *Var) Write(p []byte) (int, error) {
	v.mu.RLock()
	w := v.w
	v.mu.RUnlock()
	return w.Write(p)
}

// Output returns the writer currently backing the stream.
func (v *Var) Output() io.Writer {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.w
}

// SetOutput replaces the writer backing the stream.
func (v *Var) SetOutput(w io.Writer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.w = w
}

// StdLogger adapts a stdlib *log.Logger to the Stream interface. The
// logger's output slot is the backing writer.
type StdLogger struct {
	L *log.Logger
}

// Output returns the writer currently backing the logger.
func (s StdLogger) Output() io.Writer {
	return s.L.Writer()
}

// SetOutput replaces the writer backing the logger.
func (s StdLogger) SetOutput(w io.Writer) {
	s.L.SetOutput(w)
}

// MessageWriter adapts a session for write paths that deliver one complete
// message per Write call, the stdlib logger for example: each Write is
// forwarded to the session with a single trailing newline removed, then
// flushed immediately. Install it with SetOutput after creating the session:
//
//	session := streamlog.New(stream, level, console, logfile)
//	stream.SetOutput(streamlog.MessageWriter{S: session})
//
// Closing the session still restores the stream's original backing writer.
type MessageWriter struct {
	S *Session
}

func (m MessageWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	if _, err := m.S.Write(p); err != nil {
		return 0, err
	}
	m.S.Flush()
	return n, nil
}
