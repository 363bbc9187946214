// Package capture intercepts the process's own standard streams. It swaps
// the package-level os.Stdout or os.Stderr for the write end of a pipe and
// pumps complete lines from the read end through a streamlog session, so
// everything the process prints is re-routed to the session's sinks.
//
// At most one capture should be active per standard stream at a time.
package capture

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"logtap/pkg/streamlog"
)

// Std is one active capture of a standard stream. Closing it restores the
// original file and tears the interception session down.
type Std struct {
	slot    **os.File // &os.Stdout or &os.Stderr
	orig    *os.File
	pr, pw  *os.File
	stream  *streamlog.Var
	session *streamlog.Session
	done    chan struct{}
	restore sync.Once
}

// Stdout captures os.Stdout at the given level.
func Stdout(level streamlog.Level, console, persistent streamlog.Sink) (*Std, error) {
	return capture(&os.Stdout, level, console, persistent)
}

// Stderr captures os.Stderr at the given level.
func Stderr(level streamlog.Level, console, persistent streamlog.Sink) (*Std, error) {
	return capture(&os.Stderr, level, console, persistent)
}

func capture(slot **os.File, level streamlog.Level, console, persistent streamlog.Sink) (*Std, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}

	// The stream's pre-interception writer is the real file, so the
	// session's passthrough still reaches the terminal.
	stream := streamlog.NewVar(*slot)
	session := streamlog.New(stream, level, console, persistent)

	c := &Std{
		slot:    slot,
		orig:    *slot,
		pr:      pr,
		pw:      pw,
		stream:  stream,
		session: session,
		done:    make(chan struct{}),
	}

	*slot = pw
	go c.pump()

	return c, nil
}

// pump reads complete lines from the pipe into the stream's write path,
// flushing the session once per line. Line boundaries are the flush
// boundaries for captured standard streams.
//
// The pump must consume the pipe until it is closed, whatever arrives on
// it: if it stopped early, the next write to the captured stream would
// block forever once the pipe buffer fills.
func (c *Std) pump() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		_, _ = c.stream.Write(scanner.Bytes())
		c.session.Flush()
	}

	// An oversized line aborts the scanner; keep draining unframed, in
	// chunks, so the process can never wedge on its own prints
	if scanner.Err() != nil {
		buf := make([]byte, 64*1024)
		for {
			n, err := c.pr.Read(buf)
			if n > 0 {
				_, _ = c.stream.Write(buf[:n])
				c.session.Flush()
			}
			if err != nil {
				return
			}
		}
	}
}

// Session returns the interception session driving this capture.
func (c *Std) Session() *streamlog.Session {
	return c.session
}

// Close restores the original file, drains the pump and tears the session
// down. Text written after Close reaches the original stream again. It runs
// the restoration exactly once; later calls are no-ops.
func (c *Std) Close() error {
	var err error
	c.restore.Do(func() {
		*c.slot = c.orig

		// Closing the write end lets the pump drain to EOF
		if cerr := c.pw.Close(); cerr != nil {
			err = fmt.Errorf("failed to close pipe: %w", cerr)
		}
		<-c.done
		_ = c.pr.Close()

		c.session.Close()
	})
	return err
}
