// Package runner executes a child command with its output streams
// intercepted: each stream flows through a streamlog session, with line
// boundaries driving the flushes.
package runner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"logtap/internal/procinfo"
	"logtap/pkg/streamlog"
)

const statsInterval = 100 * time.Millisecond

// Options configure one captured command run.
type Options struct {
	Command     []string
	Dir         string
	UsePTY      bool
	Stats       bool
	StdoutLevel streamlog.Level
	StderrLevel streamlog.Level
}

// Result describes a finished run.
type Result struct {
	ExitCode int
	Duration time.Duration
	Stats    *procinfo.Summary // nil unless Options.Stats was set
}

// Run executes the command and blocks until it exits and all captured output
// has been dispatched. Stdout flows through a session bound to StdoutLevel,
// stderr through one bound to StderrLevel. In PTY mode the terminal merges
// the child's streams and everything flows through the stdout session.
func Run(opts Options, console, persistent streamlog.Sink) (*Result, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("no command given")
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.Dir

	var pumps sync.WaitGroup
	var sessions []*streamlog.Session
	defer func() {
		for _, s := range sessions {
			s.Close()
		}
	}()

	start := time.Now()

	if opts.UsePTY {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to start command with pty: %w", err)
		}
		defer func() { _ = ptmx.Close() }()
		_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80})

		stream := streamlog.NewVar(io.Discard)
		session := streamlog.New(stream, opts.StdoutLevel, console, persistent)
		sessions = append(sessions, session)

		pumps.Add(1)
		go func() {
			defer pumps.Done()
			pumpLines(ptmx, stream, session)
		}()
	} else {
		stdoutPipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
		}
		stderrPipe, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
		}

		outStream := streamlog.NewVar(io.Discard)
		outSession := streamlog.New(outStream, opts.StdoutLevel, console, persistent)
		errStream := streamlog.NewVar(io.Discard)
		errSession := streamlog.New(errStream, opts.StderrLevel, console, persistent)
		sessions = append(sessions, outSession, errSession)

		// Readers are started before the process so no output from
		// fast-running commands is missed
		pumps.Add(2)
		go func() {
			defer pumps.Done()
			pumpLines(stdoutPipe, outStream, outSession)
		}()
		go func() {
			defer pumps.Done()
			pumpLines(stderrPipe, errStream, errSession)
		}()

		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start command: %w", err)
		}
	}

	var sampler *procinfo.Sampler
	if opts.Stats {
		var err error
		sampler, err = procinfo.NewSampler(int32(cmd.Process.Pid), statsInterval)
		if err != nil {
			slog.Warn("Failed to start process sampler", "error", err)
		}
	}

	// Drain both pumps before waiting so no trailing output is lost
	pumps.Wait()

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			if sampler != nil {
				sampler.Stop()
			}
			return nil, fmt.Errorf("command failed: %w", err)
		}
	}

	result := &Result{
		ExitCode: exitCode,
		Duration: time.Since(start),
	}
	if sampler != nil {
		summary := sampler.Stop()
		result.Stats = &summary
	}

	return result, nil
}

// pumpLines writes each output line through the stream's intercepted write
// path and flushes once per line. A trailing carriage return is trimmed so
// PTY output produces the same lines as pipe output.
//
// The pump must consume the reader until EOF, whatever the child emits: if
// it stopped early the child would block writing to a pipe nobody reads,
// and Run would never return.
func pumpLines(r io.Reader, stream *streamlog.Var, session *streamlog.Session) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSuffix(scanner.Bytes(), []byte("\r"))
		_, _ = stream.Write(line)
		session.Flush()
	}

	// An oversized line aborts the scanner; keep draining unframed, in
	// chunks, until the child closes its end
	if err := scanner.Err(); err != nil {
		slog.Warn("Output line exceeded the scan buffer, draining unframed", "error", err)
		buf := make([]byte, 64*1024)
		for {
			n, rerr := r.Read(buf)
			if n > 0 {
				_, _ = stream.Write(buf[:n])
				session.Flush()
			}
			if rerr != nil {
				return
			}
		}
	}
}
