package capture

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"logtap/pkg/streamlog"
)

// call records one sink invocation
type call struct {
	level string
	msg   string
}

// recordingSink collects invocations; safe for use from the pump goroutine
type recordingSink struct {
	mu    sync.Mutex
	calls []call
}

func (s *recordingSink) add(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{level: level, msg: msg})
}

func (s *recordingSink) Debug(msg string) { s.add("debug", msg) }
func (s *recordingSink) Info(msg string)  { s.add("info", msg) }
func (s *recordingSink) Error(msg string) { s.add("error", msg) }

func (s *recordingSink) all() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func TestStdoutCapture(t *testing.T) {
	orig := os.Stdout
	console := &recordingSink{}
	persistent := &recordingSink{}

	capt, err := Stdout(streamlog.LevelInfo, console, persistent)
	require.NoError(t, err)

	fmt.Println("captured line")
	fmt.Println("another one")

	require.NoError(t, capt.Close())
	require.Same(t, orig, os.Stdout)

	calls := persistent.all()
	require.Len(t, calls, 2)
	require.Equal(t, "info", calls[0].level)
	require.Equal(t, "captured line", calls[0].msg)
	require.Equal(t, "another one", calls[1].msg)

	lead, trail := streamlog.Decoration(streamlog.LevelInfo)
	consoleCalls := console.all()
	require.Len(t, consoleCalls, 2)
	require.Equal(t, lead+"captured line"+trail, consoleCalls[0].msg)
}

func TestStderrCapture(t *testing.T) {
	orig := os.Stderr
	console := &recordingSink{}
	persistent := &recordingSink{}

	capt, err := Stderr(streamlog.LevelError, console, persistent)
	require.NoError(t, err)

	fmt.Fprintln(os.Stderr, "something failed")

	require.NoError(t, capt.Close())
	require.Same(t, orig, os.Stderr)

	calls := persistent.all()
	require.Len(t, calls, 1)
	require.Equal(t, "error", calls[0].level)
	require.Equal(t, "something failed", calls[0].msg)
}

func TestStdoutCaptureLongLine(t *testing.T) {
	console := &recordingSink{}
	persistent := &recordingSink{}

	capt, err := Stdout(streamlog.LevelInfo, console, persistent)
	require.NoError(t, err)

	long := strings.Repeat("x", 200*1024)
	fmt.Println(long)
	fmt.Println("after the long one")

	require.NoError(t, capt.Close())

	calls := persistent.all()
	require.Len(t, calls, 2)
	require.Equal(t, long, calls[0].msg)
	require.Equal(t, "after the long one", calls[1].msg)
}

func TestStdoutCaptureSurvivesOversizedLine(t *testing.T) {
	persistent := &recordingSink{}

	capt, err := Stdout(streamlog.LevelInfo, &recordingSink{}, persistent)
	require.NoError(t, err)

	// Writes to the captured stream must complete even when a single
	// line exceeds the scan buffer; a stalled pump would block every
	// later print in the process once the pipe buffer fills.
	done := make(chan struct{})
	go func() {
		defer close(done)
		fmt.Println(strings.Repeat("y", 2*1024*1024))
		fmt.Println("still alive")
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("stdout writes blocked after an oversized line")
	}

	require.NoError(t, capt.Close())
	require.NotEmpty(t, persistent.all())
}

func TestCaptureCloseIsIdempotent(t *testing.T) {
	orig := os.Stdout

	capt, err := Stdout(streamlog.LevelDebug, &recordingSink{}, &recordingSink{})
	require.NoError(t, err)

	require.NoError(t, capt.Close())
	require.NoError(t, capt.Close())
	require.Same(t, orig, os.Stdout)
}

func TestCapturePassthroughBypassesSinks(t *testing.T) {
	orig := os.Stdout
	persistent := &recordingSink{}

	capt, err := Stdout(streamlog.LevelInfo, &recordingSink{}, persistent)
	require.NoError(t, err)

	// Passthrough reaches the pre-capture destination directly, without
	// producing sink invocations
	require.Same(t, orig, capt.Session().Passthrough())

	_, err = capt.Session().Passthrough().Write([]byte("passthrough line\n"))
	require.NoError(t, err)

	require.NoError(t, capt.Close())
	require.Empty(t, persistent.all())
}
