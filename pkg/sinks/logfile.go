package sinks

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"logtap/pkg/streamlog"
)

// record is one leveled line queued for the log file
type record struct {
	level streamlog.Level
	msg   string
}

// LogFile is the persistent sink: an append-only log file owned by a single
// writer goroutine fed through a channel, so sessions flushing from
// different goroutines share one file without interleaving records.
type LogFile struct {
	file    *os.File
	records chan record
	done    chan struct{}
}

var _ streamlog.Sink = &LogFile{}

// NewLogFile opens path in append mode with synchronous writes, creating it
// if needed, and starts the writer goroutine. app becomes the record prefix.
// The writer goroutine runs until Close is called.
func NewLogFile(path, app string) (*LogFile, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND|os.O_SYNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          app,
	})

	lf := &LogFile{
		file:    file,
		records: make(chan record, 100),
		done:    make(chan struct{}),
	}

	// Single goroutine that owns the file
	go func() {
		defer close(lf.done)
		for r := range lf.records {
			switch r.level {
			case streamlog.LevelDebug:
				logger.Debug(r.msg)
			case streamlog.LevelError:
				logger.Error(r.msg)
			default:
				logger.Info(r.msg)
			}
		}
	}()

	return lf, nil
}

func (l *LogFile) Debug(msg string) { l.records <- record{level: streamlog.LevelDebug, msg: msg} }
func (l *LogFile) Info(msg string)  { l.records <- record{level: streamlog.LevelInfo, msg: msg} }
func (l *LogFile) Error(msg string) { l.records <- record{level: streamlog.LevelError, msg: msg} }

// Close waits for all queued records to reach the file, stops the writer
// goroutine and closes the file.
func (l *LogFile) Close() error {
	close(l.records)
	<-l.done
	return l.file.Close()
}
