// Package sinks provides ready-made sink implementations for streamlog
// sessions: an interactive console renderer and a persistent log file.
package sinks

import (
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"logtap/pkg/streamlog"
)

// Console renders dispatched lines to an interactive writer, one leveled and
// timestamped record per line. It is safe for concurrent use.
type Console struct {
	logger *log.Logger
	strip  bool
}

var _ streamlog.Sink = &Console{}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// NewConsole builds the console sink on w. app becomes the record prefix.
// When w is not a terminal, ANSI decoration is stripped from messages so
// redirected console output stays plain.
func NewConsole(w io.Writer, app string) *Console {
	logger := log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          app,
	})

	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].Foreground(lipgloss.Color("11"))
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].Foreground(lipgloss.Color("9"))
	logger.SetStyles(styles)

	strip := true
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		strip = false
	}

	return &Console{logger: logger, strip: strip}
}

func (c *Console) render(msg string) string {
	if c.strip {
		return ansiPattern.ReplaceAllString(msg, "")
	}
	return msg
}

func (c *Console) Debug(msg string) { c.logger.Debug(c.render(msg)) }
func (c *Console) Info(msg string)  { c.logger.Info(c.render(msg)) }
func (c *Console) Error(msg string) { c.logger.Error(c.render(msg)) }
