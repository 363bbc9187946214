package streamlog

import (
	"fmt"
	"strings"
)

// Level is the severity a session is bound to. It is fixed for the session's
// lifetime and selects both the console decoration and the sink operation
// invoked on each flush.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name (case-insensitive): "debug", "info",
// "error" (or "err").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "error", "err":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown level: %q", s)
}
