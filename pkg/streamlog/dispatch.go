package streamlog

// ANSI markers wrapped around the console copy of each dispatched line. The
// persistent copy always stays plain.
const (
	markerReset  = "\x1b[00m"
	markerYellow = "\x1b[93m"
	markerRed    = "\x1b[91m"
)

// Decoration returns the leading and trailing markers the console copy of a
// line is wrapped in for the given level.
func Decoration(l Level) (lead, trail string) {
	switch l {
	case LevelInfo:
		return markerYellow, markerReset
	case LevelError:
		return markerRed, markerReset
	default:
		return markerReset, markerReset
	}
}

// dispatcher maps a level to the flush handler invoked with the accumulated
// text of each flush. The mapping is evaluated once, at session construction.
// The handler always invokes the console sink first, with the decorated
// text, then the persistent sink with the plain text.
//
// Levels outside the closed set fall back to the info handler.
func dispatcher(l Level, console, persistent Sink) func(msg string) {
	lead, trail := Decoration(l)
	switch l {
	case LevelDebug:
		return func(msg string) {
			console.Debug(lead + msg + trail)
			persistent.Debug(msg)
		}
	case LevelError:
		return func(msg string) {
			console.Error(lead + msg + trail)
			persistent.Error(msg)
		}
	default:
		return func(msg string) {
			console.Info(lead + msg + trail)
			persistent.Info(msg)
		}
	}
}
