package streamlog

// Sink is a destination for dispatched text: one named write operation per
// severity. Implementations report nothing back to the interception path;
// they are expected to handle their own failure modes.
//
// A sink shared by sessions that flush from different goroutines must be
// safe for concurrent use.
type Sink interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string)
}
