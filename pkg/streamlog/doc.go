// Package streamlog intercepts writes made to an output stream and re-routes
// each flushed chunk of text to two destinations: an interactive console sink
// and a persistent log sink.
//
// # Overview
//
// A Session substitutes itself as the backing writer of a Stream. Application
// code keeps writing to the stream exactly as before; the session accumulates
// the written bytes until Flush is called, then hands the accumulated text to
// both sinks in one piece. The severity level is bound once, when the session
// is created, and selects both the console decoration and the sink operation
// used for every flush.
//
// Flushing is explicit. Newline characters are ordinary buffered content, so
// a caller controls exactly when a partial write becomes a dispatched line.
// Closing the session restores the writer that was active before the session
// was installed. Sessions may be chained on the same stream; each one
// restores its own immediate predecessor.
//
// # Typical use
//
//	console := sinks.NewConsole(os.Stdout, "myapp")
//	logfile, err := sinks.NewLogFile("myapp.log", "myapp")
//	if err != nil {
//		return err
//	}
//	defer logfile.Close()
//
//	stream := streamlog.StdLogger{L: log.Default()}
//	session := streamlog.New(stream, streamlog.LevelInfo, console, logfile)
//	defer session.Close()
//
// A session is not safe for concurrent use. Writes, Flush and Close must be
// ordered by the caller; for a single session, text is dispatched in the
// order it was written.
package streamlog
