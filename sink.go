package whyrunning

import (
	"fmt"
	"io"
	"log/slog"
)

// Sink receives rendered report lines, one call per line. Anything with
// an error-level print method fits; WriterSink and SlogSink cover the
// common cases.
type Sink interface {
	Error(msg string)
}

// WriterSink returns a Sink that writes each line to w, newline
// terminated. Writes are best effort; a failing writer loses lines
// silently, which is acceptable for a diagnostic of last resort.
func WriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

type writerSink struct {
	w io.Writer
}

func (s writerSink) Error(msg string) {
	fmt.Fprintln(s.w, msg)
}

// SlogSink returns a Sink that emits each line as an error-level record
// on l. Useful when report output must flow through the application's
// structured logging.
func SlogSink(l *slog.Logger) Sink {
	return slogSink{l: l}
}

type slogSink struct {
	l *slog.Logger
}

func (s slogSink) Error(msg string) {
	s.l.Error(msg)
}
