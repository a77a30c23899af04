// Package whyrunning explains why a Go process is still running.
//
// The package keeps a process-wide registry of asynchronous handles:
// timers, tickers, listeners, connections, files, and plain goroutines
// created through the handles subpackage. Each registration records the
// call stack of its creation site. When a process that should have
// exited is still alive, Dump prints every handle that is holding it
// open, with the file and line where the handle was created:
//
//	There are 2 handle(s) keeping the process running.
//
//	# Ticker
//	demo/main.go:14 - poll := handles.NewTicker(time.Second)
//
//	# TCPListener
//	demo/main.go:21 - ln, err := handles.Listen("tcp", addr)
//
// Dump is a one-shot diagnostic. It disables tracking before reporting,
// so the first call gives the authoritative answer and later calls can
// only see that set shrink.
package whyrunning

import (
	"io"
	"log/slog"
	"os"

	"github.com/jrcribb/whyrunning/internal/report"
	"github.com/jrcribb/whyrunning/internal/track"
)

type options struct {
	sink    Sink
	workDir string
	tracker *track.Tracker
}

// Option adjusts how Dump reports.
type Option func(*options)

// WithSink sends report lines to s instead of standard error.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithWriter sends report lines to w, newline terminated.
func WithWriter(w io.Writer) Option {
	return WithSink(WriterSink(w))
}

// WithLogger emits report lines as error-level records on l.
func WithLogger(l *slog.Logger) Option {
	return WithSink(SlogSink(l))
}

// WithWorkDir shortens file paths under dir to relative form. The
// default is the current working directory.
func WithWorkDir(dir string) Option {
	return func(o *options) { o.workDir = dir }
}

// withTracker substitutes the registry Dump reads. Tests construct their
// own trackers so they never disable the process-wide one.
func withTracker(t *track.Tracker) Option {
	return func(o *options) { o.tracker = t }
}

// Dump writes a report of every handle currently keeping the process
// running. Tracking is disabled first and stays disabled: handles
// created after Dump returns are not recorded, and entries are no
// longer removed when their handles close. Handles that have been
// collected or unref'd are filtered out of the report.
func Dump(opts ...Option) {
	o := options{tracker: track.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = WriterSink(os.Stderr)
	}

	o.tracker.Disable()
	records := track.Active(o.tracker.Snapshot())

	r := report.New()
	if o.workDir != "" {
		r.WorkDir = o.workDir
	}
	r.Render(records, o.sink)
}
