// Package handles wraps long-lived standard library resources with
// creation-site tracking.
//
// Every constructor here behaves like its standard library counterpart
// and additionally registers the handle with the process-wide tracker,
// recording the call stack of the creation site. Closing or stopping a
// handle removes it again. Handles that are dropped without being
// closed are removed once the garbage collector proves them
// unreachable, so forgotten handles surface in reports only while they
// genuinely exist.
//
// Ref and Unref control whether a handle counts as keeping the process
// running. A handle is reported until it is stopped, closed, unref'd,
// or collected.
package handles

import (
	"runtime"
	"sync/atomic"

	"github.com/jrcribb/whyrunning/internal/stack"
	"github.com/jrcribb/whyrunning/internal/track"
)

// Type tags under which handles are registered.
const (
	TypeTimer        = "Timer"
	TypeTicker       = "Ticker"
	TypeTCPListener  = "TCPListener"
	TypeUnixListener = "UnixListener"
	TypeListener     = "Listener"
	TypeConn         = "Conn"
	TypeFile         = "File"
	TypeTask         = "Task"
)

var lastID atomic.Uint64

// life is the tracked fraction of a handle. It is allocated separately
// from the handle struct so probes can hold it strongly without keeping
// the handle itself reachable.
type life struct {
	id    uint64
	unref atomic.Bool
	done  atomic.Bool
}

// Ref marks the handle as keeping the process running again after an
// Unref. Handles start ref'd.
func (l *life) Ref() { l.unref.Store(false) }

// Unref excludes the handle from reports without closing it. Use for
// background work that should not count as a reason the process is
// still alive.
func (l *life) Unref() { l.unref.Store(true) }

func (l *life) hasRef() bool {
	return !l.done.Load() && !l.unref.Load()
}

// register enters h into the default tracker and schedules removal for
// when h becomes unreachable. It must be called directly by the
// exported constructor; the recorded stack starts two frames up, at the
// constructor's caller.
func register[T any](typ string, h *T, l *life) {
	l.id = lastID.Add(1)
	track.Default().InitWithStack(l.id, typ, 0, newProbe(h, l), stack.Capture(2))
	runtime.AddCleanup(h, deregister, l)
}

// deregister reports the handle gone. Safe to call multiple times and
// concurrently with itself; only the first call reaches the tracker.
func deregister(l *life) {
	if l.done.CompareAndSwap(false, true) {
		track.Default().Destroy(l.id)
	}
}
