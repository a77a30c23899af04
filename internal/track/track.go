// Package track maintains the registry of live asynchronous handles.
//
// A host (the handles package, or anything else that creates background
// work) reports handle creation and destruction to a Tracker. Each live
// entry keeps the handle's type tag, the call stack of its creation site,
// and a Probe through which liveness can be checked later without the
// registry itself keeping the handle reachable.
package track

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jrcribb/whyrunning/internal/stack"
)

// Probe is the narrow view a host grants the tracker over one handle.
// Implementations must not hold a strong reference to the handle; a probe
// that does would keep collectable handles alive forever. Probes may be
// called from any goroutine and must not panic.
type Probe interface {
	// Alive reports whether the underlying handle still exists.
	Alive() bool
}

// RefProbe is implemented by probes that can also report whether their
// handle is currently holding the process open. Handles whose probe lacks
// this capability are assumed to be holding: a diagnostic that overlooks
// a real culprit is worse than one that names an extra suspect.
type RefProbe interface {
	Probe

	// HasRef reports whether the handle still keeps the process running.
	// Unref'd, stopped, and closed handles return false.
	HasRef() bool
}

// Record describes one tracked handle.
type Record struct {
	// ID is the host-assigned identifier, unique among live entries.
	ID uint64

	// Type is the handle's type tag, e.g. "Timer" or "TCPListener".
	Type string

	// TriggerID identifies the handle whose callback created this one,
	// or 0 when the creation context is unknown.
	TriggerID uint64

	// Probe answers liveness queries for the handle. May be nil, in
	// which case the handle is assumed live and holding.
	Probe Probe

	// Stack is the creation-site call stack, innermost frame first.
	Stack []stack.Frame
}

// Active reports whether the record's handle still exists and is holding
// the process open. Records without a probe count as active.
func (r Record) Active() bool {
	if r.Probe == nil {
		return true
	}
	if !r.Probe.Alive() {
		return false
	}
	if rp, ok := r.Probe.(RefProbe); ok {
		return rp.HasRef()
	}
	return true
}

// Active filters records down to those whose handles are still alive and
// holding the process open. Order is preserved.
func Active(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// ignoredTypes are tags some hosts report in large numbers for work that
// never holds the process open on its own. Tracking them would bury the
// report in noise, so they are dropped at the door.
var ignoredTypes = map[string]struct{}{
	"TIMERWRAP":           {},
	"PROMISE":             {},
	"PerformanceObserver": {},
	"RANDOMBYTESREQUEST":  {},
}

// Ignored reports whether handles of the given type tag are excluded from
// tracking.
func Ignored(typ string) bool {
	_, ok := ignoredTypes[typ]
	return ok
}

// Tracker is a registry of live handles. The zero value is not usable;
// construct with New. All methods are safe for concurrent use.
type Tracker struct {
	enabled atomic.Bool
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[uint64]Record
	order   []uint64
}

// New returns a Tracker that immediately accepts Init and Destroy
// notifications. A nil logger disables the tracker's own logging.
func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Tracker{
		logger:  logger,
		entries: make(map[uint64]Record),
	}
	t.enabled.Store(true)
	return t
}

// Init records a newly created handle. The creation stack is captured at
// the call site of Init. Calls made while the tracker is disabled, and
// calls for ignored types, are dropped. Init never panics.
func (t *Tracker) Init(id uint64, typ string, triggerID uint64, probe Probe) {
	if !t.enabled.Load() || Ignored(typ) {
		return
	}
	t.insert(Record{
		ID:        id,
		Type:      typ,
		TriggerID: triggerID,
		Probe:     probe,
		Stack:     stack.Capture(1),
	})
}

// InitWithStack is Init for hosts that capture the creation stack
// themselves, typically to trim their own plumbing frames from it.
func (t *Tracker) InitWithStack(id uint64, typ string, triggerID uint64, probe Probe, frames []stack.Frame) {
	if !t.enabled.Load() || Ignored(typ) {
		return
	}
	t.insert(Record{
		ID:        id,
		Type:      typ,
		TriggerID: triggerID,
		Probe:     probe,
		Stack:     frames,
	})
}

func (t *Tracker) insert(rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[rec.ID]; exists {
		// Host reused an identifier without reporting destruction.
		// The newer handle wins; it keeps the original position.
		t.logger.Debug("replacing tracked handle", "id", rec.ID, "type", rec.Type)
	} else {
		t.order = append(t.order, rec.ID)
	}
	t.entries[rec.ID] = rec
}

// Destroy removes the handle with the given id. Unknown ids and calls
// made while the tracker is disabled are ignored.
func (t *Tracker) Destroy(id uint64) {
	if !t.enabled.Load() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[id]; !ok {
		return
	}
	delete(t.entries, id)
	t.compactLocked()
}

// compactLocked prunes destroyed ids from the order slice once it grows
// well past the live entry count. Amortizes to O(1) per Destroy.
func (t *Tracker) compactLocked() {
	if len(t.order) <= 2*len(t.entries)+16 {
		return
	}
	kept := t.order[:0]
	for _, id := range t.order {
		if _, ok := t.entries[id]; ok {
			kept = append(kept, id)
		}
	}
	t.order = kept
}

// Disable stops the tracker from accepting further Init and Destroy
// notifications. Entries already recorded are retained so they can still
// be reported; their probes keep answering liveness queries.
func (t *Tracker) Disable() {
	if t.enabled.CompareAndSwap(true, false) {
		t.logger.Debug("handle tracking disabled")
	}
}

// Enable resumes notification handling after Disable.
func (t *Tracker) Enable() {
	if t.enabled.CompareAndSwap(false, true) {
		t.logger.Debug("handle tracking enabled")
	}
}

// Enabled reports whether the tracker is accepting notifications.
func (t *Tracker) Enabled() bool {
	return t.enabled.Load()
}

// Len returns the number of tracked entries, live or not.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Snapshot returns the tracked records in insertion order. The slice is
// freshly allocated; mutating it does not affect the tracker.
func (t *Tracker) Snapshot() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, 0, len(t.entries))
	seen := make(map[uint64]struct{}, len(t.entries))
	for _, id := range t.order {
		if _, dup := seen[id]; dup {
			continue
		}
		rec, ok := t.entries[id]
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

var defaultTracker = New(nil)

// Default returns the process-wide tracker. It is enabled from program
// start, so handles created by the handles package are tracked without
// any setup.
func Default() *Tracker {
	return defaultTracker
}
