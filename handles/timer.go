package handles

import "time"

// Timer is a tracked variant of time.Timer.
type Timer struct {
	// C delivers the single tick for timers made with NewTimer. It is
	// nil for timers made with AfterFunc.
	C <-chan time.Time

	t *time.Timer
	*life
}

// NewTimer returns a timer that fires once after d, tracked until it is
// stopped, unref'd, or unreachable. A fired timer that is never stopped
// keeps being reported for as long as something still references it.
func NewTimer(d time.Duration) *Timer {
	t := time.NewTimer(d)
	h := &Timer{C: t.C, t: t, life: &life{}}
	register(TypeTimer, h, h.life)
	return h
}

// AfterFunc runs f in its own goroutine after d, like time.AfterFunc.
// The handle removes itself from tracking once f returns.
func AfterFunc(d time.Duration, f func()) *Timer {
	h := &Timer{life: &life{}}
	register(TypeTimer, h, h.life)
	h.t = time.AfterFunc(d, func() {
		defer deregister(h.life)
		f()
	})
	return h
}

// Stop prevents the timer from firing and ends tracking, reporting
// whether the stop preempted the timer. A stopped handle stays off the
// report even if Reset rearms the underlying timer.
func (t *Timer) Stop() bool {
	stopped := t.t.Stop()
	deregister(t.life)
	return stopped
}

// Reset rearms the timer, as time.Timer.Reset.
func (t *Timer) Reset(d time.Duration) bool {
	return t.t.Reset(d)
}

// Ticker is a tracked variant of time.Ticker.
type Ticker struct {
	C <-chan time.Time

	t *time.Ticker
	*life
}

// NewTicker returns a ticker delivering ticks every d, tracked until it
// is stopped, unref'd, or unreachable.
func NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	h := &Ticker{C: t.C, t: t, life: &life{}}
	register(TypeTicker, h, h.life)
	return h
}

// Stop turns off the ticker and ends tracking.
func (t *Ticker) Stop() {
	t.t.Stop()
	deregister(t.life)
}

// Reset changes the tick interval, as time.Ticker.Reset.
func (t *Ticker) Reset(d time.Duration) {
	t.t.Reset(d)
}
