package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jrcribb/whyrunning/internal/track"
)

type fakeProbe struct {
	alive bool
	ref   bool
}

func (p fakeProbe) Alive() bool  { return p.alive }
func (p fakeProbe) HasRef() bool { return p.ref }

func TestCollectorReportsGauges(t *testing.T) {
	t.Parallel()

	tr := track.New(nil)
	tr.InitWithStack(1, "Timer", 0, fakeProbe{alive: true, ref: true}, nil)
	tr.InitWithStack(2, "Timer", 0, fakeProbe{alive: true, ref: true}, nil)
	tr.InitWithStack(3, "TCPListener", 0, fakeProbe{alive: true, ref: true}, nil)
	tr.InitWithStack(4, "Timer", 0, fakeProbe{alive: true, ref: false}, nil)
	tr.InitWithStack(5, "Conn", 0, fakeProbe{alive: false, ref: true}, nil)

	expected := `
# HELP whyrunning_open_handles Handles that are alive and ref'd, keeping the process running, by type.
# TYPE whyrunning_open_handles gauge
whyrunning_open_handles{type="TCPListener"} 1
whyrunning_open_handles{type="Timer"} 2
# HELP whyrunning_tracked_handles Entries currently held in the handle registry.
# TYPE whyrunning_tracked_handles gauge
whyrunning_tracked_handles 5
# HELP whyrunning_tracking_enabled Whether handle creations and destructions are being recorded.
# TYPE whyrunning_tracking_enabled gauge
whyrunning_tracking_enabled 1
`

	if err := testutil.CollectAndCompare(newCollector(tr), strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}
}

func TestCollectorDisabledTracking(t *testing.T) {
	t.Parallel()

	tr := track.New(nil)
	tr.InitWithStack(1, "Timer", 0, fakeProbe{alive: true, ref: true}, nil)
	tr.Disable()

	expected := `
# HELP whyrunning_open_handles Handles that are alive and ref'd, keeping the process running, by type.
# TYPE whyrunning_open_handles gauge
whyrunning_open_handles{type="Timer"} 1
# HELP whyrunning_tracked_handles Entries currently held in the handle registry.
# TYPE whyrunning_tracked_handles gauge
whyrunning_tracked_handles 1
# HELP whyrunning_tracking_enabled Whether handle creations and destructions are being recorded.
# TYPE whyrunning_tracking_enabled gauge
whyrunning_tracking_enabled 0
`

	if err := testutil.CollectAndCompare(newCollector(tr), strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}
}

func TestCollectorEmptyRegistry(t *testing.T) {
	t.Parallel()

	c := newCollector(track.New(nil))

	if got := testutil.CollectAndCount(c, "whyrunning_open_handles"); got != 0 {
		t.Errorf("open_handles series = %d, want 0", got)
	}

	expected := `
# HELP whyrunning_tracked_handles Entries currently held in the handle registry.
# TYPE whyrunning_tracked_handles gauge
whyrunning_tracked_handles 0
# HELP whyrunning_tracking_enabled Whether handle creations and destructions are being recorded.
# TYPE whyrunning_tracking_enabled gauge
whyrunning_tracking_enabled 1
`

	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"whyrunning_tracked_handles", "whyrunning_tracking_enabled")
	if err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}
}

func TestCollectorRegisters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(newCollector(track.New(nil))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := reg.Gather(); err != nil {
		t.Errorf("Gather() error = %v", err)
	}
}

func TestCollectorLint(t *testing.T) {
	t.Parallel()

	problems, err := testutil.CollectAndLint(NewCollector())
	if err != nil {
		t.Fatalf("CollectAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
