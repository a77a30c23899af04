package web

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/jrcribb/whyrunning/internal/track"
)

// SysInfo is a point-in-time snapshot of the process, served next to the
// handle report so a reader can tell a stuck-but-idle process from a
// busy one.
type SysInfo struct {
	PID             int     `json:"pid"`
	Goroutines      int     `json:"goroutines"`
	Threads         int32   `json:"threads"`
	OpenFDs         int32   `json:"open_fds"`
	RSSBytes        uint64  `json:"rss_bytes"`
	CPUPercent      float64 `json:"cpu_percent"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	Load1           float64 `json:"load1"`
	TrackedHandles  int     `json:"tracked_handles"`
	OpenHandles     int     `json:"open_handles"`
	TrackingEnabled bool    `json:"tracking_enabled"`
}

func (h *DebugHandler) handleSys(w http.ResponseWriter, _ *http.Request) {
	info := h.collectSys()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		h.logger.Debug("writing sys response", "error", err)
	}
}

// collectSys gathers best-effort process statistics. Fields that cannot
// be read on the platform stay zero.
func (h *DebugHandler) collectSys() SysInfo {
	info := SysInfo{
		PID:             os.Getpid(),
		Goroutines:      runtime.NumGoroutine(),
		TrackedHandles:  h.tracker.Len(),
		OpenHandles:     len(track.Active(h.tracker.Snapshot())),
		TrackingEnabled: h.tracker.Enabled(),
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if n, err := p.NumThreads(); err == nil {
			info.Threads = n
		}
		if n, err := p.NumFDs(); err == nil {
			info.OpenFDs = n
		}
		if m, err := p.MemoryInfo(); err == nil && m != nil {
			info.RSSBytes = m.RSS
		}
		if c, err := p.CPUPercent(); err == nil {
			info.CPUPercent = c
		}
		if ct, err := p.CreateTime(); err == nil {
			info.UptimeSeconds = int64(time.Since(time.UnixMilli(ct)).Seconds())
		}
	} else {
		h.logger.Debug("process stats unavailable", "error", err)
	}

	if avg, err := load.Avg(); err == nil && avg != nil {
		info.Load1 = avg.Load1
	}

	return info
}
