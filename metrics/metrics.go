// Package metrics exposes the handle registry as prometheus gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrcribb/whyrunning/internal/track"
)

// Collector derives gauges from a registry snapshot on every scrape.
// Nothing is sampled between scrapes.
type Collector struct {
	tracker *track.Tracker

	open    *prometheus.Desc
	tracked *prometheus.Desc
	enabled *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector reading the process-wide tracker.
func NewCollector() *Collector {
	return newCollector(track.Default())
}

func newCollector(tr *track.Tracker) *Collector {
	return &Collector{
		tracker: tr,
		open: prometheus.NewDesc(
			"whyrunning_open_handles",
			"Handles that are alive and ref'd, keeping the process running, by type.",
			[]string{"type"}, nil,
		),
		tracked: prometheus.NewDesc(
			"whyrunning_tracked_handles",
			"Entries currently held in the handle registry.",
			nil, nil,
		),
		enabled: prometheus.NewDesc(
			"whyrunning_tracking_enabled",
			"Whether handle creations and destructions are being recorded.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.open
	ch <- c.tracked
	ch <- c.enabled
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.tracker.Snapshot()

	byType := make(map[string]int)
	for _, rec := range track.Active(snap) {
		byType[rec.Type]++
	}
	for typ, n := range byType {
		ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(n), typ)
	}

	ch <- prometheus.MustNewConstMetric(c.tracked, prometheus.GaugeValue, float64(len(snap)))

	var enabled float64
	if c.tracker.Enabled() {
		enabled = 1
	}
	ch <- prometheus.MustNewConstMetric(c.enabled, prometheus.GaugeValue, enabled)
}
