// Package web exposes the handle report over HTTP.
//
// The debug handler answers with the same text report Dump prints, but
// without disabling tracking, so it can be polled while the process
// keeps running. Mount it into an existing router or run the bundled
// Server for a standalone endpoint.
package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jrcribb/whyrunning"
	"github.com/jrcribb/whyrunning/internal/report"
	"github.com/jrcribb/whyrunning/internal/track"
)

// DebugHandler serves the handle report and a process stats snapshot.
type DebugHandler struct {
	logger  *slog.Logger
	tracker *track.Tracker
	workDir string
}

// DebugOption configures a DebugHandler.
type DebugOption func(*DebugHandler)

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) DebugOption {
	return func(h *DebugHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithWorkDir shortens report paths under dir to relative form.
func WithWorkDir(dir string) DebugOption {
	return func(h *DebugHandler) { h.workDir = dir }
}

// withTracker substitutes the registry the handler reads, for tests.
func withTracker(tr *track.Tracker) DebugOption {
	return func(h *DebugHandler) { h.tracker = tr }
}

// NewDebugHandler returns a handler reading the process-wide tracker.
func NewDebugHandler(opts ...DebugOption) *DebugHandler {
	h := &DebugHandler{
		logger:  slog.Default(),
		tracker: track.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the handler's endpoints as a mountable router:
//
//	GET /     the handle report as plain text; ?all=1 includes handles
//	          that are collected or unref'd
//	GET /sys  process statistics as JSON
func (h *DebugHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleReport)
	r.Get("/sys", h.handleSys)
	return r
}

func (h *DebugHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	records := h.tracker.Snapshot()
	if r.URL.Query().Get("all") != "1" {
		records = track.Active(records)
	}

	rend := report.New()
	if h.workDir != "" {
		rend.WorkDir = h.workDir
	}

	var buf bytes.Buffer
	rend.Render(records, whyrunning.WriterSink(&buf))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("writing report response", "error", err)
	}
}
