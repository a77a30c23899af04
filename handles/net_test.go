package handles

import (
	"net"
	"testing"

	"github.com/jrcribb/whyrunning/internal/track"
)

func TestListenerTrackedUntilClose(t *testing.T) {
	h, err := Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	id := h.life.id

	rec, ok := findRecord(id)
	if !ok {
		t.Fatal("listener not tracked")
	}
	if rec.Type != TypeTCPListener {
		t.Errorf("type = %q, want %q", rec.Type, TypeTCPListener)
	}
	if !rec.Active() {
		t.Error("open listener should be active")
	}

	if err := h.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, ok := findRecord(id); ok {
		t.Error("closed listener still tracked")
	}
}

func TestListenerType(t *testing.T) {
	tests := []struct {
		network string
		want    string
	}{
		{"tcp", TypeTCPListener},
		{"tcp4", TypeTCPListener},
		{"tcp6", TypeTCPListener},
		{"unix", TypeUnixListener},
		{"unixpacket", TypeUnixListener},
		{"udp", TypeListener},
	}
	for _, tt := range tests {
		if got := listenerType(tt.network); got != tt.want {
			t.Errorf("listenerType(%q) = %q, want %q", tt.network, got, tt.want)
		}
	}
}

func TestConnTrackedUntilClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			c.Close()
		}
	}()

	h, err := Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	id := h.life.id

	rec, ok := findRecord(id)
	if !ok {
		t.Fatal("connection not tracked")
	}
	if rec.Type != TypeConn {
		t.Errorf("type = %q, want %q", rec.Type, TypeConn)
	}

	if err := h.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, ok := findRecord(id); ok {
		t.Error("closed connection still tracked")
	}
}

func TestDialFailureTracksNothing(t *testing.T) {
	before := make(map[uint64]struct{})
	for _, rec := range track.Default().Snapshot() {
		before[rec.ID] = struct{}{}
	}

	if _, err := Dial("tcp", "127.0.0.1:1"); err == nil {
		t.Skip("something is listening on port 1")
	}

	for _, rec := range track.Default().Snapshot() {
		if _, ok := before[rec.ID]; !ok && rec.Type == TypeConn {
			t.Errorf("failed dial left record %d tracked", rec.ID)
		}
	}
}
