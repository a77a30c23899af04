package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrcribb/whyrunning/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "CRLF to LF",
			input: "line1\r\nline2\r\n",
			want:  "line1\nline2",
		},
		{
			name:  "trailing whitespace",
			input: "line1   \nline2\t\n",
			want:  "line1\nline2",
		},
		{
			name:  "trailing newlines",
			input: "line1\nline2\n\n\n",
			want:  "line1\nline2",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "already clean",
			input: "line1\nline2",
			want:  "line1\nline2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScrubPaths(t *testing.T) {
	in := "/tmp/x123/app.go:3 - leak()"
	want := "[WORKDIR]/app.go:3 - leak()"
	if got := testutil.ScrubPaths(in, "/tmp/x123"); got != want {
		t.Errorf("ScrubPaths() = %q, want %q", got, want)
	}
}

func TestScrubAddrs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ephemeral port",
			input: "listening on 127.0.0.1:49231",
			want:  "listening on [ADDR]",
		},
		{
			name:  "no address",
			input: "nothing to scrub",
			want:  "nothing to scrub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ScrubAddrs(tt.input); got != tt.want {
				t.Errorf("ScrubAddrs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGoldenAssertMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.golden")
	if err := os.WriteFile(path, []byte("hello\n"), 0o600); err != nil {
		t.Fatalf("writing golden fixture: %v", err)
	}

	g := testutil.NewGolden(t, dir)
	g.AssertString("report", "hello\n")
}
