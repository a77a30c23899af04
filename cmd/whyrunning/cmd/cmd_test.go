package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/jrcribb/whyrunning/internal/config"
)

func TestRootCmd_Structure(t *testing.T) {
	if rootCmd.Use != "whyrunning" {
		t.Errorf("expected 'whyrunning', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected non-empty short description")
	}
	if !rootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be set")
	}
}

func TestSubcommands_Registered(t *testing.T) {
	for _, use := range []string{"demo", "fetch", "init", "version"} {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Use == use {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s command not registered", use)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc", "today")
	defer SetVersion("", "", "")

	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("GetVersion() = %q, want %q", got, "1.2.3")
	}
}

func TestReportURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		sys  bool
		all  bool
		want string
	}{
		{
			name: "bare host gets http scheme",
			addr: "127.0.0.1:6060",
			want: "http://127.0.0.1:6060/debug/whyrunning",
		},
		{
			name: "trailing slash is trimmed",
			addr: "http://10.0.0.7:6060/",
			want: "http://10.0.0.7:6060/debug/whyrunning",
		},
		{
			name: "sys endpoint",
			addr: "example.com:6060",
			sys:  true,
			want: "http://example.com:6060/debug/whyrunning/sys",
		},
		{
			name: "all records",
			addr: "example.com:6060",
			all:  true,
			want: "http://example.com:6060/debug/whyrunning?all=1",
		},
		{
			name: "sys wins over all",
			addr: "example.com:6060",
			sys:  true,
			all:  true,
			want: "http://example.com:6060/debug/whyrunning/sys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportURL(tt.addr, tt.sys, tt.all)
			if err != nil {
				t.Fatalf("reportURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("reportURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportURL_EmptyAddr(t *testing.T) {
	if _, err := reportURL("", false, false); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestPrintReport_PlainWhenNotTerminal(t *testing.T) {
	report := "There are 1 handle(s) keeping the process running.\n\n# Timer\napp.go:3 - leak()\n"

	var buf bytes.Buffer
	printReport(&buf, report)

	if buf.String() != report {
		t.Errorf("piped output must be byte-identical:\ngot  %q\nwant %q", buf.String(), report)
	}
}

func TestUseColor_NoColorFlag(t *testing.T) {
	noColor = true
	defer func() { noColor = false }()

	if useColor(os.Stdout) {
		t.Error("useColor() = true with --no-color set")
	}
}

func TestPrintSys_IndentsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printSys(&buf, []byte(`{"pid":42,"goroutines":7}`+"\n")); err != nil {
		t.Fatalf("printSys() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\"pid\": 42") {
		t.Errorf("output not indented:\n%s", out)
	}
}

func TestPrintSys_RejectsBadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printSys(&buf, []byte("not json")); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestRunInit_WritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	if _, err := os.Stat(config.DefaultFileName); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second run must refuse to clobber the file.
	if err := runInit(nil, nil); err == nil {
		t.Error("expected error when configuration already exists")
	}

	initForce = true
	defer func() { initForce = false }()
	if err := runInit(nil, nil); err != nil {
		t.Errorf("runInit() with --force error = %v", err)
	}
}
