package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the handle report from a running process",
	Long: `Fetch the handle report from a process serving the whyrunning web
handler and print it, with type headers highlighted when stdout is a
terminal.

Examples:
  # Fetch from the configured address (default http://127.0.0.1:6060)
  whyrunning fetch

  # Fetch from a specific process
  whyrunning fetch --addr 10.0.0.7:6060

  # Include handles that are collected or unref'd
  whyrunning fetch --all

  # Fetch the process stats snapshot instead
  whyrunning fetch --sys`,
	RunE: runFetch,
}

var (
	fetchAddr    string
	fetchTimeout time.Duration
	fetchSys     bool
	fetchAll     bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchAddr, "addr", "",
		"address of the process's debug server (default from config)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0,
		"request timeout (default from config)")
	fetchCmd.Flags().BoolVar(&fetchSys, "sys", false,
		"fetch the process stats snapshot instead of the report")
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false,
		"include handles that are collected or unref'd")
}

func runFetch(cc *cobra.Command, _ []string) error {
	addr := fetchAddr
	if addr == "" {
		addr = cfg.Fetch.Addr
	}
	timeout := fetchTimeout
	if timeout == 0 {
		timeout = cfg.Fetch.Timeout
	}

	url, err := reportURL(addr, fetchSys, fetchAll)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cc.Context(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching report: %s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if fetchSys {
		return printSys(os.Stdout, body)
	}
	printReport(os.Stdout, string(body))
	return nil
}

// reportURL builds the endpoint URL from a configured or flag-given
// address that may omit the scheme.
func reportURL(addr string, sys, all bool) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("no address: set --addr or fetch.addr in the config")
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	u := strings.TrimRight(addr, "/") + "/debug/whyrunning"
	switch {
	case sys:
		u += "/sys"
	case all:
		u += "?all=1"
	}
	return u, nil
}

func printSys(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return fmt.Errorf("decoding stats: %w", err)
	}
	fmt.Fprintln(w, buf.String())
	return nil
}

var (
	styleSummary = lipgloss.NewStyle().Bold(true)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
)

// printReport writes the report, highlighting the summary and the type
// headers. Plain passthrough when stdout is not a terminal or --no-color
// is set, so piped output stays byte-identical to the server's.
func printReport(w io.Writer, report string) {
	if !useColor(w) {
		fmt.Fprint(w, report)
		return
	}

	for _, line := range strings.Split(strings.TrimRight(report, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			fmt.Fprintln(w, styleHeader.Render(line))
		case strings.HasPrefix(line, "There are "):
			fmt.Fprintln(w, styleSummary.Render(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func useColor(w io.Writer) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
