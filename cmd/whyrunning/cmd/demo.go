package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jrcribb/whyrunning"
	"github.com/jrcribb/whyrunning/handles"
	"github.com/jrcribb/whyrunning/web"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Spawn leaky handles and report what keeps the process alive",
	Long: `Create a deliberately leaky set of handles (a ticker, timers, a TCP
listener, a background goroutine) and show how they are reported.

By default the demo waits a moment and then dumps the report to stderr.
With --listen it serves the report over HTTP instead, so it can be
inspected from another terminal with 'whyrunning fetch' while handles
keep churning.

Examples:
  # Dump the report after two seconds
  whyrunning demo

  # Serve the report until interrupted
  whyrunning demo --listen --port 6060`,
	RunE: runDemo,
}

var (
	demoListen    bool
	demoHost      string
	demoPort      int
	demoDumpAfter time.Duration
)

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().BoolVar(&demoListen, "listen", false,
		"serve the report over HTTP instead of dumping once")
	demoCmd.Flags().StringVar(&demoHost, "host", "",
		"host address to bind (default from config)")
	demoCmd.Flags().IntVarP(&demoPort, "port", "p", 0,
		"port to listen on (default from config)")
	demoCmd.Flags().DurationVar(&demoDumpAfter, "dump-after", 2*time.Second,
		"how long to wait before dumping")
}

// demoLeaks pins the leaked handles in a package variable so the
// collector cannot reclaim them behind the report's back.
type demoLeaks struct {
	poll *handles.Ticker
	wait *handles.Timer
	idle *handles.Timer
	ln   *handles.Listener
	bg   *handles.Task
}

var leaks demoLeaks

func runDemo(cc *cobra.Command, _ []string) error {
	if err := leakHandles(); err != nil {
		return err
	}

	if demoListen {
		return serveDemo(cc.Context())
	}

	logger.Info("waiting before dump", slog.Duration("delay", demoDumpAfter))
	select {
	case <-time.After(demoDumpAfter):
	case <-cc.Context().Done():
	}

	opts := []whyrunning.Option{}
	if cfg.Report.WorkDir != "" {
		opts = append(opts, whyrunning.WithWorkDir(cfg.Report.WorkDir))
	}
	whyrunning.Dump(opts...)
	return nil
}

func leakHandles() error {
	leaks.poll = handles.NewTicker(500 * time.Millisecond)
	leaks.bg = handles.Go(func() {
		for range leaks.poll.C {
		}
	})

	leaks.wait = handles.NewTimer(time.Hour)

	// Unref'd handles stay tracked but never show up in the report.
	leaks.idle = handles.NewTimer(time.Hour)
	leaks.idle.Unref()

	ln, err := handles.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("leaking listener: %w", err)
	}
	leaks.ln = ln

	logger.Info("leaked handles",
		slog.String("listener", ln.Addr().String()),
		slog.String("types", "Ticker, Timer x2, TCPListener, Task"),
	)
	return nil
}

func serveDemo(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srvCfg := web.DefaultConfig()
	srvCfg.Host = cfg.Server.Host
	srvCfg.Port = cfg.Server.Port
	srvCfg.EnableCORS = cfg.Server.EnableCORS
	srvCfg.CORSOrigins = cfg.Server.CORSOrigins
	if demoHost != "" {
		srvCfg.Host = demoHost
	}
	if demoPort != 0 {
		srvCfg.Port = demoPort
	}

	debug := web.NewDebugHandler(
		web.WithLogger(logger),
		web.WithWorkDir(cfg.Report.WorkDir),
	)
	server := web.New(srvCfg, logger, debug)

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	logger.Info("demo server started",
		slog.String("report", fmt.Sprintf("http://%s/debug/whyrunning", server.Addr())),
		slog.String("sys", fmt.Sprintf("http://%s/debug/whyrunning/sys", server.Addr())),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		churnHandles(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})
	return g.Wait()
}

// churnHandles keeps short-lived handles flowing through the registry so
// repeated fetches show entries appearing and disappearing.
func churnHandles(ctx context.Context) {
	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			handles.AfterFunc(250*time.Millisecond, func() {})
		}
	}
}
