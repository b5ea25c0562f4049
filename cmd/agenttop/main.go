// agenttop is a full-screen terminal dashboard for simulated multi-agent
// traffic: agent-to-agent (A2A) messages and MCP tool invocations.
//
// It synthesizes a steady stream of events from a configurable agent roster,
// keeps the most recent ones in a bounded in-memory store, and renders the
// roster, event lists, metric tiles, and a detail view in real time.
//
// Usage:
//
//	agenttop                    # Run the dashboard with the built-in roster
//	agenttop --config <path>    # Use a specific config file
//	agenttop --seed 42          # Deterministic event stream
//	agenttop --json             # Dump a generated snapshot as JSON and exit
//	agenttop --paused           # Start with generation paused
//	agenttop --debug            # Write debug logs to agenttop.log
//	agenttop --version          # Print version and exit
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/export"
	"github.com/mkarlin/agenttop/internal/gen"
	"github.com/mkarlin/agenttop/internal/metrics"
	"github.com/mkarlin/agenttop/internal/store"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to agenttop.yaml (default: auto-discover)")
	seed := flag.Int64("seed", 0, "random seed for the event stream (0 = time-based)")
	jsonMode := flag.Bool("json", false, "generate one snapshot, print it as JSON, and exit (no TUI)")
	startPaused := flag.Bool("paused", false, "start with event generation paused")
	debug := flag.Bool("debug", false, "write debug logs to agenttop.log")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("agenttop %s\n", Version)
		os.Exit(0)
	}

	cfg, err := catalog.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agenttop: %v\n", err)
		os.Exit(1)
	}
	cat := cfg.Catalog()

	logger := zap.NewNop()
	if *debug {
		logger, err = newFileLogger("agenttop.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "agenttop: log: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	g := gen.New(cat, gen.NewRand(*seed))
	st := store.New(cfg.Store.MessageCap, cfg.Store.ToolCallCap)

	// --json mode: fill the store with one generated batch and dump it in
	// the export document format.
	if *jsonMode {
		for i := 0; i < 25; i++ {
			st.AddMessage(g.NextMessage())
		}
		for i := 0; i < 15; i++ {
			st.AddToolCall(g.NextToolCall())
		}
		snap := st.Snapshot()
		doc := export.Build(snap, metrics.Compute(snap, cat), time.Now())
		if err := export.Write(os.Stdout, doc); err != nil {
			fmt.Fprintf(os.Stderr, "agenttop: json: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	m := newModel(cfg, cat, st, g, logger)
	m.paused = *startPaused

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Two independent generation schedules with randomized inter-arrival
	// delays. The schedules keep firing while paused; the paused turn drops
	// the tick, so resuming never replays a backlog.
	msgTask := gen.Schedule(func() {
		p.Send(genMessageMsg{})
	}, cfg.Gen.MessageDelayMin, cfg.Gen.MessageDelayMax)
	callTask := gen.Schedule(func() {
		p.Send(genToolCallMsg{})
	}, cfg.Gen.ToolCallDelayMin, cfg.Gen.ToolCallDelayMax)

	// Live catalog reload when a config file is in play.
	var watcher *catalog.Watcher
	if cfg.Path != "" {
		watcher, err = catalog.NewWatcher(cfg.Path)
		if err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		} else {
			go func() {
				for range watcher.Changes() {
					p.Send(configChangedMsg{})
				}
			}()
		}
	}

	_, runErr := p.Run()

	// Teardown: cancel both schedules and the watcher so nothing keeps
	// mutating a discarded store.
	msgTask.Stop()
	callTask.Stop()
	if watcher != nil {
		watcher.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "agenttop: %v\n", runErr)
		os.Exit(1)
	}
}

// newFileLogger builds a zap logger writing to the given file. The TUI owns
// the terminal, so debug output never goes to stdout or stderr.
func newFileLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
