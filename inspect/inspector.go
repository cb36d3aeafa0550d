// CLAUDE:SUMMARY Top-level orchestrator — browser lifecycle, per-page collectors, the shared frame graph and message log.
// Package inspect provides a postMessage observation daemon that
// orchestrates Chrome headless as a disposable component. It intercepts
// cross-frame messages, reconciles sender and receiver identities in a
// frame graph, and emits resolved records to sinks.
//
// inspect observes, it does not interpret. Resolved messages and frame
// trees are emitted to sinks (stdout, webhook, callback) and retained in
// a session message log for the read surfaces.
package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/inspect/capture"
	"github.com/hazyhaar/framewatch/inspect/internal/browser"
	"github.com/hazyhaar/framewatch/inspect/internal/collector"
	"github.com/hazyhaar/framewatch/inspect/internal/config"
	"github.com/hazyhaar/framewatch/inspect/internal/msglog"
	"github.com/hazyhaar/framewatch/inspect/internal/sink"
)

// Inspector is the top-level orchestrator. It manages the browser, the
// per-page collectors, the frame graph, and the sinks. Create one per
// framewatch instance.
type Inspector struct {
	cfg        *config.Config
	mgr        *browser.Manager
	store      *graph.Store
	log        *msglog.Store
	sinkR      *sink.Router
	collectors map[string]*collector.Collector // keyed by page ID
	tabs       map[string]*browser.Tab
	mu         sync.Mutex
	logger     *slog.Logger
}

// New creates an Inspector from configuration. The message log is always
// part of the sink chain so the read surfaces see every record.
func New(cfg *config.Config, logger *slog.Logger, sinks ...sink.Sink) (*Inspector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	log, err := msglog.Open(cfg.Log.Path)
	if err != nil {
		return nil, fmt.Errorf("inspect: open message log: %w", err)
	}

	logSink := sink.NewCallback(
		func(ctx context.Context, msg capture.Message) error {
			return log.Insert(ctx, msg)
		},
		nil, // trees are reconstructible from the graph, not logged
	)

	mgr := browser.NewManager(browser.Config{
		RemoteURL:       cfg.Browser.Remote,
		Headless:        cfg.Browser.Headless,
		RecycleInterval: cfg.Browser.RecycleInterval,
		Logger:          logger,
	})

	all := append([]sink.Sink{logSink}, sinks...)

	return &Inspector{
		cfg:        cfg,
		mgr:        mgr,
		store:      graph.NewStore(logger),
		log:        log,
		sinkR:      sink.NewRouter(logger, all...),
		collectors: make(map[string]*collector.Collector),
		tabs:       make(map[string]*browser.Tab),
		logger:     logger,
	}, nil
}

// Start launches the browser and begins inspecting all configured pages.
func (i *Inspector) Start(ctx context.Context) error {
	if _, err := i.mgr.Start(ctx); err != nil {
		return fmt.Errorf("inspect: start browser: %w", err)
	}

	i.mgr.SetRecycleCallback(&browser.RecycleCallback{
		BeforeRecycle: i.stopAllCollectors,
		AfterRecycle:  func(b *rod.Browser) { i.reconnectCollectors(ctx) },
	})

	for _, page := range i.cfg.Pages {
		if err := i.InspectPage(ctx, page); err != nil {
			i.logger.Error("inspect: failed to inspect page",
				"url", page.URL, "error", err)
		}
	}

	return nil
}

// InspectPage opens a tab for a single page and attaches a collector.
// Instrumentation is installed before navigation so no page script runs
// unobserved.
func (i *Inspector) InspectPage(ctx context.Context, pageCfg config.PageConfig) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.inspectPageLocked(ctx, pageCfg)
}

func (i *Inspector) inspectPageLocked(ctx context.Context, pageCfg config.PageConfig) error {
	tab, err := browser.OpenTab(ctx, i.mgr, pageCfg.URL, pageCfg.ID, pageCfg.TabID, i.cfg.Browser.Stealth)
	if err != nil {
		return fmt.Errorf("inspect: open tab: %w", err)
	}

	col := collector.New(collector.Config{
		Tab:              tab,
		Store:            i.store,
		Sink:             i.sinkR,
		SnapshotInterval: i.cfg.SnapshotInterval,
		PreviewLimit:     i.cfg.PreviewLimit,
		Logger:           i.logger,
	})

	if err := col.Start(); err != nil {
		tab.Close()
		return fmt.Errorf("inspect: start collector: %w", err)
	}

	if err := tab.Navigate(ctx); err != nil {
		col.Stop()
		tab.Close()
		return fmt.Errorf("inspect: navigate: %w", err)
	}

	i.collectors[pageCfg.ID] = col
	i.tabs[pageCfg.ID] = tab

	i.logger.Info("inspect: observing page",
		"url", pageCfg.URL, "id", pageCfg.ID, "tab_id", pageCfg.TabID)
	return nil
}

// Stop gracefully shuts down all collectors, the browser, the sinks, and
// the message log.
func (i *Inspector) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	for id, col := range i.collectors {
		col.Stop()
		i.logger.Info("inspect: stopped collector", "id", id)
	}
	for _, tab := range i.tabs {
		tab.Close()
	}
	i.collectors = make(map[string]*collector.Collector)
	i.tabs = make(map[string]*browser.Tab)

	i.sinkR.Close()
	i.mgr.Close()
	if err := i.log.Close(); err != nil {
		i.logger.Error("inspect: close message log", "error", err)
	}
}

// Store exposes the frame graph for embedding consumers. Prefer the
// snapshot accessors for anything held across calls.
func (i *Inspector) Store() *graph.Store {
	return i.store
}

// Reset discards all reconciliation state and the message log. Open tabs
// keep reporting; the graph rebuilds from the next events.
func (i *Inspector) Reset(ctx context.Context) error {
	if err := i.log.Truncate(ctx); err != nil {
		return fmt.Errorf("inspect: truncate message log: %w", err)
	}
	i.store.Clear()
	i.logger.Info("inspect: state reset")
	return nil
}

func (i *Inspector) stopAllCollectors() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, col := range i.collectors {
		col.Stop()
	}
}

func (i *Inspector) reconnectCollectors(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.collectors = make(map[string]*collector.Collector)
	i.tabs = make(map[string]*browser.Tab)
	for _, page := range i.cfg.Pages {
		if err := i.inspectPageLocked(ctx, page); err != nil {
			i.logger.Error("inspect: reconnect collector failed",
				"url", page.URL, "error", err)
		}
	}
}
