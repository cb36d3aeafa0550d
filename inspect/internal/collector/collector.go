// CLAUDE:SUMMARY Per-tab CDP collector — injects the page script, routes binding payloads into the graph, refreshes the frame hierarchy.
// Package collector attaches to a single browser tab and feeds the
// reconciliation engine. It combines three observation channels: an
// injected script reporting registrations and received postMessages over
// a CDP binding, devtools frame lifecycle events, and periodic frame tree
// snapshots.
package collector

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/idgen"
	"github.com/hazyhaar/framewatch/inspect/capture"
	"github.com/hazyhaar/framewatch/inspect/internal/browser"
	"github.com/hazyhaar/framewatch/inspect/internal/sink"
)

//go:embed collector.js
var collectorJS []byte

const bindingName = "__framewatch_binding"

// Message ids use the default generator (UUIDv7) so the log's ORDER BY
// id tiebreak stays stable within one millisecond.
var newMessageID = idgen.Prefixed("msg_", idgen.Default)

// Config for creating a Collector.
type Config struct {
	Tab              *browser.Tab
	Store            *graph.Store
	Sink             sink.Sink
	SnapshotInterval time.Duration
	PreviewLimit     int
	Logger           *slog.Logger
}

// Collector manages observation for one tab.
type Collector struct {
	tab    *browser.Tab
	store  *graph.Store
	sink   sink.Sink
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	router *router

	// Coalesced hierarchy refresh requests from frame lifecycle events.
	refreshCh chan struct{}

	snapshotInterval time.Duration
	previewLimit     int
}

// New creates a Collector for the given tab.
func New(cfg Config) *Collector {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 30 * time.Second
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 512
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Collector{
		tab:              cfg.Tab,
		store:            cfg.Store,
		sink:             cfg.Sink,
		logger:           cfg.Logger,
		ctx:              ctx,
		cancel:           cancel,
		router:           newRouter(cfg.Tab.TabID),
		refreshCh:        make(chan struct{}, 1),
		snapshotInterval: cfg.SnapshotInterval,
		previewLimit:     cfg.PreviewLimit,
	}
}

// Start wires up the tab. It must run before the page navigates so the
// injected script installs ahead of any page code. It:
// 1. Enables the Page and Runtime domains
// 2. Registers the CDP binding and the new-document script
// 3. Subscribes to binding calls and frame lifecycle events
// 4. Runs the refresh loop
func (c *Collector) Start() error {
	page := c.tab.Page

	if err := (proto.PageEnable{}).Call(page); err != nil {
		return fmt.Errorf("collector: enable page domain: %w", err)
	}
	if err := (proto.RuntimeEnable{}).Call(page); err != nil {
		return fmt.Errorf("collector: enable runtime domain: %w", err)
	}

	err := proto.RuntimeAddBinding{Name: bindingName}.Call(page)
	if err != nil {
		c.logger.Warn("collector: addBinding failed (may already exist)", "error", err)
	}

	_, err = proto.PageAddScriptToEvaluateOnNewDocument{
		Source:         string(collectorJS),
		RunImmediately: true,
	}.Call(page)
	if err != nil {
		return fmt.Errorf("collector: register page script: %w", err)
	}

	go c.listen()
	go c.loop()

	c.logger.Info("collector: started",
		"page_id", c.tab.PageID, "tab_id", c.tab.TabID, "url", c.tab.PageURL)
	return nil
}

// Stop detaches the collector from the tab.
func (c *Collector) Stop() {
	c.cancel()
}

// listen subscribes to all CDP events in a single goroutine.
func (c *Collector) listen() {
	page := c.tab.Page

	wait := page.Context(c.ctx).EachEvent(
		func(e *proto.RuntimeBindingCalled) {
			if e.Name != bindingName {
				return
			}
			c.handleBinding(e.ExecutionContextID, e.Payload)
		},

		func(e *proto.RuntimeExecutionContextCreated) {
			aux, ok := e.Context.AuxData["frameId"]
			if !ok {
				return
			}
			frameID := aux.Str()
			if frameID == "" {
				return
			}
			c.router.noteContext(e.Context.ID, proto.PageFrameID(frameID))
		},

		func(e *proto.RuntimeExecutionContextsCleared) {
			c.router.dropContexts()
		},

		func(e *proto.PageFrameAttached) {
			c.router.assign(e.FrameID)
			c.requestRefresh()
		},

		func(e *proto.PageFrameNavigated) {
			c.router.assign(e.Frame.ID)
			c.requestRefresh()
		},

		func(e *proto.PageFrameDetached) {
			c.requestRefresh()
		},
	)

	wait()
}

// handleBinding decodes one payload from the injected script and applies
// it to the graph.
func (c *Collector) handleBinding(ctxID proto.RuntimeExecutionContextID, raw string) {
	p, err := decodePayload(raw)
	if err != nil {
		c.logger.Warn("collector: bad binding payload", "error", err)
		return
	}

	cdpFrame, ok := c.router.frameForContext(ctxID)
	if !ok {
		c.logger.Debug("collector: payload from unmapped execution context",
			"context_id", ctxID, "kind", p.Kind)
		return
	}
	frameID := c.router.assign(cdpFrame)

	switch p.Kind {
	case kindRegister:
		c.handleRegister(cdpFrame, frameID, p)
	case kindMessage:
		c.handleMessage(cdpFrame, frameID, p)
	}
}

func (c *Collector) handleRegister(cdpFrame proto.PageFrameID, frameID int, p payload) {
	iframes := make([]graph.IframeRef, 0, len(p.Iframes))
	for _, f := range p.Iframes {
		iframes = append(iframes, graph.IframeRef{DomPath: f.DomPath, Src: f.Src, ID: f.IframeID})
	}
	c.router.noteRegistration(cdpFrame, p.DocumentID, p.WindowID, iframes)

	c.store.ProcessRegistration(graph.Registration{
		TabID:        c.tab.TabID,
		FrameID:      frameID,
		DocumentID:   p.DocumentID,
		WindowID:     p.WindowID,
		OwnerDomPath: p.OwnerDomPath,
		OwnerSrc:     p.OwnerSrc,
		OwnerID:      p.OwnerID,
	})

	// The document's URL and title reach the graph through the hierarchy
	// snapshot, so refresh after every registration.
	c.requestRefresh()
}

func (c *Collector) handleMessage(cdpFrame proto.PageFrameID, frameID int, p payload) {
	srcDoc, srcWin := c.router.resolveSource(cdpFrame, p.SourceKind, p.OwnerSrc)

	in := graph.MessageInput{
		TabID:            c.tab.TabID,
		TargetDocumentID: p.DocumentID,
		TargetFrameID:    frameID,
		TargetURL:        p.URL,
		TargetOrigin:     p.Origin,
		TargetTitle:      p.Title,

		SourceType:       graph.SourceType(p.SourceKind),
		SourceDocumentID: srcDoc,
		SourceWindowID:   srcWin,
		SourceOrigin:     p.SourceOrigin,

		SourceIframeDomPath: p.OwnerDomPath,
		SourceIframeSrc:     p.OwnerSrc,
		SourceIframeID:      p.OwnerID,
	}

	targetOwner, sourceOwner := c.store.ProcessMessage(in)

	when := p.Time
	if when == 0 {
		when = time.Now().UnixMilli()
	}

	msg := capture.Message{
		ID:    newMessageID(),
		TabID: c.tab.TabID,
		Time:  when,

		TargetDocumentID: in.TargetDocumentID,
		TargetFrameID:    in.TargetFrameID,
		TargetURL:        in.TargetURL,
		TargetOrigin:     in.TargetOrigin,
		TargetTitle:      in.TargetTitle,

		SourceType:       string(in.SourceType),
		SourceDocumentID: in.SourceDocumentID,
		SourceWindowID:   in.SourceWindowID,
		SourceOrigin:     in.SourceOrigin,

		TargetOwner: targetOwner,
		SourceOwner: sourceOwner,

		DataPreview: truncatePreview(p.DataPreview, c.previewLimit),
	}

	if err := c.sink.Send(c.ctx, msg); err != nil {
		c.logger.Error("collector: send message failed", "error", err)
	}
}

// loop runs periodic and event-driven hierarchy refreshes. Event-driven
// requests are coalesced for a short window so a burst of frame churn
// costs one devtools round trip.
func (c *Collector) loop() {
	// Initial snapshot once the tab settles.
	c.refreshHierarchy()

	ticker := time.NewTicker(c.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return

		case <-c.refreshCh:
			timer := time.NewTimer(200 * time.Millisecond)
		drain:
			for {
				select {
				case <-c.refreshCh:
				case <-timer.C:
					break drain
				case <-c.ctx.Done():
					timer.Stop()
					return
				}
			}
			c.refreshHierarchy()

		case <-ticker.C:
			c.refreshHierarchy()
		}
	}
}

func (c *Collector) requestRefresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// refreshHierarchy pulls the devtools frame tree, feeds it to the graph,
// and emits the resulting forest to the sink.
func (c *Collector) refreshHierarchy() {
	res, err := proto.PageGetFrameTree{}.Call(c.tab.Page)
	if err != nil {
		c.logger.Error("collector: get frame tree", "error", err)
		return
	}

	descs := c.router.setTree(res.FrameTree)
	if len(descs) == 0 {
		return
	}
	c.store.ProcessHierarchy(c.tab.TabID, descs)

	tree := capture.Tree{
		TabID: c.tab.TabID,
		Time:  time.Now().UnixMilli(),
		Roots: c.store.TreeSnapshot(c.tab.TabID),
	}
	if err := c.sink.SendTree(c.ctx, tree); err != nil {
		c.logger.Error("collector: send tree failed", "error", err)
	}

	c.logger.Debug("collector: hierarchy refreshed",
		"tab_id", c.tab.TabID, "frames", len(descs))
}
