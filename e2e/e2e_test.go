// Package e2e tests cross-package integration chains through the public
// inspect surface.
//
// These tests verify that framewatch packages compose correctly when
// wired together: graph ingestion feeding the subscription machinery and
// both read surfaces (HTTP and MCP) agreeing on the same state.
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/inspect"

	_ "modernc.org/sqlite"
)

func newInspector(t *testing.T) *inspect.Inspector {
	t.Helper()
	cfg := &inspect.Config{}
	cfg.Defaults()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	insp, err := inspect.New(cfg, logger)
	if err != nil {
		t.Fatalf("inspect.New: %v", err)
	}
	t.Cleanup(insp.Stop)
	return insp
}

// seed drives the graph the way a collector would for a parent page with
// one cross-origin child that registers and receives a message.
func seed(store *graph.Store) {
	store.ProcessHierarchy(1, []graph.FrameDescriptor{
		{FrameID: 0, URL: "https://shop.test/checkout", Origin: "https://shop.test", ParentFrameID: graph.NoParent},
		{FrameID: 1, URL: "https://pay.test/widget", Origin: "https://pay.test", ParentFrameID: 0},
	})
	store.ProcessRegistration(graph.Registration{
		TabID: 1, FrameID: 1,
		DocumentID: "doc-pay", WindowID: "win-pay",
		OwnerDomPath: "html>body>div#checkout>iframe#pay",
		OwnerSrc:     "https://pay.test/widget",
		OwnerID:      "pay",
	})
	store.ProcessMessage(graph.MessageInput{
		TabID:            1,
		TargetDocumentID: "doc-pay",
		TargetFrameID:    1,
		TargetURL:        "https://pay.test/widget",
		TargetOrigin:     "https://pay.test",
		SourceType:       graph.SourceParent,
		SourceOrigin:     "https://shop.test",
	})
}

func TestIngestionNotifiesSubscribers(t *testing.T) {
	insp := newInspector(t)
	store := insp.Store()

	var fired atomic.Int64
	cancel := store.Subscribe(func() { fired.Add(1) })
	defer cancel()

	seed(store)

	if got := fired.Load(); got != 3 {
		t.Errorf("subscriber fired %d times, want 3", got)
	}
	if v := store.Version(); v != 3 {
		t.Errorf("version = %d, want 3", v)
	}
}

func TestHTTPAndMCPSurfacesAgree(t *testing.T) {
	insp := newInspector(t)
	seed(insp.Store())

	// HTTP surface.
	r := chi.NewRouter()
	insp.RegisterHTTP(r)
	httpSrv := httptest.NewServer(r)
	defer httpSrv.Close()

	resp, err := http.Get(httpSrv.URL + "/documents/doc-pay")
	if err != nil {
		t.Fatalf("GET document: %v", err)
	}
	var viaHTTP graph.DocumentInfo
	if err := json.NewDecoder(resp.Body).Decode(&viaHTTP); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	// MCP surface.
	impl := &mcp.Implementation{Name: "e2e", Version: "0.0.1"}
	srv := mcp.NewServer(impl, nil)
	insp.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(impl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "framewatch_document",
		Arguments: map[string]any{"window_id": "win-pay"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	var viaMCP graph.DocumentInfo
	text := result.Content[0].(*mcp.TextContent).Text
	if err := json.Unmarshal([]byte(text), &viaMCP); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// One lookup by document id, one by window token: same record.
	if viaHTTP != viaMCP {
		t.Errorf("surfaces disagree:\nhttp: %+v\nmcp:  %+v", viaHTTP, viaMCP)
	}
	if !viaHTTP.HasFrame || viaHTTP.FrameID != 1 {
		t.Errorf("document not bound to frame: %+v", viaHTTP)
	}
	if viaHTTP.Origin != "https://pay.test" {
		t.Errorf("origin = %q, want https://pay.test", viaHTTP.Origin)
	}
}

func TestTreeSurvivesReplay(t *testing.T) {
	insp := newInspector(t)
	store := insp.Store()

	seed(store)
	before := store.TreeSnapshot(1)

	// Replay the whole sequence; the graph must converge to the same shape.
	seed(store)
	after := store.TreeSnapshot(1)

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)
	if string(b) != string(a) {
		t.Errorf("replay changed the tree:\nbefore: %s\nafter:  %s", b, a)
	}
}
