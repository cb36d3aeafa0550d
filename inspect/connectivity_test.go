package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/inspect/capture"
	"github.com/hazyhaar/framewatch/inspect/internal/config"
)

func newTestInspector(t *testing.T) *Inspector {
	t.Helper()
	cfg := &config.Config{}
	cfg.Defaults()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	insp, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { insp.log.Close() })
	return insp
}

func seedGraph(t *testing.T, insp *Inspector) {
	t.Helper()

	insp.store.ProcessHierarchy(1, []graph.FrameDescriptor{
		{FrameID: 0, URL: "https://parent.test/", Origin: "https://parent.test", ParentFrameID: graph.NoParent},
		{FrameID: 1, URL: "https://widget.test/child.html", Origin: "https://widget.test", ParentFrameID: 0},
	})
	insp.store.ProcessRegistration(graph.Registration{
		TabID: 1, FrameID: 1,
		DocumentID: "doc-child", WindowID: "win-child",
		OwnerDomPath: "html>body>iframe#w", OwnerSrc: "/child.html", OwnerID: "w",
	})
}

func seedMessages(t *testing.T, insp *Inspector, n int) {
	t.Helper()
	ctx := context.Background()
	for k := 0; k < n; k++ {
		msg := capture.Message{
			ID:               fmt.Sprintf("m-%03d", k),
			TabID:            1 + k%2,
			Time:             int64(1000 + k),
			TargetDocumentID: "doc-child",
			TargetFrameID:    1,
			SourceType:       "parent",
		}
		if err := insp.log.Insert(ctx, msg); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}
}

func testServer(t *testing.T, insp *Inspector) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	insp.RegisterHTTP(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHTTP_Tree(t *testing.T) {
	insp := newTestInspector(t)
	seedGraph(t, insp)
	srv := testServer(t, insp)

	var body struct {
		TabID int               `json:"tab_id"`
		Roots []graph.FrameNode `json:"roots"`
	}
	if code := getJSON(t, srv.URL+"/tabs/1/tree", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(body.Roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(body.Roots))
	}
	root := body.Roots[0]
	if root.FrameID != 0 || len(root.Children) != 1 {
		t.Errorf("root frame %d with %d children", root.FrameID, len(root.Children))
	}
	child := root.Children[0]
	if child.DocumentID != "doc-child" {
		t.Errorf("child document = %q, want doc-child", child.DocumentID)
	}
	if child.Owner == nil || child.Owner.DomPath != "html>body>iframe#w" {
		t.Errorf("child owner = %+v", child.Owner)
	}

	if code := getJSON(t, srv.URL+"/tabs/nope/tree", nil); code != http.StatusBadRequest {
		t.Errorf("non-numeric tab id status = %d, want 400", code)
	}
}

func TestHTTP_DocumentLookup(t *testing.T) {
	insp := newTestInspector(t)
	seedGraph(t, insp)
	srv := testServer(t, insp)

	var doc graph.DocumentInfo
	if code := getJSON(t, srv.URL+"/documents/doc-child", &doc); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !doc.HasFrame || doc.FrameID != 1 || doc.TabID != 1 {
		t.Errorf("doc = %+v", doc)
	}

	var byWin graph.DocumentInfo
	if code := getJSON(t, srv.URL+"/windows/win-child", &byWin); code != http.StatusOK {
		t.Fatalf("window lookup status = %d", code)
	}
	if byWin.DocumentID != "doc-child" {
		t.Errorf("window lookup document = %q", byWin.DocumentID)
	}

	if code := getJSON(t, srv.URL+"/documents/ghost", nil); code != http.StatusNotFound {
		t.Errorf("missing document status = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/windows/ghost", nil); code != http.StatusNotFound {
		t.Errorf("missing window status = %d, want 404", code)
	}
}

func TestHTTP_Messages(t *testing.T) {
	insp := newTestInspector(t)
	seedMessages(t, insp, 6)
	srv := testServer(t, insp)

	var body struct {
		Messages []capture.Message `json:"messages"`
		Count    int               `json:"count"`
	}
	if code := getJSON(t, srv.URL+"/messages", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Count != 6 {
		t.Fatalf("count = %d, want 6", body.Count)
	}
	// Newest first.
	if body.Messages[0].Time < body.Messages[1].Time {
		t.Errorf("messages not newest-first: %d then %d",
			body.Messages[0].Time, body.Messages[1].Time)
	}

	// Tab filter: even indices are tab 1.
	body.Messages = nil
	if code := getJSON(t, srv.URL+"/messages?tab_id=1&limit=2", &body); code != http.StatusOK {
		t.Fatalf("filtered status = %d", code)
	}
	if len(body.Messages) != 2 {
		t.Fatalf("filtered got %d, want 2", len(body.Messages))
	}
	for _, m := range body.Messages {
		if m.TabID != 1 {
			t.Errorf("filtered message from tab %d", m.TabID)
		}
	}

	if code := getJSON(t, srv.URL+"/messages?tab_id=abc", nil); code != http.StatusBadRequest {
		t.Errorf("bad tab_id status = %d, want 400", code)
	}
	if code := getJSON(t, srv.URL+"/messages?limit=abc", nil); code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", code)
	}
	if code := getJSON(t, srv.URL+"/messages?offset=-", nil); code != http.StatusBadRequest {
		t.Errorf("bad offset status = %d, want 400", code)
	}
}

func TestHTTP_StatsAndReset(t *testing.T) {
	insp := newTestInspector(t)
	seedGraph(t, insp)
	seedMessages(t, insp, 3)
	srv := testServer(t, insp)

	var stats struct {
		Frames    int `json:"frames"`
		Documents int `json:"documents"`
		Messages  int `json:"messages"`
	}
	if code := getJSON(t, srv.URL+"/stats", &stats); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if stats.Frames != 2 || stats.Documents != 1 || stats.Messages != 3 {
		t.Errorf("stats = %+v", stats)
	}

	resp, err := http.Post(srv.URL+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /reset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", resp.StatusCode)
	}

	stats.Frames, stats.Documents, stats.Messages = -1, -1, -1
	getJSON(t, srv.URL+"/stats", &stats)
	if stats.Frames != 0 || stats.Documents != 0 || stats.Messages != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
}
