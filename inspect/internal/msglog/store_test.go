package msglog

import (
	"context"
	"testing"

	"github.com/hazyhaar/framewatch/dbopen"
	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/inspect/capture"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewWithDB(dbopen.OpenMemory(t, dbopen.WithSchema(Schema)))
}

func TestInsertRecent_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := capture.Message{
		ID: "msg_1", TabID: 1, Time: 1000,
		TargetDocumentID: "d1", TargetFrameID: 5,
		TargetURL: "https://x", TargetOrigin: "https://x", TargetTitle: "X",
		SourceType: "child", SourceWindowID: "w9", SourceOrigin: "https://y",
		SourceOwner: &graph.OwnerElement{DomPath: "html>body>iframe", Src: "https://y/f", ID: "f1"},
		DataPreview: `{"hello":"world"}`,
	}
	if err := s.Insert(ctx, msg); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Recent(ctx, -1, 10, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent: got %d messages, want 1", len(got))
	}
	m := got[0]
	if m.ID != "msg_1" || m.TargetDocumentID != "d1" || m.SourceWindowID != "w9" {
		t.Errorf("round trip: got %+v", m)
	}
	if !m.SourceOwner.Equal(msg.SourceOwner) {
		t.Errorf("source owner: got %+v, want %+v", m.SourceOwner, msg.SourceOwner)
	}
	if m.TargetOwner != nil {
		t.Errorf("target owner: got %+v, want nil", m.TargetOwner)
	}
}

func TestRecent_NewestFirstAndTabFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, m := range []capture.Message{
		{ID: "a", TabID: 1, Time: 100, TargetDocumentID: "d1", SourceType: "unknown"},
		{ID: "b", TabID: 1, Time: 200, TargetDocumentID: "d1", SourceType: "unknown"},
		{ID: "c", TabID: 2, Time: 300, TargetDocumentID: "d2", SourceType: "unknown"},
	} {
		if err := s.Insert(ctx, m); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	all, err := s.Recent(ctx, -1, 10, 0)
	if err != nil {
		t.Fatalf("Recent all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("ordering: got %v", ids(all))
	}

	tab1, err := s.Recent(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("Recent tab 1: %v", err)
	}
	if len(tab1) != 2 || tab1[0].ID != "b" {
		t.Errorf("tab filter: got %v", ids(tab1))
	}

	n, err := s.Count(ctx, 1)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count tab 1: got %d, want 2", n)
	}
}

func TestTruncate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, capture.Message{ID: "a", TabID: 1, Time: 1, TargetDocumentID: "d", SourceType: "unknown"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Truncate(ctx); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	n, err := s.Count(ctx, -1)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after truncate: got %d, want 0", n)
	}
}

func ids(ms []capture.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
