// CLAUDE:SUMMARY Reconciliation store — three indices over Frame/FrameDocument plus subscription-based change notification.
// Package graph is the identity-reconciliation engine for cross-frame
// postMessage traffic.
//
// Three independent, partially-identified event streams feed it: message
// events, frame-registration events, and per-tab hierarchy snapshots. The
// store folds them into one deduplicated graph of frames, documents and
// iframe owner elements. Two non-overlapping identifier spaces exist for
// the same logical document (an ephemeral per-exchange window token and a
// persistent document id); the store merges them without ever losing or
// duplicating an entity.
//
// Events may arrive in any order, be replayed, or be incomplete. Every
// ingestion operation is convergent: applying any interleaving of the
// three operations, duplicates included, reaches the same final index
// state once every event has been seen at least once.
//
// Usage:
//
//	s := graph.NewStore(logger)
//	cancel := s.Subscribe(func() { /* re-read */ })
//	defer cancel()
//	s.ProcessMessage(in)
package graph

import (
	"log/slog"
	"sync"
)

// Store owns the three indices and is their sole writer. Each ingestion
// operation runs start-to-finish under the write lock, so readers only
// ever observe fully-linked states, never a half-applied merge.
type Store struct {
	mu           sync.RWMutex
	frames       map[FrameKey]*Frame
	docsByID     map[string]*FrameDocument
	docsByWindow map[string]*FrameDocument
	roots        map[int][]*Frame // latest hierarchy forest per tab

	version uint64
	subs    map[int]func()
	nextSub int

	logger *slog.Logger
}

// NewStore creates an empty reconciliation store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		frames:       make(map[FrameKey]*Frame),
		docsByID:     make(map[string]*FrameDocument),
		docsByWindow: make(map[string]*FrameDocument),
		roots:        make(map[int][]*Frame),
		subs:         make(map[int]func()),
		logger:       logger,
	}
}

// Subscribe registers fn to run after every completed ingestion operation.
// The returned cancel function removes the subscription. Callbacks run
// outside the store lock, so they may freely read the store.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Version returns a counter that increases on every completed ingestion
// operation. Observers can poll it instead of subscribing.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Frame returns the frame for (tabID, frameID), or nil if none exists.
// Entities returned by the accessors are shared with the store; callers
// that read them while ingestion may be running concurrently should use
// the snapshot helpers in snapshot.go instead.
func (s *Store) Frame(tabID, frameID int) *Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[FrameKey{TabID: tabID, FrameID: frameID}]
}

// DocumentByID returns the document known by the persistent document id,
// or nil.
func (s *Store) DocumentByID(id string) *FrameDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docsByID[id]
}

// DocumentByWindowID returns the document known by the ephemeral window
// token, or nil.
func (s *Store) DocumentByWindowID(id string) *FrameDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docsByWindow[id]
}

// Roots returns the root frames of the most recent hierarchy snapshot for
// the tab. More than one root can exist (opener-linked or detached frames).
func (s *Store) Roots(tabID int) []*Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots[tabID]
}

// Clear empties all indices. Used on tab reload or session reset.
func (s *Store) Clear() {
	s.mu.Lock()
	s.frames = make(map[FrameKey]*Frame)
	s.docsByID = make(map[string]*FrameDocument)
	s.docsByWindow = make(map[string]*FrameDocument)
	s.roots = make(map[int][]*Frame)
	s.version++
	s.mu.Unlock()
	s.notify()
}

// getOrCreateFrame returns the frame for the key, creating and indexing
// one with the given parent when none exists yet.
func (s *Store) getOrCreateFrame(tabID, frameID, parentFrameID int) *Frame {
	key := FrameKey{TabID: tabID, FrameID: frameID}
	if f, ok := s.frames[key]; ok {
		return f
	}
	f := &Frame{TabID: tabID, FrameID: frameID, ParentFrameID: parentFrameID}
	s.frames[key] = f
	return f
}

// getOrCreateDocumentByID returns the document for the persistent id,
// creating one known by that id alone when none exists.
func (s *Store) getOrCreateDocumentByID(id string) *FrameDocument {
	if d, ok := s.docsByID[id]; ok {
		return d
	}
	d := &FrameDocument{DocumentID: id}
	s.docsByID[id] = d
	return d
}

// getOrCreateDocumentByWindowID is the window-token counterpart of
// getOrCreateDocumentByID.
func (s *Store) getOrCreateDocumentByWindowID(windowID string) *FrameDocument {
	if d, ok := s.docsByWindow[windowID]; ok {
		return d
	}
	d := &FrameDocument{WindowID: windowID}
	s.docsByWindow[windowID] = d
	return d
}

// notify fires all subscriptions. Called after the write lock is released.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
