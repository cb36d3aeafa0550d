// CLAUDE:SUMMARY Read-side snapshot builders — detached JSON-ready views of the frame forest and documents.
package graph

// FrameNode is a detached view of one frame for read-side consumers. It
// carries no references into the live graph, so it stays valid while
// ingestion continues.
type FrameNode struct {
	TabID         int           `json:"tab_id"`
	FrameID       int           `json:"frame_id"`
	ParentFrameID int           `json:"parent_frame_id"`
	DocumentID    string        `json:"document_id,omitempty"`
	WindowID      string        `json:"window_id,omitempty"`
	URL           string        `json:"url,omitempty"`
	Origin        string        `json:"origin,omitempty"`
	Title         string        `json:"title,omitempty"`
	Owner         *OwnerElement `json:"owner,omitempty"`
	Children      []FrameNode   `json:"children,omitempty"`
}

// DocumentInfo is a detached view of one document.
type DocumentInfo struct {
	DocumentID string `json:"document_id,omitempty"`
	WindowID   string `json:"window_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Origin     string `json:"origin,omitempty"`
	Title      string `json:"title,omitempty"`
	TabID      int    `json:"tab_id,omitempty"`
	FrameID    int    `json:"frame_id,omitempty"`
	HasFrame   bool   `json:"has_frame"`
}

// Stats summarises index sizes.
type Stats struct {
	Frames    int    `json:"frames"`
	Documents int    `json:"documents"`
	Windows   int    `json:"windows"`
	Version   uint64 `json:"version"`
}

// TreeSnapshot returns the forest from the latest hierarchy snapshot of a
// tab as detached nodes. Built in one pass under the read lock, so the
// view is internally consistent.
func (s *Store) TreeSnapshot(tabID int) []FrameNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roots := s.roots[tabID]
	nodes := make([]FrameNode, 0, len(roots))
	for _, f := range roots {
		nodes = append(nodes, snapshotFrame(f))
	}
	return nodes
}

// DocumentSnapshot returns a detached view of the document known by the
// persistent id.
func (s *Store) DocumentSnapshot(id string) (DocumentInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docsByID[id]
	if !ok {
		return DocumentInfo{}, false
	}
	return snapshotDocument(d), true
}

// DocumentSnapshotByWindow returns a detached view of the document known
// by the window token.
func (s *Store) DocumentSnapshotByWindow(windowID string) (DocumentInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docsByWindow[windowID]
	if !ok {
		return DocumentInfo{}, false
	}
	return snapshotDocument(d), true
}

// StatsSnapshot returns current index sizes.
func (s *Store) StatsSnapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Frames:    len(s.frames),
		Documents: len(s.docsByID),
		Windows:   len(s.docsByWindow),
		Version:   s.version,
	}
}

func snapshotFrame(f *Frame) FrameNode {
	n := FrameNode{
		TabID:         f.TabID,
		FrameID:       f.FrameID,
		ParentFrameID: f.ParentFrameID,
		Owner:         f.Owner, // immutable, safe to share
	}
	if d := f.Document; d != nil {
		n.DocumentID = d.DocumentID
		n.WindowID = d.WindowID
		n.URL = d.URL
		n.Origin = d.Origin
		n.Title = d.Title
	}
	for _, c := range f.Children {
		n.Children = append(n.Children, snapshotFrame(c))
	}
	return n
}

func snapshotDocument(d *FrameDocument) DocumentInfo {
	info := DocumentInfo{
		DocumentID: d.DocumentID,
		WindowID:   d.WindowID,
		URL:        d.URL,
		Origin:     d.Origin,
		Title:      d.Title,
	}
	if d.Frame != nil {
		info.TabID = d.Frame.TabID
		info.FrameID = d.Frame.FrameID
		info.HasFrame = true
	}
	return info
}
