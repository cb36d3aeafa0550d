// CLAUDE:SUMMARY Hierarchy ingestion — folds a flat per-tab frame snapshot into a rooted forest.
package graph

// IframeRef describes one child iframe tag observed in a frame's document.
type IframeRef struct {
	Src     string `json:"src,omitempty"`
	ID      string `json:"id,omitempty"`
	DomPath string `json:"dom_path"`
}

// FrameDescriptor is one entry of a full per-tab hierarchy snapshot.
// DocumentID may be absent for frames whose document is not resolvable
// (e.g. still loading).
type FrameDescriptor struct {
	FrameID       int         `json:"frame_id"`
	DocumentID    string      `json:"document_id,omitempty"`
	URL           string      `json:"url,omitempty"`
	ParentFrameID int         `json:"parent_frame_id"`
	Title         string      `json:"title,omitempty"`
	Origin        string      `json:"origin,omitempty"`
	Iframes       []IframeRef `json:"iframes,omitempty"`
}

// ProcessHierarchy ingests a full snapshot of one tab's frames and returns
// the resulting root frames in descriptor order.
//
// Two passes: first every descriptor's frame and document are resolved,
// metadata refreshed and parent linkage overwritten; then every involved
// frame's child list is rebuilt from scratch. A descriptor whose parent is
// not part of the same snapshot becomes a root rather than an error — a
// detached or cross-origin-opener frame has no resolvable parent in its
// tab, so the result is a forest, not a single tree.
func (s *Store) ProcessHierarchy(tabID int, descs []FrameDescriptor) []*Frame {
	s.mu.Lock()

	resolved := make(map[int]*Frame, len(descs))
	for _, d := range descs {
		f := s.getOrCreateFrame(tabID, d.FrameID, d.ParentFrameID)
		f.ParentFrameID = d.ParentFrameID
		if d.DocumentID != "" {
			doc := s.getOrCreateDocumentByID(d.DocumentID)
			doc.URL = d.URL
			doc.Origin = d.Origin
			doc.Title = d.Title
			doc.Frame = f
			f.Document = doc
		}
		resolved[d.FrameID] = f
	}

	for _, f := range resolved {
		f.Children = nil
	}

	roots := make([]*Frame, 0, 1)
	for _, d := range descs {
		f := resolved[d.FrameID]
		if parent, ok := resolved[d.ParentFrameID]; ok && d.ParentFrameID != d.FrameID {
			parent.Children = append(parent.Children, f)
		} else {
			roots = append(roots, f)
		}
	}
	s.roots[tabID] = roots

	// Owner elements from the parent side. The iframe list of a descriptor
	// covers children whose own context never managed to report an owner
	// (a cross-origin child cannot read its frameElement).
	for _, d := range descs {
		if len(d.Iframes) == 0 {
			continue
		}
		parent := resolved[d.FrameID]
		for _, child := range parent.Children {
			if ref, ok := matchIframe(d.Iframes, child, len(parent.Children)); ok {
				child.setOwner(NewOwnerElement(ref.DomPath, ref.Src, ref.ID))
			}
		}
	}

	s.version++
	s.mu.Unlock()
	s.notify()
	return roots
}

// matchIframe pins an iframe ref to a child frame. An exact src match
// must be unique to count; failing that, a sole iframe tag with a sole
// child frame is an unambiguous pair. Anything else stays unmatched —
// guessing would let two children swap owners between snapshots.
func matchIframe(refs []IframeRef, child *Frame, siblings int) (IframeRef, bool) {
	if child.Document != nil && child.Document.URL != "" {
		var match IframeRef
		n := 0
		for _, r := range refs {
			if r.Src != "" && r.Src == child.Document.URL {
				match = r
				n++
			}
		}
		if n == 1 {
			return match, true
		}
	}
	if siblings == 1 && len(refs) == 1 {
		return refs[0], true
	}
	return IframeRef{}, false
}
