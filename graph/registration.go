// CLAUDE:SUMMARY Registration ingestion — four-way merge binding a window token to a persistent document id.
package graph

// Registration is the out-of-band signal durably binding a window token to
// a persistent document id and a frame location. Both identifiers are
// always present; the owner fields describe the registering frame's iframe
// tag as seen by its parent and may be absent.
type Registration struct {
	TabID      int    `json:"tab_id"`
	FrameID    int    `json:"frame_id"`
	DocumentID string `json:"document_id"`
	WindowID   string `json:"window_id"`

	OwnerDomPath string `json:"owner_dom_path,omitempty"`
	OwnerSrc     string `json:"owner_src,omitempty"`
	OwnerID      string `json:"owner_id,omitempty"`
}

// ProcessRegistration merges the window-keyed and documentId-keyed views
// of a document into one canonical record, then binds it to its frame.
//
// The merge handles all four presence combinations. When two distinct
// records denote the same document, the documentId-keyed one survives and
// the window index is repointed at it; the abandoned record is left
// unreachable from any index. Registration is authoritative for the
// frame↔document link and overrides any prior binding. The operation is
// idempotent: replaying it yields the identical end state.
func (s *Store) ProcessRegistration(reg Registration) {
	s.mu.Lock()

	byWin := s.docsByWindow[reg.WindowID]
	byID := s.docsByID[reg.DocumentID]

	var doc *FrameDocument
	switch {
	case byWin != nil && byID != nil && byWin != byID:
		// Two records for one document: canonicalize on the id-keyed one.
		byID.WindowID = reg.WindowID
		if byID.Origin == "" {
			byID.Origin = byWin.Origin
		}
		s.docsByWindow[reg.WindowID] = byID
		doc = byID
		s.logger.Debug("graph: canonicalized window record onto document",
			"document_id", reg.DocumentID, "window_id", reg.WindowID)
	case byID != nil:
		// Also covers byWin == byID (already merged).
		byID.WindowID = reg.WindowID
		s.docsByWindow[reg.WindowID] = byID
		doc = byID
	case byWin != nil:
		// Promote the window-keyed record: same object, now reachable by both.
		byWin.DocumentID = reg.DocumentID
		s.docsByID[reg.DocumentID] = byWin
		doc = byWin
	default:
		doc = &FrameDocument{DocumentID: reg.DocumentID, WindowID: reg.WindowID}
		s.docsByID[reg.DocumentID] = doc
		s.docsByWindow[reg.WindowID] = doc
	}

	frame := s.getOrCreateFrame(reg.TabID, reg.FrameID, NoParent)
	frame.Document = doc
	doc.Frame = frame

	frame.setOwner(NewOwnerElement(reg.OwnerDomPath, reg.OwnerSrc, reg.OwnerID))

	s.version++
	s.mu.Unlock()
	s.notify()
}
