// CLAUDE:SUMMARY Message ingestion — resolves target/source documents and owner elements for one intercepted postMessage.
package graph

// SourceType classifies where a message's sender sits relative to the
// receiving frame.
type SourceType string

const (
	SourceChild   SourceType = "child"
	SourceParent  SourceType = "parent"
	SourceUnknown SourceType = "unknown"
)

// MessageInput is the metadata of one intercepted cross-frame message, as
// delivered by the routing layer. Target fields are always present; every
// source field is optional (empty string = unresolved). The iframe fields
// are populated only when SourceType is SourceChild.
type MessageInput struct {
	TabID int `json:"tab_id"`

	TargetDocumentID string `json:"target_document_id"`
	TargetFrameID    int    `json:"target_frame_id"`
	TargetURL        string `json:"target_url"`
	TargetOrigin     string `json:"target_origin"`
	TargetTitle      string `json:"target_title"`

	SourceWindowID   string     `json:"source_window_id,omitempty"`
	SourceDocumentID string     `json:"source_document_id,omitempty"`
	SourceOrigin     string     `json:"source_origin,omitempty"`
	SourceType       SourceType `json:"source_type"`

	SourceIframeDomPath string `json:"source_iframe_dom_path,omitempty"`
	SourceIframeSrc     string `json:"source_iframe_src,omitempty"`
	SourceIframeID      string `json:"source_iframe_id,omitempty"`
}

// ProcessMessage ingests one intercepted message and returns the resolved
// owner-element snapshots for the target and source frames, either of
// which may be nil. There are no error conditions: every absent field
// degrades to "leave unresolved".
//
// Target metadata is refreshed unconditionally (last writer wins — it is
// always fresh per message). The document↔frame link is first writer wins:
// a document id never moves to a different frame slot, so an existing link
// is never rewritten here.
func (s *Store) ProcessMessage(in MessageInput) (targetOwner, sourceOwner *OwnerElement) {
	s.mu.Lock()

	target := s.getOrCreateDocumentByID(in.TargetDocumentID)
	target.URL = in.TargetURL
	target.Origin = in.TargetOrigin
	target.Title = in.TargetTitle

	frame := s.getOrCreateFrame(in.TabID, in.TargetFrameID, NoParent)
	if target.Frame == nil {
		target.Frame = frame
		frame.Document = target
	}
	targetOwner = frame.Owner

	switch {
	case in.SourceDocumentID != "":
		src := s.getOrCreateDocumentByID(in.SourceDocumentID)
		src.Origin = in.SourceOrigin
		if in.SourceWindowID != "" {
			src.WindowID = in.SourceWindowID
			s.docsByWindow[in.SourceWindowID] = src
		}
	case in.SourceWindowID != "":
		src := s.getOrCreateDocumentByWindowID(in.SourceWindowID)
		src.Origin = in.SourceOrigin
	}

	switch in.SourceType {
	case SourceChild:
		// The message itself carries the iframe tag's identity.
		owner := NewOwnerElement(in.SourceIframeDomPath, in.SourceIframeSrc, in.SourceIframeID)
		sourceOwner = owner
		if owner != nil && in.SourceWindowID != "" {
			if d := s.docsByWindow[in.SourceWindowID]; d != nil && d.Frame != nil {
				d.Frame.setOwner(owner)
			}
		}
	case SourceParent:
		// A parent frame's identity, as seen from a child, is the iframe tag
		// sitting in the parent — recorded only when the parent itself was
		// once observed as a child. Inherited, not recomputed.
		if in.SourceDocumentID != "" {
			if d := s.docsByID[in.SourceDocumentID]; d != nil && d.Frame != nil {
				sourceOwner = d.Frame.Owner
			}
		}
	}

	s.version++
	s.mu.Unlock()
	s.notify()
	return targetOwner, sourceOwner
}
