package graph

// FrameDocument is one concrete document instance loaded into a frame.
//
// A document may first be seen under its persistent document id, under an
// ephemeral per-exchange window token, or both. The store guarantees that
// a logical document is represented by exactly one FrameDocument no matter
// which identifier it is looked up by: once both identifiers are known,
// both indices point at the same instance.
//
// An empty DocumentID or WindowID means "not known yet", never a valid
// identifier.
type FrameDocument struct {
	DocumentID string `json:"document_id,omitempty"`
	WindowID   string `json:"window_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Origin     string `json:"origin,omitempty"`
	Title      string `json:"title,omitempty"`

	// Frame is the frame currently displaying this document. Nil until a
	// message, registration, or hierarchy snapshot establishes the link.
	Frame *Frame `json:"-"`
}
