package graph

// NoParent is the ParentFrameID of a top-level frame.
const NoParent = -1

// FrameKey identifies a frame slot within the browser: stable for the
// lifetime of the slot, surviving document navigations inside it.
type FrameKey struct {
	TabID   int `json:"tab_id"`
	FrameID int `json:"frame_id"`
}

// Frame is a stable slot in a tab's frame tree. The document shown in the
// slot changes across navigations; the slot itself does not.
type Frame struct {
	TabID         int `json:"tab_id"`
	FrameID       int `json:"frame_id"`
	ParentFrameID int `json:"parent_frame_id"`

	// Document is the document currently displayed in this slot, if known.
	// When set, Document.Frame points back here.
	Document *FrameDocument `json:"-"`

	// Owner is the iframe tag embedding this frame in its parent document,
	// if known. Replaced atomically, and only when the replacement is not
	// structurally equal to the current value.
	Owner *OwnerElement `json:"owner,omitempty"`

	// Children is rebuilt wholesale on every hierarchy snapshot.
	Children []*Frame `json:"-"`
}

// Key returns the frame's index key.
func (f *Frame) Key() FrameKey {
	return FrameKey{TabID: f.TabID, FrameID: f.FrameID}
}

// setOwner replaces the owner element only when the new value differs
// structurally. The equality gate keeps object identity stable across
// redundant writes so observers see no spurious change.
func (f *Frame) setOwner(o *OwnerElement) {
	if o == nil {
		return
	}
	if !o.Equal(f.Owner) {
		f.Owner = o
	}
}
