package graph

// OwnerElement describes the static identity of the iframe tag that embeds
// a frame, as observed from the containing document. Instances are
// immutable: a frame's owner element is replaced wholesale, never mutated
// in place, so a pointer captured by a caller stays valid.
type OwnerElement struct {
	DomPath string `json:"dom_path"`
	Src     string `json:"src,omitempty"`
	ID      string `json:"id,omitempty"`
}

// NewOwnerElement builds an OwnerElement from raw fields. An empty DOM
// path means no owner element is known, not an owner element with an
// empty path, so it returns nil in that case.
func NewOwnerElement(domPath, src, id string) *OwnerElement {
	if domPath == "" {
		return nil
	}
	return &OwnerElement{DomPath: domPath, Src: src, ID: id}
}

// Equal reports structural equality over all three fields. Two nils are
// equal; nil never equals a non-nil element.
func (o *OwnerElement) Equal(other *OwnerElement) bool {
	if o == nil || other == nil {
		return o == nil && other == nil
	}
	return o.DomPath == other.DomPath && o.Src == other.Src && o.ID == other.ID
}
