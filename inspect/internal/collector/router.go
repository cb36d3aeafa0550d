package collector

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/framewatch/graph"
)

// registration caches the identifiers the injected script announced for a
// frame's current document, keyed by devtools frame id. It lets a received
// message on frame A name the document living in sibling frame B without
// the two documents ever talking to each other.
type registration struct {
	documentID string
	windowID   string
	iframes    []graph.IframeRef
}

// router owns the per-tab mapping between the devtools identifier space
// (string frame ids, execution context ids) and the integer frame ids the
// rest of the system speaks. The top frame is always 0; subframes get
// stable ordinals in order of first sighting.
type router struct {
	mu sync.Mutex

	tabID   int
	topCDP  proto.PageFrameID
	frames  map[proto.PageFrameID]int
	nextID  int
	parents map[proto.PageFrameID]proto.PageFrameID
	urls    map[proto.PageFrameID]string
	regs    map[proto.PageFrameID]registration
	ctxs    map[proto.RuntimeExecutionContextID]proto.PageFrameID
}

func newRouter(tabID int) *router {
	return &router{
		tabID:   tabID,
		frames:  make(map[proto.PageFrameID]int),
		nextID:  1,
		parents: make(map[proto.PageFrameID]proto.PageFrameID),
		urls:    make(map[proto.PageFrameID]string),
		regs:    make(map[proto.PageFrameID]registration),
		ctxs:    make(map[proto.RuntimeExecutionContextID]proto.PageFrameID),
	}
}

// assign returns the integer id for a devtools frame id, minting one on
// first sight. The first frame ever seen is taken as the top frame.
func (r *router) assign(id proto.PageFrameID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assignLocked(id)
}

func (r *router) assignLocked(id proto.PageFrameID) int {
	if r.topCDP == "" {
		r.topCDP = id
	}
	if id == r.topCDP {
		r.frames[id] = 0
		return 0
	}
	if n, ok := r.frames[id]; ok {
		return n
	}
	n := r.nextID
	r.nextID++
	r.frames[id] = n
	return n
}

func (r *router) noteContext(ctx proto.RuntimeExecutionContextID, frame proto.PageFrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxs[ctx] = frame
	r.assignLocked(frame)
}

func (r *router) frameForContext(ctx proto.RuntimeExecutionContextID) (proto.PageFrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ctxs[ctx]
	return id, ok
}

func (r *router) dropContexts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxs = make(map[proto.RuntimeExecutionContextID]proto.PageFrameID)
}

func (r *router) noteRegistration(frame proto.PageFrameID, docID, winID string, iframes []graph.IframeRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs[frame] = registration{documentID: docID, windowID: winID, iframes: iframes}
}

func (r *router) registrationFor(frame proto.PageFrameID) (registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[frame]
	return reg, ok
}

// resolveSource turns the receiver-side classification of a message source
// into concrete document identifiers when the sending frame can be pinned
// down. A parent sender is the receiver's parent frame. A child sender is
// matched against the receiver's subframes by the src attribute the
// receiver read off the embedding iframe tag. Anything ambiguous resolves
// to nothing, which downstream treats as absent.
func (r *router) resolveSource(target proto.PageFrameID, kind, ownerSrc string) (docID, winID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case "parent":
		parent, ok := r.parents[target]
		if !ok {
			return "", ""
		}
		reg := r.regs[parent]
		return reg.documentID, reg.windowID
	case "child":
		var match proto.PageFrameID
		matches := 0
		for id, parent := range r.parents {
			if parent != target {
				continue
			}
			if ownerSrc != "" && !urlMatchesSrc(r.urls[id], ownerSrc) {
				continue
			}
			match = id
			matches++
		}
		if matches != 1 {
			return "", ""
		}
		reg := r.regs[match]
		return reg.documentID, reg.windowID
	}
	return "", ""
}

// setTree ingests a full devtools frame tree and returns descriptors in
// the integer id space, ready for hierarchy processing. Parent links and
// frame URLs are refreshed wholesale.
func (r *router) setTree(tree *proto.PageFrameTree) []graph.FrameDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parents = make(map[proto.PageFrameID]proto.PageFrameID)
	var descs []graph.FrameDescriptor
	r.walkTree(tree, "", &descs)

	sort.Slice(descs, func(i, j int) bool { return descs[i].FrameID < descs[j].FrameID })
	return descs
}

func (r *router) walkTree(node *proto.PageFrameTree, parent proto.PageFrameID, out *[]graph.FrameDescriptor) {
	if node == nil || node.Frame == nil {
		return
	}
	f := node.Frame
	id := r.assignLocked(f.ID)
	r.urls[f.ID] = f.URL

	parentID := graph.NoParent
	if parent != "" {
		r.parents[f.ID] = parent
		parentID = r.assignLocked(parent)
	}

	desc := graph.FrameDescriptor{
		FrameID:       id,
		URL:           f.URL,
		Origin:        originOf(f.URL, f.SecurityOrigin),
		ParentFrameID: parentID,
	}
	if reg, ok := r.regs[f.ID]; ok {
		desc.DocumentID = reg.documentID
		desc.Iframes = reg.iframes
	}
	*out = append(*out, desc)

	for _, child := range node.ChildFrames {
		r.walkTree(child, f.ID, out)
	}
}

// originOf prefers the security origin reported by devtools and falls
// back to deriving scheme://host from the URL.
func originOf(rawURL, securityOrigin string) string {
	if securityOrigin != "" && securityOrigin != "://" {
		return securityOrigin
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// urlMatchesSrc checks whether a frame URL plausibly came from an iframe
// src attribute, which may be relative or omit the query.
func urlMatchesSrc(frameURL, src string) bool {
	if frameURL == "" || src == "" {
		return false
	}
	if frameURL == src {
		return true
	}
	fu, err := url.Parse(frameURL)
	if err != nil {
		return false
	}
	su, err := url.Parse(src)
	if err != nil {
		return false
	}
	if su.IsAbs() {
		return fu.Host == su.Host && fu.Path == su.Path
	}
	return strings.HasSuffix(fu.Path, strings.TrimPrefix(su.Path, "/")) ||
		fu.Path == su.Path
}
