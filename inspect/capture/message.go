// CLAUDE:SUMMARY Defines the resolved Message record emitted to sinks and surfaces for every observed postMessage.
// Package capture holds the data types framewatch emits: fully resolved
// message records, ready for sinks, the message log, and the read
// surfaces. The raw event shapes exchanged with the page live in the
// collector; capture types are what consumers see.
package capture

import "github.com/hazyhaar/framewatch/graph"

// Message is one observed cross-frame postMessage with both endpoints
// resolved as far as the reconciliation engine could take them. Optional
// fields stay empty (or nil for the owner snapshots) when unresolved —
// absence is a valid outcome, not an error.
type Message struct {
	ID    string `json:"id"` // msg_ + UUIDv7, time-sortable
	TabID int    `json:"tab_id"`
	Time  int64  `json:"time"` // epoch milliseconds

	TargetDocumentID string `json:"target_document_id"`
	TargetFrameID    int    `json:"target_frame_id"`
	TargetURL        string `json:"target_url,omitempty"`
	TargetOrigin     string `json:"target_origin,omitempty"`
	TargetTitle      string `json:"target_title,omitempty"`

	SourceType       string `json:"source_type"`
	SourceDocumentID string `json:"source_document_id,omitempty"`
	SourceWindowID   string `json:"source_window_id,omitempty"`
	SourceOrigin     string `json:"source_origin,omitempty"`

	// Owner-element snapshots resolved at ingestion time. TargetOwner is
	// the iframe tag embedding the receiving frame; SourceOwner the one
	// embedding the sender (direct for child senders, inherited for
	// parent senders).
	TargetOwner *graph.OwnerElement `json:"target_owner,omitempty"`
	SourceOwner *graph.OwnerElement `json:"source_owner,omitempty"`

	// DataPreview is a truncated rendering of the message payload.
	DataPreview string `json:"data_preview,omitempty"`
}

// Tree is a point-in-time frame forest for one tab, emitted to sinks
// whenever a hierarchy snapshot is ingested.
type Tree struct {
	TabID int               `json:"tab_id"`
	Time  int64             `json:"time"` // epoch milliseconds
	Roots []graph.FrameNode `json:"roots"`
}
