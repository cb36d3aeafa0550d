package sink

import (
	"context"

	"github.com/hazyhaar/framewatch/inspect/capture"
)

// MessageFunc is called for each resolved message.
type MessageFunc func(ctx context.Context, msg capture.Message) error

// TreeFunc is called for each frame-tree emission.
type TreeFunc func(ctx context.Context, tree capture.Tree) error

// Callback delivers records via Go function calls — the in-process path
// for embedding framewatch in another binary, zero serialisation.
type Callback struct {
	onMessage MessageFunc
	onTree    TreeFunc
}

// NewCallback creates a Callback sink. Either handler may be nil.
func NewCallback(onMessage MessageFunc, onTree TreeFunc) *Callback {
	return &Callback{onMessage: onMessage, onTree: onTree}
}

func (c *Callback) Send(ctx context.Context, msg capture.Message) error {
	if c.onMessage != nil {
		return c.onMessage(ctx, msg)
	}
	return nil
}

func (c *Callback) SendTree(ctx context.Context, tree capture.Tree) error {
	if c.onTree != nil {
		return c.onTree(ctx, tree)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
