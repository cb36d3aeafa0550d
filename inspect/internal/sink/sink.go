// Package sink defines output backends for resolved framewatch records.
package sink

import (
	"context"

	"github.com/hazyhaar/framewatch/inspect/capture"
)

// Sink is the output interface. Implementations deliver resolved messages
// and frame trees to different backends (stdout, webhook, in-process
// callback).
type Sink interface {
	Send(ctx context.Context, msg capture.Message) error
	SendTree(ctx context.Context, tree capture.Tree) error
	Close() error
}
