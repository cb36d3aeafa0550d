package inspect

import (
	"io"
	"log/slog"

	"github.com/hazyhaar/framewatch/inspect/internal/sink"
)

// Sink is the output interface for resolved framewatch records.
type Sink = sink.Sink

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// MessageFunc is called for each resolved message.
type MessageFunc = sink.MessageFunc

// TreeFunc is called for each frame-tree emission.
type TreeFunc = sink.TreeFunc

// NewCallbackSink creates an in-process callback sink for embedding
// consumers — zero serialisation. Either handler may be nil.
func NewCallbackSink(onMessage MessageFunc, onTree TreeFunc) Sink {
	return sink.NewCallback(onMessage, onTree)
}

// SinksFromConfig builds sinks from configuration entries. Unknown types
// are skipped with a warning.
func SinksFromConfig(cfgs []SinkConfig, out io.Writer, logger *slog.Logger) []Sink {
	var sinks []Sink
	for _, sc := range cfgs {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, NewStdoutSink(out))
		case "webhook":
			sinks = append(sinks, NewWebhookSink(sc.URL, logger))
		default:
			logger.Warn("inspect: unknown sink type", "type", sc.Type)
		}
	}
	return sinks
}
