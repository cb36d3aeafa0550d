// CLAUDE:SUMMARY Registers framewatch_frame_tree, framewatch_document, framewatch_recent_messages and framewatch_stats MCP tools.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/framewatch/kit"
)

// RegisterMCP registers framewatch tools on an MCP server.
func (i *Inspector) RegisterMCP(srv *mcp.Server) {
	i.registerTreeTool(srv)
	i.registerDocumentTool(srv)
	i.registerMessagesTool(srv)
	i.registerStatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- frame tree ---

type treeReq struct {
	TabID int `json:"tab_id"`
}

func (i *Inspector) registerTreeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "framewatch_frame_tree",
		Description: "Return the current frame forest for a tab, with documents and owner elements.",
		InputSchema: inputSchema(map[string]any{
			"tab_id": map[string]any{"type": "integer", "description": "Tab to inspect"},
		}, []string{"tab_id"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*treeReq)
		return map[string]any{
			"tab_id": r.TabID,
			"roots":  i.store.TreeSnapshot(r.TabID),
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r treeReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- document lookup ---

type documentReq struct {
	DocumentID string `json:"document_id"`
	WindowID   string `json:"window_id"`
}

func (i *Inspector) registerDocumentTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "framewatch_document",
		Description: "Look up a document by persistent document id or by window token.",
		InputSchema: inputSchema(map[string]any{
			"document_id": map[string]any{"type": "string", "description": "Persistent document id"},
			"window_id":   map[string]any{"type": "string", "description": "Ephemeral window token"},
		}, nil),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*documentReq)
		switch {
		case r.DocumentID != "":
			doc, ok := i.store.DocumentSnapshot(r.DocumentID)
			if !ok {
				return nil, fmt.Errorf("document %s not found", r.DocumentID)
			}
			return doc, nil
		case r.WindowID != "":
			doc, ok := i.store.DocumentSnapshotByWindow(r.WindowID)
			if !ok {
				return nil, fmt.Errorf("window %s not found", r.WindowID)
			}
			return doc, nil
		default:
			return nil, fmt.Errorf("document_id or window_id required")
		}
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r documentReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- recent messages ---

type messagesReq struct {
	TabID  *int `json:"tab_id"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}

func (i *Inspector) registerMessagesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "framewatch_recent_messages",
		Description: "Return recent observed postMessages, newest first. Omit tab_id for all tabs.",
		InputSchema: inputSchema(map[string]any{
			"tab_id": map[string]any{"type": "integer", "description": "Restrict to one tab"},
			"limit":  map[string]any{"type": "integer", "description": "Max records (default 50)"},
			"offset": map[string]any{"type": "integer", "description": "Pagination offset"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*messagesReq)
		tabID := -1
		if r.TabID != nil {
			tabID = *r.TabID
		}
		msgs, err := i.log.Recent(ctx, tabID, r.Limit, r.Offset)
		if err != nil {
			return nil, err
		}
		return map[string]any{"messages": msgs, "count": len(msgs)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r messagesReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- stats ---

func (i *Inspector) registerStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "framewatch_stats",
		Description: "Return graph counters (frames, documents, windows, version) and the message log size.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		stats := i.store.StatsSnapshot()
		logged, err := i.log.Count(ctx, -1)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"frames":    stats.Frames,
			"documents": stats.Documents,
			"windows":   stats.Windows,
			"version":   stats.Version,
			"messages":  logged,
		}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
