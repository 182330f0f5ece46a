package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/trellisflow/trellis-go/client"
)

// MetaHandler exposes read-only tools about the backend itself.
type MetaHandler struct {
	client *client.Client
}

func NewMetaHandler(c *client.Client) *MetaHandler { return &MetaHandler{client: c} }

func (mh *MetaHandler) RegisterTools(s *server.MCPServer) error {
	version := mcp.NewTool("backend_version",
		mcp.WithDescription("Report the Trellis backend version"),
	)

	health := mcp.NewTool("backend_health",
		mcp.WithDescription("Probe the Trellis backend health endpoint"),
	)

	s.AddTool(version, mh.handleVersion)
	s.AddTool(health, mh.handleHealth)
	return nil
}

func (mh *MetaHandler) handleVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := mh.client.Version(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backend_version failed: %v", err)), nil
	}

	b, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MetaHandler) handleHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := mh.client.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backend_health failed: %v", err)), nil
	}

	b, _ := json.Marshal(h)
	return mcp.NewToolResultText(string(b)), nil
}
