package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/trellisflow/trellis-go/client"
)

// BuildHandler exposes the build_status and start_build tools.
type BuildHandler struct {
	client *client.Client
}

func NewBuildHandler(c *client.Client) *BuildHandler { return &BuildHandler{client: c} }

func (bh *BuildHandler) RegisterTools(s *server.MCPServer) error {
	status := mcp.NewTool("build_status",
		mcp.WithDescription("Report whether a flow's last build pass completed"),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow UUID")),
	)

	start := mcp.NewTool("start_build",
		mcp.WithDescription("Fetch a flow and submit it for building"),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow UUID")),
	)

	s.AddTool(status, bh.handleBuildStatus)
	s.AddTool(start, bh.handleStartBuild)
	return nil
}

func (bh *BuildHandler) handleBuildStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flowID, _ := req.RequireString("flow_id")

	log.Debug().Str("flow_id", flowID).Msg("build_status invoked")

	st, err := bh.client.BuildStatus(ctx, flowID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build_status failed: %v", err)), nil
	}

	b, _ := json.Marshal(st)
	return mcp.NewToolResultText(string(b)), nil
}

// handleStartBuild loads the full flow document first; the build endpoint
// consumes the whole graph, not just the ID.
func (bh *BuildHandler) handleStartBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flowID, _ := req.RequireString("flow_id")

	log.Debug().Str("flow_id", flowID).Msg("start_build invoked")

	start := time.Now()
	flow, err := bh.client.GetFlow(ctx, flowID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start_build failed: %v", err)), nil
	}

	resp, err := bh.client.StartBuild(ctx, *flow)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("start_build failed")
		return mcp.NewToolResultError(fmt.Sprintf("start_build failed: %v", err)), nil
	}

	out := map[string]any{"flowId": resp.FlowID, "status": "building"}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}
