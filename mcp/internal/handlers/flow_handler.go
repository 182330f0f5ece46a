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

// FlowHandler exposes flow-level management tools.
type FlowHandler struct {
	client *client.Client
}

func NewFlowHandler(c *client.Client) *FlowHandler { return &FlowHandler{client: c} }

func (fh *FlowHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_flows",
		mcp.WithDescription("List all flows owned by the caller (returns flowId & name)"),
	)

	get := mcp.NewTool("get_flow",
		mcp.WithDescription("Get a single flow by ID, including its graph data"),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow UUID")),
	)

	create := mcp.NewTool("create_flow",
		mcp.WithDescription("Create a new flow; returns flowId and name"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Flow name")),
		mcp.WithString("description", mcp.Description("Optional flow description")),
		mcp.WithString("data", mcp.Description("Optional graph document as a JSON string")),
	)

	del := mcp.NewTool("delete_flow",
		mcp.WithDescription("Delete a flow by ID"),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow UUID")),
	)

	examples := mcp.NewTool("list_example_flows",
		mcp.WithDescription("Download the published example flows (returns name & description)"),
	)

	s.AddTool(list, fh.handleListFlows)
	s.AddTool(get, fh.handleGetFlow)
	s.AddTool(create, fh.handleCreateFlow)
	s.AddTool(del, fh.handleDeleteFlow)
	s.AddTool(examples, fh.handleListExampleFlows)
	return nil
}

// handleListFlows returns a minimal list of flow identifiers and names.
func (fh *FlowHandler) handleListFlows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_flows invoked")

	start := time.Now()
	flows, err := fh.client.ListFlows(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_flows failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list flows: %v", err)), nil
	}

	type lite struct {
		FlowID string `json:"flowId"`
		Name   string `json:"name"`
	}
	out := make([]lite, len(flows))
	for i, f := range flows {
		out[i] = lite{FlowID: f.ID, Name: f.Name}
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (fh *FlowHandler) handleGetFlow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flowID, _ := req.RequireString("flow_id")

	log.Debug().Str("flow_id", flowID).Msg("get_flow invoked")

	start := time.Now()
	flow, err := fh.client.GetFlow(ctx, flowID)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("get_flow failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get flow: %v", err)), nil
	}

	b, _ := json.MarshalIndent(flow, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (fh *FlowHandler) handleCreateFlow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := req.RequireString("name")
	var desc string
	if v, ok := req.GetArguments()["description"].(string); ok {
		desc = v
	}

	flow := client.Flow{Name: name, Description: desc}
	if v, ok := req.GetArguments()["data"].(string); ok && v != "" {
		if !json.Valid([]byte(v)) {
			return mcp.NewToolResultError("data must be a valid JSON document"), nil
		}
		flow.Data = json.RawMessage(v)
	}

	log.Debug().Str("name", name).Msg("create_flow invoked")

	start := time.Now()
	created, err := fh.client.CreateFlow(ctx, flow)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("create_flow failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to create flow: %v", err)), nil
	}

	out := map[string]any{"flowId": created.ID, "name": created.Name}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (fh *FlowHandler) handleDeleteFlow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flowID, _ := req.RequireString("flow_id")

	log.Debug().Str("flow_id", flowID).Msg("delete_flow invoked")

	start := time.Now()
	err := fh.client.DeleteFlow(ctx, flowID)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("delete_flow failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete flow: %v", err)), nil
	}

	out := map[string]any{"flowId": flowID, "status": "deleted"}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

// handleListExampleFlows fans the example downloads out through the SDK and
// reduces the result to name + description.
func (fh *FlowHandler) handleListExampleFlows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_example_flows invoked")

	start := time.Now()
	flows, err := fh.client.Examples(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_example_flows failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list example flows: %v", err)), nil
	}

	type lite struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	out := make([]lite, len(flows))
	for i, f := range flows {
		out[i] = lite{Name: f.Name, Description: f.Description}
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}
