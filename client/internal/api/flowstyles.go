package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// ListFlowStyles returns all stored flow styles.
func ListFlowStyles(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.FlowStyle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flow_styles/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("list flow styles", resp.StatusCode)
	}

	var styles []types.FlowStyle
	if err := json.NewDecoder(resp.Body).Decode(&styles); err != nil {
		return nil, err
	}
	return styles, nil
}

// CreateFlowStyle stores a style record for a flow. This endpoint is strict
// about content negotiation, so both JSON headers are set explicitly.
func CreateFlowStyle(ctx context.Context, httpClient *http.Client, baseURL string, style types.FlowStyle) (*types.FlowStyle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(style)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flow_styles/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusErr("create flow style", resp.StatusCode)
	}

	var created types.FlowStyle
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}
