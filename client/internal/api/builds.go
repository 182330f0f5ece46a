package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// BuildStatus reports whether the flow's current build has completed.
// No status code is asserted; the body is decoded as-is.
func BuildStatus(ctx context.Context, httpClient *http.Client, baseURL, flowID string) (*types.BuildStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/build/%s/status", baseURL, flowID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var status types.BuildStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StartBuild kicks off a build pass for the flow. The full flow object is the
// request body; no status code is asserted.
func StartBuild(ctx context.Context, httpClient *http.Client, baseURL string, flow types.Flow) (*types.BuildInitResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(flow)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/build/init/%s", baseURL, flow.ID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var init types.BuildInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&init); err != nil {
		return nil, err
	}
	return &init, nil
}
