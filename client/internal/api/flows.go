package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// flowPayload is the writable subset sent on create and update. Everything
// else on the Flow (the ID included) is deliberately dropped; the server owns
// those fields.
type flowPayload struct {
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
	Description string          `json:"description"`
}

// CreateFlow stores a new flow. The server assigns the ID.
func CreateFlow(ctx context.Context, httpClient *http.Client, baseURL string, flow types.Flow) (*types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(flowPayload{Name: flow.Name, Data: flow.Data, Description: flow.Description})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("create flow", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, logFail("create flow", statusErr("create flow", resp.StatusCode))
	}

	var created types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFlow replaces the flow's name, data and description in full.
func UpdateFlow(ctx context.Context, httpClient *http.Client, baseURL string, flow types.Flow) (*types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(flowPayload{Name: flow.Name, Data: flow.Data, Description: flow.Description})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/%s", baseURL, flow.ID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("update flow", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("update flow", statusErr("update flow", resp.StatusCode))
	}

	var updated types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListFlows returns all stored flows.
func ListFlows(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("list flows", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("list flows", statusErr("list flows", resp.StatusCode))
	}

	var flows []types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&flows); err != nil {
		return nil, err
	}
	return flows, nil
}

// GetFlow retrieves a flow by ID.
func GetFlow(ctx context.Context, httpClient *http.Client, baseURL, flowID string) (*types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/%s", baseURL, flowID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("get flow", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("get flow", statusErr("get flow", resp.StatusCode))
	}

	var flow types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

// DeleteFlow removes a flow by ID. The backend answers 200 on success.
func DeleteFlow(ctx context.Context, httpClient *http.Client, baseURL, flowID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/flows/%s", baseURL, flowID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return logFail("delete flow", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return logFail("delete flow", statusErr("delete flow", resp.StatusCode))
	}
	return nil
}

// DownloadFlows exports every flow as a single bundle.
func DownloadFlows(ctx context.Context, httpClient *http.Client, baseURL string) (*types.FlowsBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/download/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("download flows", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("download flows", statusErr("download flows", resp.StatusCode))
	}

	var bundle types.FlowsBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// UploadFlows imports a flow bundle from r as a multipart upload and returns
// the flows the backend created from it.
func UploadFlows(ctx context.Context, httpClient *http.Client, baseURL, filename string, r io.Reader) ([]types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/flows/upload/", baseURL)
	httpReq, err := newFileUploadRequest(ctx, url, filename, r)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("upload flows", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, logFail("upload flows", statusErr("upload flows", resp.StatusCode))
	}

	var flows []types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&flows); err != nil {
		return nil, err
	}
	return flows, nil
}
