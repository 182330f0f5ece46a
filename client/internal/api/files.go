package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// UploadFile attaches a file to a flow as a multipart upload. No status code
// is asserted; the body is decoded as-is.
func UploadFile(ctx context.Context, httpClient *http.Client, baseURL, flowID, filename string, r io.Reader) (*types.FileUploadResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/upload/%s", baseURL, flowID)
	httpReq, err := newFileUploadRequest(ctx, url, filename, r)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var up types.FileUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, err
	}
	return &up, nil
}
