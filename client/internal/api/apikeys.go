package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// ListAPIKeys returns the caller's keys with masked key material.
func ListAPIKeys(ctx context.Context, httpClient *http.Client, baseURL string) (*types.APIKeysPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/api_key/", baseURL)
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
		return nil, statusErr("list api keys", resp.StatusCode)
	}

	var page types.APIKeysPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateAPIKey mints a new key. Unlike the other create endpoints this one
// answers 200, not 201; the response carries the plaintext key exactly once.
func CreateAPIKey(ctx context.Context, httpClient *http.Client, baseURL, name string) (*types.CreatedAPIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/api_key/", baseURL)
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

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("create api key", resp.StatusCode)
	}

	var key types.CreatedAPIKey
	if err := json.NewDecoder(resp.Body).Decode(&key); err != nil {
		return nil, err
	}
	return &key, nil
}

// DeleteAPIKey revokes a key by ID. The backend answers 200 on success.
func DeleteAPIKey(ctx context.Context, httpClient *http.Client, baseURL, keyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/api_key/%s", baseURL, keyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusErr("delete api key", resp.StatusCode)
	}
	return nil
}
