package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// Login exchanges credentials for a token. The endpoint speaks
// form-urlencoded, not JSON. Any status other than 200 yields (nil, nil);
// only transport failures surface as errors.
func Login(ctx context.Context, httpClient *http.Client, baseURL, username, password string) (*types.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	endpoint := fmt.Sprintf("%s/api/v1/login", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var tok types.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// AutoLogin obtains a token without credentials on backends that allow it.
// Same contract as Login: non-200 yields (nil, nil).
func AutoLogin(ctx context.Context, httpClient *http.Client, baseURL string) (*types.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/api/v1/auto_login", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var tok types.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// RenewToken exchanges the current token for a fresh one via the refresh
// endpoint. An empty token is a no-op: no request is made and (nil, nil) is
// returned. No status is asserted.
func RenewToken(ctx context.Context, httpClient *http.Client, baseURL, token string) (*types.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s/api/v1/refresh?token=%s", baseURL, url.QueryEscape(token))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var tok types.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}
