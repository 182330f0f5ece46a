package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// CreateUser registers a new user. When the backend rejects the request it
// usually explains why in a {"detail": ...} body; that text becomes the error
// message verbatim so callers can show it as-is.
func CreateUser(ctx context.Context, httpClient *http.Client, baseURL string, req types.CreateUserRequest) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/users/", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("create user", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		var er struct {
			Detail string `json:"detail"`
		}
		if jsonErr := json.Unmarshal(raw, &er); jsonErr == nil && er.Detail != "" {
			return nil, logFail("create user", errors.New(er.Detail))
		}
		return nil, logFail("create user", statusErr("create user", resp.StatusCode))
	}

	var user types.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves one page of users. A transport failure propagates; any
// status other than 200 yields an empty page instead of an error.
func ListUsers(ctx context.Context, httpClient *http.Client, baseURL string, skip, limit int) ([]types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/users/?skip=%d&limit=%d", baseURL, skip, limit)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("list users", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("list users: returning empty page")
		return []types.User{}, nil
	}

	var page types.UsersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return page.Users, nil
}

// CurrentUser resolves the authenticated user. A transport failure propagates;
// any status other than 200 yields (nil, nil) so callers can treat "no session"
// as an ordinary state.
func CurrentUser(ctx context.Context, httpClient *http.Client, baseURL string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/users/whoami", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("current user", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("current user: no session")
		return nil, nil
	}

	var user types.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches the mutable fields of a user.
func UpdateUser(ctx context.Context, httpClient *http.Client, baseURL, userID string, req types.UpdateUserRequest) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/users/%s", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("update user", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("update user", statusErr("update user", resp.StatusCode))
	}

	var user types.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword sets a new password for the user via the dedicated sub-resource.
func ResetPassword(ctx context.Context, httpClient *http.Client, baseURL, userID, password string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/users/%s/reset-password", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, logFail("reset password", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, logFail("reset password", statusErr("reset password", resp.StatusCode))
	}

	var user types.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user by ID. The backend answers 200 on success.
func DeleteUser(ctx context.Context, httpClient *http.Client, baseURL, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/users/%s", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return logFail("delete user", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return logFail("delete user", statusErr("delete user", resp.StatusCode))
	}
	return nil
}
