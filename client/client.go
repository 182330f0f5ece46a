package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/trellisflow/trellis-go/client/internal/api"
	"github.com/trellisflow/trellis-go/client/internal/gather"
)

// Errors moved to errors.go

// --------------------------------------------------------------------
// (Functional options moved to options.go)
// --------------------------------------------------------------------

// Gatherer abstraction lives in gatherer.go

const defaultGitHubBaseURL = "https://api.github.com"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL   string
	githubURL string
	http      *http.Client
	github    *http.Client // GitHub calls never carry backend credentials
	pool      gatherer
	apiToken  string // bearer token for backend authentication (optional)

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the backend at baseURL.
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:   baseURL,
		githubURL: defaultGitHubBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		github:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	if c.pool == nil {
		c.pool = newDefaultGather()
	}

	// Wrap the backend transport to automatically add the Authorization
	// header. The GitHub transport is left untouched.
	c.wrapTransportWithToken()

	return c
}

// wrapTransportWithToken wraps the backend HTTP client's transport so every
// request carries the configured bearer token. No-op when no token is set.
func (c *Client) wrapTransportWithToken() {
	if c.apiToken == "" {
		return
	}
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &tokenTransport{
		base:  baseTransport,
		token: c.apiToken,
	}
}

// tokenTransport wraps an http.RoundTripper to automatically add the
// Authorization header.
type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(cloned)
}

// Close releases idle connections held by the client. Safe to call multiple
// times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	c.github.CloseIdleConnections()
	return nil
}

// newDefaultGather constructs the fan-out pool, honoring GATHER_* env
// overrides and falling back to package defaults.
func newDefaultGather() *gather.Pool {
	cfg, err := gather.LoadConfig()
	if err != nil {
		cfg = gather.Config{}
	}
	return gather.New(cfg)
}

// --------------------------------------------------------------------
// Flow operations - delegated to internal/api
// --------------------------------------------------------------------

// CreateFlow stores a new flow. Identity fields on the argument are ignored;
// the returned flow carries the server-assigned ID.
func (c *Client) CreateFlow(ctx context.Context, flow Flow) (*Flow, error) {
	return api.CreateFlow(ctx, c.http, c.baseURL, flow)
}

// UpdateFlow overwrites the flow identified by flow.ID.
func (c *Client) UpdateFlow(ctx context.Context, flow Flow) (*Flow, error) {
	return api.UpdateFlow(ctx, c.http, c.baseURL, flow)
}

// ListFlows returns the caller's flows.
func (c *Client) ListFlows(ctx context.Context) ([]Flow, error) {
	return api.ListFlows(ctx, c.http, c.baseURL)
}

// GetFlow retrieves a single flow by ID.
func (c *Client) GetFlow(ctx context.Context, flowID string) (*Flow, error) {
	return api.GetFlow(ctx, c.http, c.baseURL, flowID)
}

// DeleteFlow removes a flow by ID.
func (c *Client) DeleteFlow(ctx context.Context, flowID string) error {
	return api.DeleteFlow(ctx, c.http, c.baseURL, flowID)
}

// DownloadFlows exports all flows as a single bundle.
func (c *Client) DownloadFlows(ctx context.Context) (*FlowsBundle, error) {
	return api.DownloadFlows(ctx, c.http, c.baseURL)
}

// UploadFlows imports flows from a bundle file and returns the stored flows.
func (c *Client) UploadFlows(ctx context.Context, filename string, r io.Reader) ([]Flow, error) {
	return api.UploadFlows(ctx, c.http, c.baseURL, filename, r)
}

// --------------------------------------------------------------------
// Flow style operations - delegated to internal/api
// --------------------------------------------------------------------

// ListFlowStyles returns all stored flow styles.
func (c *Client) ListFlowStyles(ctx context.Context) ([]FlowStyle, error) {
	return api.ListFlowStyles(ctx, c.http, c.baseURL)
}

// CreateFlowStyle stores a new flow style.
func (c *Client) CreateFlowStyle(ctx context.Context, style FlowStyle) (*FlowStyle, error) {
	return api.CreateFlowStyle(ctx, c.http, c.baseURL, style)
}

// --------------------------------------------------------------------
// User operations - delegated to internal/api
// --------------------------------------------------------------------

// CreateUser registers a new user account.
func (c *Client) CreateUser(ctx context.Context, username, password string) (*User, error) {
	return api.CreateUser(ctx, c.http, c.baseURL, CreateUserRequest{Username: username, Password: password})
}

// ListUsers returns a page of users. A rejected request yields an empty
// slice, not an error.
func (c *Client) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	return api.ListUsers(ctx, c.http, c.baseURL, skip, limit)
}

// CurrentUser returns the authenticated user, or nil when there is no valid
// session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	return api.CurrentUser(ctx, c.http, c.baseURL)
}

// UpdateUser patches the given user's mutable fields.
func (c *Client) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	return api.UpdateUser(ctx, c.http, c.baseURL, userID, req)
}

// ResetPassword sets a new password for the given user.
func (c *Client) ResetPassword(ctx context.Context, userID, password string) (*User, error) {
	return api.ResetPassword(ctx, c.http, c.baseURL, userID, password)
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return api.DeleteUser(ctx, c.http, c.baseURL, userID)
}

// --------------------------------------------------------------------
// Auth operations - delegated to internal/api
// --------------------------------------------------------------------

// Login exchanges credentials for a token pair. Rejected credentials yield
// (nil, nil), not an error.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	return api.Login(ctx, c.http, c.baseURL, username, password)
}

// AutoLogin fetches a token pair from a backend running with auth disabled.
// Returns (nil, nil) when the backend refuses.
func (c *Client) AutoLogin(ctx context.Context) (*Token, error) {
	return api.AutoLogin(ctx, c.http, c.baseURL)
}

// RenewToken exchanges a refresh token for a fresh pair. An empty token
// short-circuits to (nil, nil) without a request.
func (c *Client) RenewToken(ctx context.Context, refreshToken string) (*Token, error) {
	return api.RenewToken(ctx, c.http, c.baseURL, refreshToken)
}

// --------------------------------------------------------------------
// API key operations - delegated to internal/api
// --------------------------------------------------------------------

// ListAPIKeys returns the caller's keys with masked values.
func (c *Client) ListAPIKeys(ctx context.Context) (*APIKeysPage, error) {
	return api.ListAPIKeys(ctx, c.http, c.baseURL)
}

// CreateAPIKey mints a named key. The plaintext key is only ever present on
// this response.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*CreatedAPIKey, error) {
	return api.CreateAPIKey(ctx, c.http, c.baseURL, name)
}

// DeleteAPIKey revokes a key by ID.
func (c *Client) DeleteAPIKey(ctx context.Context, keyID string) error {
	return api.DeleteAPIKey(ctx, c.http, c.baseURL, keyID)
}

// --------------------------------------------------------------------
// Build operations - delegated to internal/api
// --------------------------------------------------------------------

// BuildStatus reports whether the given flow has finished building.
func (c *Client) BuildStatus(ctx context.Context, flowID string) (*BuildStatus, error) {
	return api.BuildStatus(ctx, c.http, c.baseURL, flowID)
}

// StartBuild submits the full flow document for building.
func (c *Client) StartBuild(ctx context.Context, flow Flow) (*BuildInitResponse, error) {
	return api.StartBuild(ctx, c.http, c.baseURL, flow)
}

// --------------------------------------------------------------------
// File operations - delegated to internal/api
// --------------------------------------------------------------------

// UploadFile attaches a file to the given flow via multipart upload.
func (c *Client) UploadFile(ctx context.Context, flowID, filename string, r io.Reader) (*FileUploadResponse, error) {
	return api.UploadFile(ctx, c.http, c.baseURL, flowID, filename, r)
}

// --------------------------------------------------------------------
// Validation operations - delegated to internal/api
// --------------------------------------------------------------------

// ValidateCode checks component code for import and function errors.
func (c *Client) ValidateCode(ctx context.Context, code string) (*CodeValidationResult, error) {
	return api.ValidateCode(ctx, c.http, c.baseURL, code)
}

// ValidatePrompt checks a prompt template and reports its input variables.
func (c *Client) ValidatePrompt(ctx context.Context, req ValidatePromptRequest) (*PromptValidationResult, error) {
	return api.ValidatePrompt(ctx, c.http, c.baseURL, req)
}

// CreateCustomComponent registers component code and returns the backend's
// node document undecoded.
func (c *Client) CreateCustomComponent(ctx context.Context, code string) (json.RawMessage, error) {
	return api.CreateCustomComponent(ctx, c.http, c.baseURL, code)
}

// --------------------------------------------------------------------
// Meta operations - delegated to internal/api
// --------------------------------------------------------------------

// All fetches the component type catalog as a raw envelope.
func (c *Client) All(ctx context.Context) (*RawResponse, error) {
	return api.All(ctx, c.http, c.baseURL)
}

// Version reports the backend version.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	return api.Version(ctx, c.http, c.baseURL)
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	return api.Health(ctx, c.http, c.baseURL)
}

// --------------------------------------------------------------------
// GitHub operations - delegated to internal/api
// --------------------------------------------------------------------

// RepoStars returns the star count for a GitHub repository, or nil when it
// cannot be fetched. Failures are never surfaced.
func (c *Client) RepoStars(ctx context.Context, owner, repo string) *int {
	return api.RepoStars(ctx, c.github, c.githubURL, owner, repo)
}

// Examples downloads the example flows published in the public repository,
// fanning the per-file downloads out through the gather pool. Results keep
// listing order; one failed download fails the call.
func (c *Client) Examples(ctx context.Context) ([]Flow, error) {
	exampleFetchesTotal.Inc()
	flows, err := api.ListExamples(ctx, c.pool, c.github, c.githubURL)
	if err != nil {
		exampleFetchFailuresTotal.Inc()
		return nil, err
	}
	return flows, nil
}
