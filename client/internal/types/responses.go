package types

import (
	"encoding/json"
	"net/http"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// RawResponse is the full response envelope (status, headers, undecoded body)
// for the operations that deliberately expose it instead of a typed body.
type RawResponse struct {
	StatusCode int             `json:"status_code"`
	Header     http.Header     `json:"header"`
	Body       json.RawMessage `json:"body"`
}

// FlowsBundle is the serialized multi-flow container used by bulk export.
type FlowsBundle struct {
	Flows []Flow `json:"flows"`
}

// UsersPage mirrors the paginated users listing shape.
type UsersPage struct {
	TotalCount int    `json:"total_count"`
	Users      []User `json:"users"`
}

// APIKeysPage mirrors the key listing shape.
type APIKeysPage struct {
	TotalCount int      `json:"total_count"`
	UserID     string   `json:"user_id"`
	Keys       []APIKey `json:"api_keys"`
}

// CreatedAPIKey carries the plaintext key, returned exactly once at creation.
type CreatedAPIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// BuildStatus reports whether a flow's last build pass completed.
type BuildStatus struct {
	Built bool `json:"built"`
}

// BuildInitResponse acknowledges a build initiation.
type BuildInitResponse struct {
	FlowID string `json:"flowId"`
}

// FileUploadResponse reports where an uploaded file landed.
type FileUploadResponse struct {
	FlowID   string `json:"flowId"`
	FilePath string `json:"file_path"`
}

// ValidationDetail lists the errors found in one validation aspect.
type ValidationDetail struct {
	Errors []string `json:"errors"`
}

// CodeValidationResult is the outcome of validating component code.
type CodeValidationResult struct {
	Imports  ValidationDetail `json:"imports"`
	Function ValidationDetail `json:"function"`
}

// PromptValidationResult is the outcome of validating a prompt template.
type PromptValidationResult struct {
	InputVariables []string        `json:"input_variables"`
	FrontendNode   json.RawMessage `json:"frontend_node,omitempty"`
}

// VersionInfo mirrors the backend version endpoint.
type VersionInfo struct {
	Version string `json:"version"`
}

// HealthStatus mirrors the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}
