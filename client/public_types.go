package client

import "github.com/trellisflow/trellis-go/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreateUserRequest     = types.CreateUserRequest
	UpdateUserRequest     = types.UpdateUserRequest
	ValidatePromptRequest = types.ValidatePromptRequest

	// Domain entities
	Flow      = types.Flow
	FlowStyle = types.FlowStyle
	User      = types.User
	APIKey    = types.APIKey
	Token     = types.Token

	// Responses
	RawResponse            = types.RawResponse
	FlowsBundle            = types.FlowsBundle
	UsersPage              = types.UsersPage
	APIKeysPage            = types.APIKeysPage
	CreatedAPIKey          = types.CreatedAPIKey
	BuildStatus            = types.BuildStatus
	BuildInitResponse      = types.BuildInitResponse
	FileUploadResponse     = types.FileUploadResponse
	ValidationDetail       = types.ValidationDetail
	CodeValidationResult   = types.CodeValidationResult
	PromptValidationResult = types.PromptValidationResult
	VersionInfo            = types.VersionInfo
	HealthStatus           = types.HealthStatus
)

// Errors re-exported in errors.go
