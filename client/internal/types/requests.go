package types

import "encoding/json"

// ------------------------------
// Request Types
// ------------------------------

// CreateUserRequest holds parameters for a new user
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest holds the mutable user fields for PATCH.
// Pointer fields distinguish "leave unchanged" from an explicit false.
type UpdateUserRequest struct {
	Username    string `json:"username,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser *bool  `json:"is_superuser,omitempty"`
}

// ValidatePromptRequest holds parameters for prompt-template validation
type ValidatePromptRequest struct {
	Name         string          `json:"name"`
	Template     string          `json:"template"`
	FrontendNode json.RawMessage `json:"frontend_node,omitempty"`
}
