package types

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Flow is a stored graph definition, the backend's primary resource.
// The graph payload is opaque to this layer and forwarded verbatim.
type Flow struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Style       *FlowStyle      `json:"style,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// FlowStyle is the identifier-less style record attached to a flow.
type FlowStyle struct {
	Emoji  string `json:"emoji,omitempty"`
	Color  string `json:"color"`
	FlowID string `json:"flow_id"`
}

// User represents a backend user account.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	IsActive     bool       `json:"is_active"`
	IsSuperuser  bool       `json:"is_superuser"`
	ProfileImage string     `json:"profile_image,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// APIKey is a credential record scoped to a user. The key material is
// masked everywhere except in the create response.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	MaskedKey  string     `json:"api_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	TotalUses  int        `json:"total_uses"`
}

// Token is the opaque bearer credential issued by login, auto-login and refresh.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}
