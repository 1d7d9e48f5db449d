package tools

import (
	"time"

	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

const (
	APITypeOpenAPI = "openapi"

	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthAPIKey = "api_key"

	HealthUnknown = "unknown"
)

// Tool is an MCP tool manifest: an external HTTP capability an agent can call.
type Tool struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
	DisplayName  string             `json:"display_name" db:"display_name"`
	Handle       string             `json:"handle" db:"handle"`
	Description  string             `json:"description" db:"description"`
	LogoURL      string             `json:"logo_url" db:"logo_url"`
	UserID       *uuid.UUID         `json:"user_id" db:"user_id"`
	Public       bool               `json:"public" db:"public"`
	APIType      string             `json:"api_type" db:"api_type"`
	APIURL       string             `json:"api_url" db:"api_url"`
	AuthMethod   string             `json:"auth_method" db:"auth_method"`
	AuthInfo     repository.JSONMap `json:"auth_info" db:"auth_info"`
	Capabilities repository.JSONMap `json:"capabilities" db:"capabilities"`
	HealthStatus string             `json:"health_status" db:"health_status"`
	UsageNotes   string             `json:"usage_notes" db:"usage_notes"`
}

// Redacted returns a copy whose auth_info values are masked, for API responses.
func (t Tool) Redacted() Tool {
	if len(t.AuthInfo) == 0 {
		return t
	}
	masked := make(repository.JSONMap, len(t.AuthInfo))
	for k := range t.AuthInfo {
		masked[k] = "***"
	}
	t.AuthInfo = masked
	return t
}

// AuthInfo is the typed view of the auth_info blob.
type AuthInfo struct {
	Token  string `json:"token"`
	Header string `json:"header"`
	Key    string `json:"key"`
}

// Command carries the writable manifest fields for create and update.
type Command struct {
	DisplayName  string             `json:"display_name" validate:"required"`
	Handle       string             `json:"handle" validate:"required,max=64,handle"`
	Description  string             `json:"description"`
	LogoURL      string             `json:"logo_url"`
	UserID       *uuid.UUID         `json:"user_id"`
	Public       bool               `json:"public"`
	APIType      string             `json:"api_type" validate:"omitempty,oneof=openapi"`
	APIURL       string             `json:"api_url" validate:"required"`
	AuthMethod   string             `json:"auth_method" validate:"omitempty,oneof=none bearer api_key"`
	AuthInfo     repository.JSONMap `json:"auth_info"`
	Capabilities repository.JSONMap `json:"capabilities"`
	HealthStatus string             `json:"health_status"`
	UsageNotes   string             `json:"usage_notes"`
}

// Tool builds the manifest a command describes, applying column defaults.
func (c Command) Tool() Tool {
	t := Tool{
		DisplayName:  c.DisplayName,
		Handle:       c.Handle,
		Description:  c.Description,
		LogoURL:      c.LogoURL,
		UserID:       c.UserID,
		Public:       c.Public,
		APIType:      c.APIType,
		APIURL:       c.APIURL,
		AuthMethod:   c.AuthMethod,
		AuthInfo:     c.AuthInfo,
		Capabilities: c.Capabilities,
		HealthStatus: c.HealthStatus,
		UsageNotes:   c.UsageNotes,
	}

	if t.APIType == "" {
		t.APIType = APITypeOpenAPI
	}
	if t.AuthMethod == "" {
		t.AuthMethod = AuthNone
	}
	if t.HealthStatus == "" {
		t.HealthStatus = HealthUnknown
	}
	if t.AuthInfo == nil {
		t.AuthInfo = repository.JSONMap{}
	}
	if t.Capabilities == nil {
		t.Capabilities = repository.JSONMap{}
	}
	return t
}
