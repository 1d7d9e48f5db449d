package providers

import (
	"time"

	"github.com/google/uuid"
)

// Provider is an OpenAI-compatible endpoint and the credential used to call it.
// The API key is never serialized.
type Provider struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	APIURL    string    `json:"api_url"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAPIKey reports whether a credential is stored for the provider.
func (p Provider) HasAPIKey() bool {
	return p.APIKey != ""
}

// CreateCommand contains the data required to create a new provider.
type CreateCommand struct {
	Name   string `json:"name" validate:"required,max=100"`
	APIURL string `json:"api_url" validate:"required,url"`
	APIKey string `json:"api_key"`
}

// UpdateCommand contains the data required to update an existing provider.
// An empty APIKey keeps the stored key.
type UpdateCommand struct {
	Name   string `json:"name" validate:"required,max=100"`
	APIURL string `json:"api_url" validate:"required,url"`
	APIKey string `json:"api_key"`
}
