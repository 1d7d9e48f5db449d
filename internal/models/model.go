package models

import (
	"time"

	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

// Model is a named LLM served by a provider, with the request parameters
// sent alongside every chat call.
type Model struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	ProviderID uuid.UUID          `json:"provider_id"`
	Params     repository.JSONMap `json:"params"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// CreateCommand contains the data required to create a new model.
type CreateCommand struct {
	Name       string             `json:"name" validate:"required,max=200"`
	ProviderID uuid.UUID          `json:"provider_id" validate:"required"`
	Params     repository.JSONMap `json:"params"`
}

// UpdateCommand contains the data required to update an existing model.
type UpdateCommand struct {
	Name       string             `json:"name" validate:"required,max=200"`
	ProviderID uuid.UUID          `json:"provider_id" validate:"required"`
	Params     repository.JSONMap `json:"params"`
}
