// Package agents stores agent definitions: the prompt, model and tool set an
// instance chats through.
package agents

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a configured LLM persona.
type Agent struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ModelID     uuid.UUID  `json:"model_id"`
	Prompt      string     `json:"prompt"`
	Tools       ToolRefs   `json:"tools"`
	UserID      *uuid.UUID `json:"user_id"`
	Public      bool       `json:"public"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Redacted masks the auth_info of any resolved tool references.
func (a Agent) Redacted() Agent {
	if len(a.Tools) == 0 {
		return a
	}
	refs := make(ToolRefs, len(a.Tools))
	for i, ref := range a.Tools {
		if ref.Tool != nil {
			t := ref.Tool.Redacted()
			ref.Tool = &t
		}
		refs[i] = ref
	}
	a.Tools = refs
	return a
}

// CreateCommand contains the data required to create a new agent.
type CreateCommand struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	ModelID     uuid.UUID  `json:"model_id" validate:"required"`
	Prompt      string     `json:"prompt"`
	Tools       ToolRefs   `json:"tools"`
	UserID      *uuid.UUID `json:"user_id"`
	Public      bool       `json:"public"`
}

// UpdateCommand contains the data required to update an existing agent.
type UpdateCommand = CreateCommand
