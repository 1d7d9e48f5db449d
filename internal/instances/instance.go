// Package instances manages conversation sessions bound to an agent: the
// chat round that grows their history and the create-or-update path that
// persists them.
package instances

import (
	"database/sql/driver"
	"slices"
	"time"

	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

// Instance is a persisted conversation with one agent. (Title, AgentID) is
// its business key.
type Instance struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	AgentID     uuid.UUID `json:"agent_id"`
	ChatHistory History   `json:"chat_history"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is one turn of chat history.
type Message = completions.Message

// History is the ordered chat history stored in the chat_history jsonb column.
type History []Message

// Clone returns a copy that can be appended to without touching h.
func (h History) Clone() History {
	out := make(History, len(h), len(h)+2)
	copy(out, h)
	return out
}

// Equal reports whether both histories hold the same turns in the same order.
// A nil history equals an empty one.
func (h History) Equal(other History) bool {
	return slices.Equal(h, other)
}

// Scan implements sql.Scanner.
func (h *History) Scan(src any) error {
	var out History
	if err := repository.ScanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = History{}
	}
	*h = out
	return nil
}

// Value implements driver.Valuer. A nil history is stored as an empty array.
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return repository.JSONValue([]Message(h))
}

// UpdateCommand is a partial update. Nil fields are left unchanged.
type UpdateCommand struct {
	Title       *string    `json:"title,omitempty"`
	AgentID     *uuid.UUID `json:"agent_id,omitempty"`
	ChatHistory *History   `json:"chat_history,omitempty"`
}

// Empty reports whether the command changes nothing.
func (c UpdateCommand) Empty() bool {
	return c.Title == nil && c.AgentID == nil && c.ChatHistory == nil
}

// SaveCommand is the body of a create-or-update request.
type SaveCommand struct {
	Title       string    `json:"title"`
	AgentID     uuid.UUID `json:"agent_id"`
	ChatHistory History   `json:"chat_history"`
}

// Instance returns the unsaved instance the command describes.
func (c SaveCommand) Instance() Instance {
	return Instance{
		Title:       c.Title,
		AgentID:     c.AgentID,
		ChatHistory: c.ChatHistory,
	}
}

// ChatCommand is the body of a chat request. The user is taken from the
// bearer token.
type ChatCommand struct {
	Input string `json:"input"`
}

// ChatResult is the response to a chat request: the answer plus the
// instance as persisted after the exchange.
type ChatResult struct {
	*completions.Result
	Instance *Instance `json:"instance"`
}
