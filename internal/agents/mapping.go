package agents

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

var projection = query.
	NewProjectionMap("public", "agents", "a").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("model_id", "ModelID").
	Project("prompt", "Prompt").
	Project("tools", "Tools").
	Project("user_id", "UserID").
	Project("public", "Public").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = "RETURNING id, name, description, model_id, prompt, tools, user_id, public, created_at, updated_at"

func scanAgent(s repository.Scanner) (Agent, error) {
	var a Agent
	err := s.Scan(
		&a.ID, &a.Name, &a.Description, &a.ModelID, &a.Prompt,
		&a.Tools, &a.UserID, &a.Public, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Filters contains optional filtering criteria for agent queries.
type Filters struct {
	Name    *string
	ModelID *uuid.UUID
	UserID  *uuid.UUID
	Public  *bool
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if m := values.Get("model_id"); m != "" {
		if id, err := uuid.Parse(m); err == nil {
			f.ModelID = &id
		}
	}
	if u := values.Get("user_id"); u != "" {
		if id, err := uuid.Parse(u); err == nil {
			f.UserID = &id
		}
	}
	if p := values.Get("public"); p != "" {
		if b, err := strconv.ParseBool(p); err == nil {
			f.Public = &b
		}
	}

	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.ModelID != nil {
		b.WhereEquals("ModelID", *f.ModelID)
	}
	if f.UserID != nil {
		b.WhereEquals("UserID", *f.UserID)
	}
	if f.Public != nil {
		b.WhereEquals("Public", *f.Public)
	}
	return b
}
