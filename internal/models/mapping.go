package models

import (
	"net/url"

	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

var projection = query.
	NewProjectionMap("public", "models", "m").
	Project("id", "ID").
	Project("name", "Name").
	Project("provider_id", "ProviderID").
	Project("params", "Params").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = "RETURNING id, name, provider_id, params, created_at, updated_at"

func scanModel(s repository.Scanner) (Model, error) {
	var m Model
	err := s.Scan(&m.ID, &m.Name, &m.ProviderID, &m.Params, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Filters contains optional filtering criteria for model queries.
type Filters struct {
	Name       *string
	ProviderID *uuid.UUID
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if p := values.Get("provider_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.ProviderID = &id
		}
	}

	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.ProviderID != nil {
		b.WhereEquals("ProviderID", *f.ProviderID)
	}
	return b
}
