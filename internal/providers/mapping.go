package providers

import (
	"net/url"

	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "providers", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("api_url", "APIURL").
	Project("api_key", "APIKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = "RETURNING id, name, api_url, api_key, created_at, updated_at"

func scanProvider(s repository.Scanner) (Provider, error) {
	var p Provider
	err := s.Scan(&p.ID, &p.Name, &p.APIURL, &p.APIKey, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Filters contains optional filtering criteria for provider queries.
type Filters struct {
	Name *string
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var name *string
	if n := values.Get("name"); n != "" {
		name = &n
	}

	return Filters{
		Name: name,
	}
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}
