package tools

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/google/uuid"
)

var projection = query.
	NewProjectionMap("public", "mcp_tools", "t").
	Project("id", "ID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("display_name", "DisplayName").
	Project("handle", "Handle").
	Project("description", "Description").
	Project("logo_url", "LogoURL").
	Project("user_id", "UserID").
	Project("public", "Public").
	Project("api_type", "APIType").
	Project("api_url", "APIURL").
	Project("auth_method", "AuthMethod").
	Project("auth_info", "AuthInfo").
	Project("capabilities", "Capabilities").
	Project("health_status", "HealthStatus").
	Project("usage_notes", "UsageNotes")

var defaultSort = query.SortField{Field: "Handle"}

const columns = `id, created_at, updated_at, display_name, handle, description, logo_url,
	user_id, public, api_type, api_url, auth_method, auth_info, capabilities,
	health_status, usage_notes`

// Filters contains optional filtering criteria for tool queries.
type Filters struct {
	Handle     *string
	UserID     *uuid.UUID
	Public     *bool
	AuthMethod *string
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if h := values.Get("handle"); h != "" {
		f.Handle = &h
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
	if m := values.Get("auth_method"); m != "" {
		f.AuthMethod = &m
	}

	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Handle", f.Handle)
	if f.UserID != nil {
		b.WhereEquals("UserID", *f.UserID)
	}
	if f.Public != nil {
		b.WhereEquals("Public", *f.Public)
	}
	if f.AuthMethod != nil {
		b.WhereEquals("AuthMethod", *f.AuthMethod)
	}
	return b
}
