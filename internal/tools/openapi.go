package tools

import "github.com/JaimeStill/agent-instances/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Resolve  *openapi.Operation
	Search   *openapi.Operation
	Validate *openapi.Operation
	Create   *openapi.Operation
	Update   *openapi.Operation
	Delete   *openapi.Operation
}

var filterParams = []*openapi.Parameter{
	openapi.QueryParam("handle", "string", "Filter by handle (contains)", false),
	openapi.QueryParam("user_id", "string", "Filter by owning user UUID", false),
	openapi.QueryParam("public", "boolean", "Filter by visibility", false),
	openapi.QueryParam("auth_method", "string", "Filter by auth method", false),
}

// Spec contains OpenAPI operation definitions for all tool endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List tools",
		Description: "Returns a paginated list of tool manifests. auth_info values are masked",
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search handle, display name and description", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
		}, filterParams...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of tools", "ToolPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find tool by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Tool UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Tool manifest", "Tool"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Resolve: &openapi.Operation{
		Summary:     "Resolve tool by handle",
		Description: "Returns the caller's own tool with the handle, or a public one. Requires a bearer token whose subject is user_id",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("handle", "Tool handle"),
			openapi.QueryParam("user_id", "string", "Calling user UUID", true),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Tool manifest", "Tool"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search tools",
		Parameters:  filterParams,
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated search results", "ToolPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Validate: &openapi.Operation{
		Summary:     "Validate manifest",
		Description: "Checks display_name, description, api_url and logo_url without persisting",
		RequestBody: openapi.RequestBodyJSON("ToolCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Manifest is valid", "ToolValidation"),
			400: openapi.ResponseJSON("First failing field", "ToolValidation"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create tool",
		RequestBody: openapi.RequestBodyJSON("ToolCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Tool created", "Tool"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary: "Update tool",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Tool UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("ToolCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Tool updated", "Tool"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete tool",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Tool UUID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Tool deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the tool domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	fields := func() map[string]*openapi.Schema {
		return map[string]*openapi.Schema{
			"display_name":  {Type: "string", MaxLength: MaxDisplayNameLength, Example: "Weather API"},
			"handle":        {Type: "string", MaxLength: 64, Example: "weather"},
			"description":   {Type: "string", MaxLength: MaxDescriptionLength},
			"logo_url":      {Type: "string", Format: "uri"},
			"user_id":       {Type: "string", Format: "uuid"},
			"public":        {Type: "boolean"},
			"api_type":      {Type: "string", Enum: []any{APITypeOpenAPI}},
			"api_url":       {Type: "string", Format: "uri"},
			"auth_method":   {Type: "string", Enum: []any{AuthNone, AuthBearer, AuthAPIKey}},
			"auth_info":     {Type: "object", Description: "token, or header and key", AdditionalProperties: true},
			"capabilities":  {Type: "object", Description: "parameters holds the JSON schema for call arguments", AdditionalProperties: true},
			"health_status": {Type: "string"},
			"usage_notes":   {Type: "string"},
		}
	}

	tool := fields()
	tool["id"] = &openapi.Schema{Type: "string", Format: "uuid"}
	tool["created_at"] = &openapi.Schema{Type: "string", Format: "date-time"}
	tool["updated_at"] = &openapi.Schema{Type: "string", Format: "date-time"}

	return map[string]*openapi.Schema{
		"Tool": {Type: "object", Properties: tool},
		"ToolCommand": {
			Type:       "object",
			Required:   []string{"display_name", "handle", "api_url"},
			Properties: fields(),
		},
		"ToolValidation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"valid": {Type: "boolean"},
				"error": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"field": {Type: "string"},
						"rule":  {Type: "string"},
						"value": {},
					},
				},
			},
		},
		"ToolPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Tool")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
