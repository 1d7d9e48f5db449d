package agents

import "github.com/JaimeStill/agent-instances/pkg/openapi"

// spec holds OpenAPI operation definitions for the agents domain.
type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Search *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

var filterParams = []*openapi.Parameter{
	openapi.QueryParam("name", "string", "Filter by agent name (contains)", false),
	openapi.QueryParam("model_id", "string", "Filter by model UUID", false),
	openapi.QueryParam("user_id", "string", "Filter by owning user UUID", false),
	openapi.QueryParam("public", "boolean", "Filter by visibility", false),
}

// Spec contains OpenAPI operation definitions for all agent endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List agents",
		Description: "Returns a paginated list of agents with optional filtering and sorting",
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search query (matches name or description)", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
		}, filterParams...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of agents", "AgentPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find agent by ID",
		Description: "Retrieves a single agent definition",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Agent UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent definition", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search agents",
		Description: "Search agents with filters and pagination via POST body",
		Parameters:  filterParams,
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated search results", "AgentPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create agent",
		RequestBody: openapi.RequestBodyJSON("AgentCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Agent created", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary: "Update agent",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Agent UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("AgentCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent updated", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete agent",
		Description: "Removes an agent and all of its instances",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Agent UUID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Agent deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the agent domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	toolRef := &openapi.Schema{
		Description: "A tool handle, or a resolved tool manifest",
		OneOf: []*openapi.Schema{
			{Type: "string", Example: "weather"},
			openapi.SchemaRef("Tool"),
		},
	}

	return map[string]*openapi.Schema{
		"Agent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"model_id":    {Type: "string", Format: "uuid"},
				"prompt":      {Type: "string"},
				"tools":       {Type: "array", Items: toolRef},
				"user_id":     {Type: "string", Format: "uuid"},
				"public":      {Type: "boolean"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"AgentCommand": {
			Type:     "object",
			Required: []string{"name", "model_id"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string", MaxLength: 200, Example: "forecaster"},
				"description": {Type: "string", MaxLength: 1000},
				"model_id":    {Type: "string", Format: "uuid"},
				"prompt":      {Type: "string", Example: "You are a concise weather assistant."},
				"tools":       {Type: "array", Items: toolRef},
				"user_id":     {Type: "string", Format: "uuid"},
				"public":      {Type: "boolean"},
			},
		},
		"AgentPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Agent")},
				"total":       {Type: "integer", Description: "Total number of results"},
				"page":        {Type: "integer", Description: "Current page number"},
				"page_size":   {Type: "integer", Description: "Results per page"},
				"total_pages": {Type: "integer", Description: "Total number of pages"},
			},
		},
	}
}
