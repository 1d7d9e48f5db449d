package models

import "github.com/JaimeStill/agent-instances/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Search *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

// Spec contains OpenAPI operation definitions for all model endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List models",
		Description: "Returns a paginated list of models with optional filtering and sorting",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search query (matches name)", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
			openapi.QueryParam("name", "string", "Filter by model name (contains)", false),
			openapi.QueryParam("provider_id", "string", "Filter by provider UUID", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of models", "ModelPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find model by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Model UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Model", "Model"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary: "Search models",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("name", "string", "Filter by model name (contains)", false),
			openapi.QueryParam("provider_id", "string", "Filter by provider UUID", false),
		},
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated search results", "ModelPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create model",
		RequestBody: openapi.RequestBodyJSON("ModelCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Model created", "Model"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary: "Update model",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Model UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("ModelCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Model updated", "Model"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete model",
		Description: "Fails with 409 while an agent still references the model",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Model UUID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Model deleted"},
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

// Schemas returns the model domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	params := &openapi.Schema{
		Type:                 "object",
		Description:          "Extra chat completion parameters such as temperature or max_tokens",
		AdditionalProperties: true,
	}

	return map[string]*openapi.Schema{
		"Model": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"name":        {Type: "string", Example: "gpt-4o-mini"},
				"provider_id": {Type: "string", Format: "uuid"},
				"params":      params,
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ModelCommand": {
			Type:     "object",
			Required: []string{"name", "provider_id"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string", MaxLength: 200},
				"provider_id": {Type: "string", Format: "uuid"},
				"params":      params,
			},
		},
		"ModelPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Model")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
