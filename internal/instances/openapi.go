package instances

import "github.com/JaimeStill/agent-instances/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Save   *openapi.Operation
	Lookup *openapi.Operation
	Find   *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
	Chat   *openapi.Operation
}

// Spec contains OpenAPI operation definitions for all instance endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List instances",
		Description: "Lists instances of the agents visible to the caller. limit applies per agent, each agent's instances newest first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("limit", "integer", "Maximum instances per agent", false),
			openapi.QueryParam("created_before", "string", "RFC 3339 upper bound on created_at (default now)", false),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Instances grouped by agent",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Instance")}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Save: &openapi.Operation{
		Summary:     "Create or update instance",
		Description: "Upserts by (title, agent_id). New instances get the title \"{title} {id}\"",
		RequestBody: openapi.RequestBodyJSON("SaveInstanceCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Persisted instance", "Instance"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Lookup: &openapi.Operation{
		Summary: "Find instance by title and agent",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("title", "string", "Instance title", true),
			openapi.QueryParam("agent_id", "string", "Agent UUID", true),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Instance", "Instance"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find instance by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Instance UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Instance", "Instance"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update instance",
		Description: "Applies the supplied fields only",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Instance UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateInstanceCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Instance updated", "Instance"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete instance",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Instance UUID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Instance deleted"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Chat: &openapi.Operation{
		Summary:     "Chat",
		Description: "Runs one function-calling round with the instance's agent and persists the exchange. The bearer token identifies the caller and authorizes tool resolution",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Instance UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("ChatCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Answer and updated instance", "ChatResult"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
}

// Schemas returns the instance domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	message := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"role":    {Type: "string", Enum: []any{"user", "assistant"}},
			"content": {Type: "string"},
		},
	}
	history := &openapi.Schema{Type: "array", Items: message}

	return map[string]*openapi.Schema{
		"Instance": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"title":        {Type: "string"},
				"agent_id":     {Type: "string", Format: "uuid"},
				"chat_history": history,
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"SaveInstanceCommand": {
			Type:     "object",
			Required: []string{"title", "agent_id"},
			Properties: map[string]*openapi.Schema{
				"title":        {Type: "string", Example: "weekly planning"},
				"agent_id":     {Type: "string", Format: "uuid"},
				"chat_history": history,
			},
		},
		"UpdateInstanceCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":        {Type: "string"},
				"agent_id":     {Type: "string", Format: "uuid"},
				"chat_history": history,
			},
		},
		"ChatCommand": {
			Type:     "object",
			Required: []string{"input"},
			Properties: map[string]*openapi.Schema{
				"input": {Type: "string", Example: "What is the weather in Oslo?"},
			},
		},
		"ChatResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"answer":     {Type: "string"},
				"rounds":     {Type: "integer"},
				"tool_calls": {Type: "array", Items: &openapi.Schema{Type: "object", AdditionalProperties: true}},
				"usage":      {Type: "object", AdditionalProperties: true},
				"instance":   openapi.SchemaRef("Instance"),
			},
		},
	}
}
