package routes

import (
	"net/http"

	"github.com/JaimeStill/agent-instances/pkg/openapi"
)

// Register mounts every group onto mux and records its operations in spec.
// Mux patterns are relative to the module prefix; spec paths carry basePath so
// the document describes the public URLs.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, spec, "", group)
	}
}

func registerGroup(mux *http.ServeMux, basePath string, spec *openapi.Spec, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		pattern := prefix + route.Pattern
		mux.HandleFunc(route.Method+" "+pattern, route.Handler)

		if spec == nil || route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(route.Method, basePath+pattern, op)
	}

	for _, child := range group.Children {
		registerGroup(mux, basePath, spec, prefix, child)
	}
}
