package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/agent-instances/pkg/openapi"
	"github.com/JaimeStill/agent-instances/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("test", "0.0.1")

	list := &openapi.Operation{Summary: "List widgets"}
	find := &openapi.Operation{Summary: "Find widget", Tags: []string{"Custom"}}

	group := routes.Group{
		Prefix: "/widgets",
		Tags:   []string{"Widgets"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("list"))
			}, OpenAPI: list},
			{Method: "GET", Pattern: "/{id}", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(r.PathValue("id")))
			}, OpenAPI: find},
		},
		Children: []routes.Group{
			{
				Prefix: "/parts",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(http.StatusCreated)
					}},
				},
			},
		},
	}

	routes.Register(mux, "/api", spec, group)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"list", http.MethodGet, "/widgets", http.StatusOK, "list"},
		{"find", http.MethodGet, "/widgets/abc", http.StatusOK, "abc"},
		{"child", http.MethodPost, "/widgets/parts", http.StatusCreated, ""},
		{"wrong method", http.MethodDelete, "/widgets", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}

	item, ok := spec.Paths["/api/widgets"]
	if !ok || item.Get != list {
		t.Fatal("spec missing GET /api/widgets")
	}
	if got := list.Tags; len(got) != 1 || got[0] != "Widgets" {
		t.Errorf("list tags = %v, want [Widgets]", got)
	}
	if got := find.Tags; len(got) != 1 || got[0] != "Custom" {
		t.Errorf("find tags = %v, want [Custom]", got)
	}
	if _, ok := spec.Paths["/api/widgets/parts"]; ok {
		t.Error("routes without an operation should not appear in spec")
	}
}
