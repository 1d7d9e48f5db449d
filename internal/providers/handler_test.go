package providers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/JaimeStill/agent-instances/pkg/routes"
	"github.com/google/uuid"
)

type fakeSystem struct {
	byID map[uuid.UUID]providers.Provider
}

func (f *fakeSystem) List(_ context.Context, page pagination.PageRequest, _ providers.Filters) (*pagination.PageResult[providers.Provider], error) {
	var data []providers.Provider
	for _, p := range f.byID {
		data = append(data, p)
	}
	result := pagination.NewPageResult(data, len(data), page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Find(_ context.Context, id uuid.UUID) (*providers.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return &p, nil
}

func (f *fakeSystem) Create(_ context.Context, cmd providers.CreateCommand) (*providers.Provider, error) {
	for _, p := range f.byID {
		if p.Name == cmd.Name {
			return nil, providers.ErrDuplicate
		}
	}
	p := providers.Provider{ID: uuid.New(), Name: cmd.Name, APIURL: cmd.APIURL, APIKey: cmd.APIKey}
	f.byID[p.ID] = p
	return &p, nil
}

func (f *fakeSystem) Update(_ context.Context, id uuid.UUID, cmd providers.UpdateCommand) (*providers.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, providers.ErrNotFound
	}
	p.Name, p.APIURL = cmd.Name, cmd.APIURL
	f.byID[id] = p
	return &p, nil
}

func (f *fakeSystem) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return providers.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func newServer(t *testing.T) (*httptest.Server, *fakeSystem) {
	t.Helper()
	sys := &fakeSystem{byID: map[uuid.UUID]providers.Provider{}}
	h := providers.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	mux := http.NewServeMux()
	routes.Register(mux, "", nil, h.Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, sys
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestHandler_CreateHidesKey(t *testing.T) {
	srv, _ := newServer(t)

	status, body := do(t, http.MethodPost, srv.URL+"/providers",
		`{"name":"local","api_url":"http://llm.local/v1","api_key":"sk-secret"}`)

	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}
	if strings.Contains(body, "sk-secret") {
		t.Errorf("api key leaked: %s", body)
	}

	status, _ = do(t, http.MethodPost, srv.URL+"/providers",
		`{"name":"local","api_url":"http://llm.local/v1"}`)
	if status != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", status, http.StatusConflict)
	}
}

func TestHandler_Errors(t *testing.T) {
	srv, sys := newServer(t)
	existing := uuid.New()
	sys.byID[existing] = providers.Provider{ID: existing, Name: "p", APIURL: "http://p.local"}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"find missing", http.MethodGet, "/providers/" + uuid.NewString(), "", http.StatusNotFound},
		{"find bad id", http.MethodGet, "/providers/nope", "", http.StatusBadRequest},
		{"create bad json", http.MethodPost, "/providers", "{", http.StatusBadRequest},
		{"update missing", http.MethodPut, "/providers/" + uuid.NewString(), `{"name":"x","api_url":"http://x"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/providers/" + uuid.NewString(), "", http.StatusNotFound},
		{"find existing", http.MethodGet, "/providers/" + existing.String(), "", http.StatusOK},
		{"list", http.MethodGet, "/providers", "", http.StatusOK},
		{"delete existing", http.MethodDelete, "/providers/" + existing.String(), "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d (body %s)", status, tt.want, body)
			}
		})
	}
}
