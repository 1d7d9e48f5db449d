package tools_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	header http.Header
	body   string
}

func captureServer(t *testing.T, status int, reply string) (*httptest.Server, <-chan captured) {
	t.Helper()

	ch := make(chan captured, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		ch <- captured{header: r.Header.Clone(), body: string(data)}
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	return srv, ch
}

func TestCallable_Call(t *testing.T) {
	tests := []struct {
		name       string
		authMethod string
		authInfo   map[string]any
		wantHeader string
		wantValue  string
	}{
		{
			name:       "no auth",
			authMethod: tools.AuthNone,
			wantHeader: "Authorization",
			wantValue:  "",
		},
		{
			name:       "bearer",
			authMethod: tools.AuthBearer,
			authInfo:   map[string]any{"token": "t0ken"},
			wantHeader: "Authorization",
			wantValue:  "Bearer t0ken",
		},
		{
			name:       "api key default header",
			authMethod: tools.AuthAPIKey,
			authInfo:   map[string]any{"key": "k3y"},
			wantHeader: "X-API-Key",
			wantValue:  "k3y",
		},
		{
			name:       "api key custom header",
			authMethod: tools.AuthAPIKey,
			authInfo:   map[string]any{"key": "k3y", "header": "X-Weather-Key"},
			wantHeader: "X-Weather-Key",
			wantValue:  "k3y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := captureServer(t, http.StatusOK, `{"temp":21}`)

			c := tools.NewCallable(tools.Tool{
				Handle:     "weather",
				APIURL:     srv.URL,
				AuthMethod: tt.authMethod,
				AuthInfo:   tt.authInfo,
			}, srv.Client(), 1024)

			out, err := c.Call(context.Background(), `{"city":"Oslo"}`)
			require.NoError(t, err)
			got := <-requests

			assert.Equal(t, `{"temp":21}`, out)
			assert.Equal(t, `{"city":"Oslo"}`, got.body)
			assert.Equal(t, "application/json", got.header.Get("Content-Type"))
			assert.Equal(t, tt.wantValue, got.header.Get(tt.wantHeader))
		})
	}
}

func TestCallable_Call_EmptyInput(t *testing.T) {
	srv, requests := captureServer(t, http.StatusOK, "ok")

	c := tools.NewCallable(tools.Tool{Handle: "ping", APIURL: srv.URL}, srv.Client(), 1024)

	_, err := c.Call(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "{}", (<-requests).body)
}

func TestCallable_Call_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv, _ := captureServer(t, http.StatusBadGateway, "upstream down")
		c := tools.NewCallable(tools.Tool{Handle: "weather", APIURL: srv.URL}, srv.Client(), 1024)

		_, err := c.Call(context.Background(), "{}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream down")
	})

	t.Run("bearer without token", func(t *testing.T) {
		srv, _ := captureServer(t, http.StatusOK, "")
		c := tools.NewCallable(tools.Tool{Handle: "weather", APIURL: srv.URL, AuthMethod: tools.AuthBearer}, srv.Client(), 1024)

		_, err := c.Call(context.Background(), "{}")
		assert.Error(t, err)
	})

	t.Run("unknown auth method", func(t *testing.T) {
		srv, _ := captureServer(t, http.StatusOK, "")
		c := tools.NewCallable(tools.Tool{Handle: "weather", APIURL: srv.URL, AuthMethod: "oauth"}, srv.Client(), 1024)

		_, err := c.Call(context.Background(), "{}")
		assert.ErrorContains(t, err, "unsupported auth method")
	})
}

func TestCallable_Call_TruncatesResponse(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, strings.Repeat("x", 100))
	c := tools.NewCallable(tools.Tool{Handle: "big", APIURL: srv.URL}, srv.Client(), 10)

	out, err := c.Call(context.Background(), "{}")
	require.NoError(t, err)
	assert.Len(t, out, 10)
}

func TestCallable_Parameters(t *testing.T) {
	declared := map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
	}

	c := tools.NewCallable(tools.Tool{
		Handle:       "weather",
		Capabilities: map[string]any{"parameters": declared},
	}, nil, 1024)
	assert.Equal(t, declared, c.Parameters())

	fallback := tools.NewCallable(tools.Tool{Handle: "weather"}, nil, 1024).Parameters()
	assert.Equal(t, "object", fallback["type"])
	assert.Contains(t, fallback["properties"], "input")
}

func TestCallable_NameAndDescription(t *testing.T) {
	c := tools.NewCallable(tools.Tool{
		Handle:      "weather",
		Description: "Forecasts",
		UsageNotes:  "Pass a city name",
	}, nil, 1024)

	assert.Equal(t, "weather", c.Name())
	assert.Equal(t, "Forecasts\n\nPass a city name", c.Description())
}
