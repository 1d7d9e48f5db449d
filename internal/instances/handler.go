package instances

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/auth"
	"github.com/JaimeStill/agent-instances/pkg/handlers"
	"github.com/JaimeStill/agent-instances/pkg/routes"
	"github.com/google/uuid"
)

// Handler provides HTTP handlers for instances.
type Handler struct {
	sys      System
	verifier tools.TokenVerifier
	logger   *slog.Logger
}

// NewHandler creates a new instances HTTP handler.
func NewHandler(sys System, verifier tools.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		verifier: verifier,
		logger:   logger,
	}
}

// Routes returns the route group configuration for instance endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/instances",
		Tags:        []string{"Instances"},
		Description: "Conversation sessions bound to an agent",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Save, OpenAPI: Spec.Save},
			{Method: "GET", Pattern: "/lookup", Handler: h.Lookup, OpenAPI: Spec.Lookup},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/{id}/chat", Handler: h.Chat, OpenAPI: Spec.Chat},
		},
	}
}

// List handles GET /instances. Without a bearer token only instances of
// public agents are listed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	limit := 0
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: limit", ErrInvalidArgument))
			return
		}
		limit = n
	}

	var createdBefore time.Time
	if v := values.Get("created_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: created_before", ErrInvalidArgument))
			return
		}
		createdBefore = t
	}

	userID := uuid.Nil
	if token := auth.BearerToken(r); token != "" {
		id, err := h.caller(token)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
			return
		}
		userID = id
	}

	result, err := h.sys.List(r.Context(), limit, createdBefore, userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Save handles POST /instances.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Save(r.Context(), cmd.Instance())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Lookup handles GET /instances/lookup?title=&agent_id=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.URL.Query().Get("agent_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: agent_id", ErrInvalidArgument))
		return
	}

	result, err := h.sys.FindByTitleAndAgent(r.Context(), r.URL.Query().Get("title"), agentID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /instances/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update handles PATCH /instances/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /instances/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Chat handles POST /instances/{id}/chat. The bearer token is both the
// caller's identity and the credential used to resolve the agent's tools.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	token := auth.BearerToken(r)
	userID, err := h.caller(token)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	var cmd ChatCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if cmd.Input == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: input required", ErrInvalidArgument))
		return
	}

	inst, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.Chat(r.Context(), inst, cmd.Input, token, userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ChatResult{Result: result, Instance: inst})
}

func (h *Handler) caller(token string) (uuid.UUID, error) {
	claims, err := h.verifier.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}
