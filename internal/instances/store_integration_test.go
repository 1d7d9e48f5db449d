//go:build integration

package instances_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/instances"
	"github.com/JaimeStill/agent-instances/internal/migrations"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/auth"
	"github.com/JaimeStill/agent-instances/pkg/database"
	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("agent_instances"),
		postgres.WithUsername("agent"),
		postgres.WithPassword("agent"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, migrations.FS, migrations.Dir, discard()))
	return db
}

// seedAgent creates a provider, model and agent and returns the agent.
func seedAgent(t *testing.T, db *sql.DB, name string, owner *uuid.UUID, public bool) agents.Agent {
	t.Helper()
	ctx := context.Background()
	page := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	p, err := providers.New(db, discard(), page).Create(ctx, providers.CreateCommand{
		Name:   "provider-" + name,
		APIURL: "http://llm.local/v1",
	})
	require.NoError(t, err)

	m, err := models.New(db, discard(), page).Create(ctx, models.CreateCommand{
		Name:       "gpt-test",
		ProviderID: p.ID,
	})
	require.NoError(t, err)

	a, err := agents.New(db, discard(), page).Create(ctx, agents.CreateCommand{
		Name:    name,
		ModelID: m.ID,
		Prompt:  "You are helpful.",
		Tools:   agents.ToolRefs{agents.Unresolved("weather")},
		UserID:  owner,
		Public:  public,
	})
	require.NoError(t, err)
	return *a
}

func TestPostgresStore(t *testing.T) {
	db := startPostgres(t)
	store := instances.NewStore(db)
	ctx := context.Background()

	agent := seedAgent(t, db, "store", nil, true)

	created, err := store.Insert(ctx, instances.Instance{
		Title:       "planning",
		AgentID:     agent.ID,
		ChatHistory: history("hi", "hello"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.ChatHistory.Equal(history("hi", "hello")))

	_, err = store.Insert(ctx, instances.Instance{Title: "planning", AgentID: agent.ID})
	assert.ErrorIs(t, err, instances.ErrDuplicate)

	_, err = store.Insert(ctx, instances.Instance{Title: "orphan", AgentID: uuid.New()})
	assert.ErrorIs(t, err, agents.ErrNotFound)

	found, err := store.FindByTitleAndAgent(ctx, "planning", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.FindByTitleAndAgent(ctx, "absent", agent.ID)
	assert.ErrorIs(t, err, instances.ErrNotFound)

	found.ChatHistory = history("hi", "hello", "again", "sure")
	replaced, err := store.Replace(ctx, *found)
	require.NoError(t, err)
	assert.Len(t, replaced.ChatHistory, 4)

	title := "renamed"
	patched, err := store.Patch(ctx, created.ID, instances.UpdateCommand{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", patched.Title)
	assert.Len(t, patched.ChatHistory, 4)

	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), instances.ErrNotFound)
	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Find(ctx, created.ID)
	assert.ErrorIs(t, err, instances.ErrNotFound)
}

func TestPostgresStore_FindRenamed(t *testing.T) {
	db := startPostgres(t)
	store := instances.NewStore(db)
	ctx := context.Background()

	agent := seedAgent(t, db, "renamed", nil, true)

	created, err := store.Insert(ctx, instances.Instance{Title: "planning", AgentID: agent.ID})
	require.NoError(t, err)

	_, err = store.FindRenamed(ctx, "planning", agent.ID)
	assert.ErrorIs(t, err, instances.ErrNotFound)

	created.Title = "planning " + created.ID.String()
	_, err = store.Replace(ctx, *created)
	require.NoError(t, err)

	found, err := store.FindRenamed(ctx, "planning", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.FindRenamed(ctx, "plan", agent.ID)
	assert.ErrorIs(t, err, instances.ErrNotFound)
}

func TestPostgresStore_ListByAgent(t *testing.T) {
	db := startPostgres(t)
	store := instances.NewStore(db)
	ctx := context.Background()

	agent := seedAgent(t, db, "lister", nil, true)

	var ids []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		inst, err := store.Insert(ctx, instances.Instance{Title: title, AgentID: agent.ID})
		require.NoError(t, err)
		ids = append(ids, inst.ID)
		time.Sleep(10 * time.Millisecond)
	}

	got, err := store.ListByAgent(ctx, agent.ID, time.Now().Add(time.Minute), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
}

func TestManager_Postgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	mine := seedAgent(t, db, "mine", &owner, false)
	shared := seedAgent(t, db, "shared", nil, true)

	sys := instances.New(instances.NewStore(db), instances.Systems{
		Agents: agents.New(db, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}),
	}, instances.Config{}, discard())

	first, err := sys.Save(ctx, instances.Instance{Title: "planning", AgentID: mine.ID})
	require.NoError(t, err)
	assert.Equal(t, "planning "+first.ID.String(), first.Title)

	again, err := sys.Save(ctx, *first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.UpdatedAt, again.UpdatedAt)

	_, err = sys.Save(ctx, instances.Instance{Title: "standup", AgentID: shared.ID})
	require.NoError(t, err)

	all, err := sys.List(ctx, 10, time.Time{}, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := sys.List(ctx, 10, time.Time{}, stranger)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, shared.ID, public[0].AgentID)
}

func TestToolLookup_Postgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	verifier := auth.NewVerifier(&auth.Config{Secret: "integration"})
	sys := tools.New(db, verifier, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	user := uuid.New()
	token, err := verifier.Sign(&auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   user.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	require.NoError(t, err)

	_, err = sys.Create(ctx, tools.Command{
		DisplayName: "Public weather",
		Handle:      "weather",
		APIURL:      "https://example.com/public",
		Public:      true,
	})
	require.NoError(t, err)

	got, err := sys.FindByHandle(ctx, token, "weather", user)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/public", got.APIURL)

	_, err = sys.Create(ctx, tools.Command{
		DisplayName: "My weather",
		Handle:      "weather",
		APIURL:      "https://example.com/mine",
		UserID:      &user,
	})
	require.NoError(t, err)

	got, err = sys.FindByHandle(ctx, token, "weather", user)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/mine", got.APIURL)

	_, err = sys.FindByHandle(ctx, token, "calendar", user)
	assert.True(t, errors.Is(err, tools.ErrNotFound))

	_, err = sys.Create(ctx, tools.Command{
		DisplayName: "Duplicate",
		Handle:      "weather",
		APIURL:      "https://example.com/dup",
		UserID:      &user,
	})
	assert.ErrorIs(t, err, tools.ErrDuplicate)
}
