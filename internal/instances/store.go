package instances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the row store for the instances table. Each call is atomic on its
// own; nothing spans calls.
type Store interface {
	// FindByTitleAndAgent returns the newest row with the pair, or ErrNotFound.
	FindByTitleAndAgent(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error)
	Find(ctx context.Context, id uuid.UUID) (*Instance, error)

	// FindRenamed returns the newest row for the agent whose title is
	// "{title} {id}", or ErrNotFound.
	FindRenamed(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error)

	// Insert returns ErrDuplicate when (title, agent) already exists.
	Insert(ctx context.Context, inst Instance) (*Instance, error)

	// Replace writes every writable field of inst to the row with inst.ID.
	Replace(ctx context.Context, inst Instance) (*Instance, error)
	Patch(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Instance, error)

	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAgent returns up to limit rows for the agent created before
	// createdBefore, newest first.
	ListByAgent(ctx context.Context, agentID uuid.UUID, createdBefore time.Time, limit int) ([]Instance, error)
}

const pgForeignKeyViolation = "23503"

var projection = query.
	NewProjectionMap("public", "instances", "i").
	Project("id", "ID").
	Project("title", "Title").
	Project("agent_id", "AgentID").
	Project("chat_history", "ChatHistory").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = "RETURNING id, title, agent_id, chat_history, created_at, updated_at"

func scanInstance(s repository.Scanner) (Instance, error) {
	var i Instance
	err := s.Scan(&i.ID, &i.Title, &i.AgentID, &i.ChatHistory, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

type pgStore struct {
	db *sql.DB
}

// NewStore creates a Store backed by the instances table.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) FindByTitleAndAgent(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Title", title).
		WhereEquals("AgentID", agentID).
		BuildLimit(1)

	i, err := repository.QueryOne(ctx, s.db, q, args, scanInstance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (s *pgStore) Find(ctx context.Context, id uuid.UUID) (*Instance, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, s.db, q, args, scanInstance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (s *pgStore) FindRenamed(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error) {
	q := `
		SELECT id, title, agent_id, chat_history, created_at, updated_at
		FROM instances
		WHERE agent_id = $2 AND title = $1 || ' ' || id::text
		ORDER BY created_at DESC
		LIMIT 1`

	i, err := repository.QueryOne(ctx, s.db, q, []any{title, agentID}, scanInstance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (s *pgStore) Insert(ctx context.Context, inst Instance) (*Instance, error) {
	q := `
		INSERT INTO instances (title, agent_id, chat_history)
		VALUES ($1, $2, $3)
		` + returning

	i, err := repository.QueryOne(ctx, s.db, q, []any{inst.Title, inst.AgentID, inst.ChatHistory}, scanInstance)
	if err != nil {
		return nil, mapError(err)
	}
	return &i, nil
}

func (s *pgStore) Replace(ctx context.Context, inst Instance) (*Instance, error) {
	q := `
		UPDATE instances
		SET title = $1, agent_id = $2, chat_history = $3, updated_at = NOW()
		WHERE id = $4
		` + returning

	i, err := repository.QueryOne(ctx, s.db, q, []any{inst.Title, inst.AgentID, inst.ChatHistory, inst.ID}, scanInstance)
	if err != nil {
		return nil, mapError(err)
	}
	return &i, nil
}

func (s *pgStore) Patch(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Instance, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if cmd.Title != nil {
		set("title", *cmd.Title)
	}
	if cmd.AgentID != nil {
		set("agent_id", *cmd.AgentID)
	}
	if cmd.ChatHistory != nil {
		set("chat_history", *cmd.ChatHistory)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidArgument)
	}

	args = append(args, id)
	q := fmt.Sprintf(
		"UPDATE instances SET %s, updated_at = NOW() WHERE id = $%d %s",
		strings.Join(sets, ", "), len(args), returning,
	)

	i, err := repository.QueryOne(ctx, s.db, q, args, scanInstance)
	if err != nil {
		return nil, mapError(err)
	}
	return &i, nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, s.db, "DELETE FROM instances WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (s *pgStore) ListByAgent(ctx context.Context, agentID uuid.UUID, createdBefore time.Time, limit int) ([]Instance, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("AgentID", agentID).
		WhereBefore("CreatedAt", createdBefore).
		BuildLimit(limit)

	out, err := repository.QueryMany(ctx, s.db, q, args, scanInstance)
	if err != nil {
		return nil, fmt.Errorf("query instances for agent %s: %w", agentID, err)
	}
	return out, nil
}

// mapError reports a missing agent as agents.ErrNotFound.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", agents.ErrNotFound, pgErr.ConstraintName)
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
