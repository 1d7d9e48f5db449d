package agents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/JaimeStill/agent-instances/pkg/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

var validate = validation.New()

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a new agents repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "agent"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	agents, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	result := pagination.NewPageResult(agents, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Agent, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) ListVisible(ctx context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]Agent, error) {
	var owner any
	if userID != uuid.Nil {
		owner = userID
	}

	q, args := query.
		NewBuilder(projection).
		WhereOwnedOrPublic("UserID", "Public", owner).
		WhereBefore("CreatedAt", createdBefore).
		OrderBy("CreatedAt", true).
		BuildLimit(limit)

	agents, err := repository.QueryMany(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query visible agents: %w", err)
	}
	return agents, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Agent, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAgent, err)
	}

	q := `
		INSERT INTO agents (name, description, model_id, prompt, tools, user_id, public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, writeArgs(cmd), scanAgent)
	})
	if err != nil {
		return nil, mapError(err, ErrModel)
	}

	r.logger.Info("agent created", "id", a.ID, "name", a.Name, "tools", len(a.Tools))
	return &a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agent, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAgent, err)
	}

	q := `
		UPDATE agents
		SET name = $1, description = $2, model_id = $3, prompt = $4, tools = $5,
			user_id = $6, public = $7, updated_at = NOW()
		WHERE id = $8
		` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, append(writeArgs(cmd), id), scanAgent)
	})
	if err != nil {
		return nil, mapError(err, ErrModel)
	}

	r.logger.Info("agent updated", "id", a.ID, "name", a.Name)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM agents WHERE id = $1", id)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent deleted", "id", id)
	return nil
}

func writeArgs(cmd CreateCommand) []any {
	return []any{
		cmd.Name, cmd.Description, cmd.ModelID, cmd.Prompt,
		cmd.Tools, cmd.UserID, cmd.Public,
	}
}

// mapError reports a missing model as reference instead of a store error.
func mapError(err, reference error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", reference, pgErr.ConstraintName)
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
