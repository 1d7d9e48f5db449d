package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

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

// New creates a new models repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "model"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Model], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count models: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	models, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanModel)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}

	result := pagination.NewPageResult(models, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Model, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Model, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	q := `
		INSERT INTO models (name, provider_id, params)
		VALUES ($1, $2, $3)
		` + returning

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Model, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.ProviderID, cmd.Params}, scanModel)
	})
	if err != nil {
		return nil, mapError(err, ErrProvider)
	}

	r.logger.Info("model created", "id", m.ID, "name", m.Name)
	return &m, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Model, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	q := `
		UPDATE models
		SET name = $1, provider_id = $2, params = $3, updated_at = NOW()
		WHERE id = $4
		` + returning

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Model, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.ProviderID, cmd.Params, id}, scanModel)
	})
	if err != nil {
		return nil, mapError(err, ErrProvider)
	}

	r.logger.Info("model updated", "id", m.ID, "name", m.Name)
	return &m, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM models WHERE id = $1", id)
		return struct{}{}, err
	})
	if err != nil {
		return mapError(err, ErrInUse)
	}

	r.logger.Info("model deleted", "id", id)
	return nil
}

// mapError translates foreign key violations into reference, which differs
// between writes (missing provider) and deletes (model still in use).
func mapError(err, reference error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", reference, pgErr.ConstraintName)
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
