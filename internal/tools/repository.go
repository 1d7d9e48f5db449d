package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/JaimeStill/agent-instances/pkg/query"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	verifier   TokenVerifier
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a new tools repository implementing the System interface.
func New(db *sql.DB, verifier TokenVerifier, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		verifier:   verifier,
		logger:     logger.With("system", "tool"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Tool], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Handle", "DisplayName", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tools: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tools := make([]Tool, 0)
	if err := sqlscan.Select(ctx, r.db, &tools, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("query tools: %w", err)
	}

	result := pagination.NewPageResult(tools, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Tool, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	var t Tool
	if err := sqlscan.Get(ctx, r.db, &t, q, args...); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) FindByHandle(ctx context.Context, accessToken, handle string, userID uuid.UUID) (*Tool, error) {
	if handle == "" || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: handle and user id required", ErrInvalidArgument)
	}
	if err := r.authorize(accessToken, userID); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE t.handle = $1 AND (t.user_id = $2 OR t.public = TRUE)
		ORDER BY (t.user_id IS NOT DISTINCT FROM $2) DESC, t.created_at ASC
		LIMIT 1`,
		projection.Columns(), projection.Table(),
	)

	var t Tool
	if err := sqlscan.Get(ctx, r.db, &t, q, handle, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, handle)
		}
		return nil, fmt.Errorf("find tool %s: %w", handle, err)
	}
	return &t, nil
}

func (r *repo) authorize(accessToken string, userID uuid.UUID) error {
	claims, err := r.verifier.Verify(accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	subject, err := claims.UserID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if subject != userID {
		return fmt.Errorf("%w: token subject %s", ErrUnauthorized, subject)
	}
	return nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Tool, error) {
	t, err := validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO mcp_tools (display_name, handle, description, logo_url, user_id, public,
			api_type, api_url, auth_method, auth_info, capabilities, health_status, usage_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + columns

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Tool, error) {
		var out Tool
		err := sqlscan.Get(ctx, tx, &out, q, writeArgs(t)...)
		return out, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tool created", "id", created.ID, "handle", created.Handle)
	return &created, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Tool, error) {
	t, err := validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE mcp_tools
		SET display_name = $1, handle = $2, description = $3, logo_url = $4, user_id = $5,
			public = $6, api_type = $7, api_url = $8, auth_method = $9, auth_info = $10,
			capabilities = $11, health_status = $12, usage_notes = $13, updated_at = NOW()
		WHERE id = $14
		RETURNING ` + columns

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Tool, error) {
		var out Tool
		err := sqlscan.Get(ctx, tx, &out, q, append(writeArgs(t), id)...)
		return out, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tool updated", "id", updated.ID, "handle", updated.Handle)
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM mcp_tools WHERE id = $1", id)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tool deleted", "id", id)
	return nil
}

func writeArgs(t Tool) []any {
	return []any{
		t.DisplayName, t.Handle, t.Description, t.LogoURL, t.UserID, t.Public,
		t.APIType, t.APIURL, t.AuthMethod, t.AuthInfo, t.Capabilities,
		t.HealthStatus, t.UsageNotes,
	}
}
