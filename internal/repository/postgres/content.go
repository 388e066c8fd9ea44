package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
)

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

// ResolveReportTarget dispatches on entity type and returns the uniform
// target shape. The snapshot fields are captured once here; the report never
// re-resolves them even if the underlying content moves or is deleted.
func (r *contentRepository) ResolveReportTarget(ctx context.Context, entityType model.ReportEntityType, entityID int64) (*model.ReportTarget, error) {
	switch entityType {
	case model.ReportEntityThread:
		return r.resolveThread(ctx, entityID)
	case model.ReportEntityResponse:
		return r.resolveResponse(ctx, entityID)
	case model.ReportEntityUser:
		return r.resolveUser(ctx, entityID)
	default:
		return nil, nil
	}
}

func (r *contentRepository) resolveThread(ctx context.Context, id int64) (*model.ReportTarget, error) {
	var row struct {
		ID    int64  `db:"id"`
		Title string `db:"title"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT id, title FROM threads WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve thread target: %w", err)
	}

	return &model.ReportTarget{
		ThreadID:    &row.ID,
		ThreadTitle: row.Title,
	}, nil
}

func (r *contentRepository) resolveResponse(ctx context.Context, id int64) (*model.ReportTarget, error) {
	var row struct {
		ThreadID int64  `db:"thread_id"`
		Body     string `db:"body"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT thread_id, body FROM thread_responses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve response target: %w", err)
	}

	return &model.ReportTarget{
		ThreadID:     &row.ThreadID,
		ResponseBody: row.Body,
	}, nil
}

func (r *contentRepository) resolveUser(ctx context.Context, id int64) (*model.ReportTarget, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve user target: %w", err)
	}

	return &model.ReportTarget{
		TargetUserName: name,
	}, nil
}
