package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
)

const pqUniqueViolation = "23505"

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// reportSelect joins the display snapshots onto every report row. All target
// joins are LEFT JOINs so a report outlives its deleted target.
const reportSelect = `
	SELECT
		r.id,
		r.reporter_user_id,
		reporter.name AS reporter_name,
		reporter.handle AS reporter_handle,
		r.entity_type,
		r.entity_id,
		r.thread_id,
		r.reason,
		r.details,
		r.status,
		r.moderator_note,
		r.created_at,
		r.reviewed_at,
		r.reviewed_by_user_id,
		reviewer.name AS reviewed_by_name,
		t.title AS thread_title,
		tr.body AS response_body,
		target.name AS target_user_name,
		target.handle AS target_user_handle
	FROM content_reports r
	JOIN users reporter ON reporter.id = r.reporter_user_id
	LEFT JOIN users reviewer ON reviewer.id = r.reviewed_by_user_id
	LEFT JOIN threads t ON t.id = r.thread_id
	LEFT JOIN thread_responses tr
		ON r.entity_type = 'response'
		AND tr.id = r.entity_id
	LEFT JOIN users target
		ON r.entity_type = 'user'
		AND target.id = r.entity_id
`

func (r *reportRepository) Insert(ctx context.Context, report *model.Report) (int64, error) {
	query := `
		INSERT INTO content_reports (
			reporter_user_id, entity_type, entity_id, thread_id, reason, details, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		report.ReporterUserID,
		report.EntityType,
		report.EntityID,
		report.ThreadID,
		report.Reason,
		report.Details,
		report.Status,
		report.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return 0, repository.ErrDuplicateOpenReport
		}
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	return id, nil
}

func (r *reportRepository) Get(ctx context.Context, id int64) (*model.Report, error) {
	query := reportSelect + ` WHERE r.id = $1`

	var report model.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

// List returns the filtered page. Open reports sort before everything else
// regardless of the status filter, then newest first with id as tie-break.
func (r *reportRepository) List(ctx context.Context, filters *model.ReportFilters) ([]*model.Report, error) {
	query := reportSelect
	var conditions []string
	var args []interface{}

	if filters.Status != "" && filters.Status != "all" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filters.EntityType != "" {
		args = append(args, filters.EntityType)
		conditions = append(conditions, fmt.Sprintf("r.entity_type = $%d", len(args)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	args = append(args, filters.Limit)
	query += fmt.Sprintf(`
		ORDER BY
			CASE WHEN r.status = 'open' THEN 0 ELSE 1 END,
			r.created_at DESC,
			r.id DESC
		LIMIT $%d`, len(args))

	var reports []*model.Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

// StatusSummary counts every report by status, ignoring any listing filter.
func (r *reportRepository) StatusSummary(ctx context.Context) (*model.ReportSummary, error) {
	query := `SELECT status, COUNT(*) AS count FROM content_reports GROUP BY status`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}
	defer rows.Close()

	summary := &model.ReportSummary{}
	for rows.Next() {
		var status model.ReportStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan report counts: %w", err)
		}

		switch status {
		case model.ReportStatusOpen:
			summary.Open = count
		case model.ReportStatusResolved:
			summary.Resolved = count
		case model.ReportStatusDismissed:
			summary.Dismissed = count
		}
		summary.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report counts: %w", err)
	}

	return summary, nil
}

// MarkReviewed stamps the review trail in a single atomic update,
// overwriting whatever review came before it. Returns false when the report
// does not exist.
func (r *reportRepository) MarkReviewed(ctx context.Context, id int64, status model.ReportStatus, reviewerID int64, note *string) (bool, error) {
	query := `
		UPDATE content_reports
		SET status = $1,
			reviewed_by_user_id = $2,
			reviewed_at = NOW(),
			moderator_note = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, status, reviewerID, note, id)
	if err != nil {
		return false, fmt.Errorf("failed to review report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Reopen clears the review trail entirely; a reopened report looks as if it
// was never reviewed.
func (r *reportRepository) Reopen(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE content_reports
		SET status = 'open',
			reviewed_by_user_id = NULL,
			reviewed_at = NULL,
			moderator_note = NULL
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to reopen report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
