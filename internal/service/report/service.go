package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
	apperrors "github.com/rpatel/forum-api/pkg/errors"
	"github.com/rpatel/forum-api/pkg/metrics"
)

const (
	defaultListLimit = 120
	maxListLimit     = 200
)

// CreateInput is an unvalidated report submission.
type CreateInput struct {
	EntityType string
	EntityID   int64
	Reason     string
	Details    string
}

// ReviewInput is a moderator's status transition request.
type ReviewInput struct {
	Status        string
	ModeratorNote string
}

type Service interface {
	// Create files a report after validating the target against the live
	// store. A duplicate open report for the same target surfaces as a
	// conflict, distinct from every other failure.
	Create(ctx context.Context, reporterID int64, input *CreateInput) (*model.Report, error)
	// List returns the filtered page plus the global status summary, which
	// ignores the active filter and limit.
	List(ctx context.Context, filters *model.ReportFilters) ([]*model.Report, *model.ReportSummary, error)
	// Review transitions a report's status. Reopening clears the review
	// trail; resolving or dismissing overwrites it.
	Review(ctx context.Context, reviewerID, reportID int64, input *ReviewInput) (*model.Report, error)
}

type service struct {
	reports repository.ReportRepository
	content repository.ContentRepository
	metrics *metrics.Metrics
}

func NewService(reports repository.ReportRepository, content repository.ContentRepository, m *metrics.Metrics) Service {
	return &service{
		reports: reports,
		content: content,
		metrics: m,
	}
}

func (s *service) Create(ctx context.Context, reporterID int64, input *CreateInput) (*model.Report, error) {
	entityType := model.ReportEntityType(strings.ToLower(strings.TrimSpace(input.EntityType)))
	if !entityType.Valid() {
		return nil, apperrors.BadRequest("invalid report type", nil)
	}
	if input.EntityID <= 0 {
		return nil, apperrors.BadRequest("invalid report target", nil)
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperrors.BadRequest("report reason is required", nil)
	}
	if len([]rune(reason)) > model.MaxReportReasonLen {
		return nil, apperrors.BadRequest(fmt.Sprintf("report reason must be %d characters or fewer", model.MaxReportReasonLen), nil)
	}

	details := strings.TrimSpace(input.Details)
	if len([]rune(details)) > model.MaxReportDetailsLen {
		return nil, apperrors.BadRequest(fmt.Sprintf("report details must be %d characters or fewer", model.MaxReportDetailsLen), nil)
	}

	if entityType == model.ReportEntityUser && input.EntityID == reporterID {
		return nil, apperrors.BadRequest("you cannot report your own profile", nil)
	}

	target, err := s.content.ResolveReportTarget(ctx, entityType, input.EntityID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if target == nil {
		return nil, apperrors.NotFound("reported content", nil)
	}

	report := &model.Report{
		ReporterUserID: reporterID,
		EntityType:     entityType,
		EntityID:       input.EntityID,
		ThreadID:       target.ThreadID,
		Reason:         reason,
		Status:         model.ReportStatusOpen,
		CreatedAt:      time.Now(),
	}
	if details != "" {
		report.Details = &details
	}

	id, err := s.reports.Insert(ctx, report)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateOpenReport) {
			if s.metrics != nil {
				s.metrics.ReportConflicts.Inc()
			}
			return nil, apperrors.Conflict("you already have an open report for this content", err)
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.ReportsCreated.WithLabelValues(string(entityType)).Inc()
	}

	created, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return created, nil
}

func (s *service) List(ctx context.Context, filters *model.ReportFilters) ([]*model.Report, *model.ReportSummary, error) {
	normalized := model.ReportFilters{Limit: defaultListLimit}
	if filters != nil {
		normalized = *filters
	}

	normalized.Status = strings.ToLower(strings.TrimSpace(normalized.Status))
	if normalized.Status == "" {
		normalized.Status = string(model.ReportStatusOpen)
	}
	if normalized.Status != "all" && !model.ReportStatus(normalized.Status).Valid() {
		return nil, nil, apperrors.BadRequest("invalid status filter", nil)
	}
	if normalized.EntityType != "" && !normalized.EntityType.Valid() {
		return nil, nil, apperrors.BadRequest("invalid entity type filter", nil)
	}

	if normalized.Limit == 0 {
		normalized.Limit = defaultListLimit
	}
	if normalized.Limit < 1 {
		normalized.Limit = 1
	}
	if normalized.Limit > maxListLimit {
		normalized.Limit = maxListLimit
	}

	reports, err := s.reports.List(ctx, &normalized)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	summary, err := s.reports.StatusSummary(ctx)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	return reports, summary, nil
}

func (s *service) Review(ctx context.Context, reviewerID, reportID int64, input *ReviewInput) (*model.Report, error) {
	if reportID <= 0 {
		return nil, apperrors.BadRequest("invalid report id", nil)
	}

	status := model.ReportStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.Valid() {
		return nil, apperrors.BadRequest("invalid review status", nil)
	}

	note := strings.TrimSpace(input.ModeratorNote)
	if len([]rune(note)) > model.MaxModeratorNoteLen {
		return nil, apperrors.BadRequest(fmt.Sprintf("moderator note must be %d characters or fewer", model.MaxModeratorNoteLen), nil)
	}

	var found bool
	var err error
	if status == model.ReportStatusOpen {
		found, err = s.reports.Reopen(ctx, reportID)
	} else {
		var notePtr *string
		if note != "" {
			notePtr = &note
		}
		found, err = s.reports.MarkReviewed(ctx, reportID, status, reviewerID, notePtr)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !found {
		return nil, apperrors.NotFound("report", nil)
	}

	if s.metrics != nil {
		s.metrics.ReportReviews.WithLabelValues(string(status)).Inc()
	}

	reviewed, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return reviewed, nil
}
