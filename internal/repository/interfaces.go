package repository

import (
	"context"
	"errors"

	"github.com/rpatel/forum-api/internal/model"
)

// ErrDuplicateOpenReport is returned by ReportRepository.Insert when the
// reporter already has an open report against the same target. The store's
// partial unique index is the authority; no pre-check is performed.
var ErrDuplicateOpenReport = errors.New("duplicate open report for target")

// All repository interfaces in one file
type (
	// UserRepository provides read-only lookups over forum members.
	UserRepository interface {
		Get(ctx context.Context, id int64) (*model.User, error)
		ListByHandles(ctx context.Context, handles []string) ([]*model.User, error)
	}

	// ContentRepository resolves report targets against the live store.
	// A nil target with nil error means the target does not exist.
	ContentRepository interface {
		ResolveReportTarget(ctx context.Context, entityType model.ReportEntityType, entityID int64) (*model.ReportTarget, error)
	}

	NotificationRepository interface {
		Insert(ctx context.Context, n *model.Notification) (int64, error)
		CountUnread(ctx context.Context, userID int64, includeDirectMessages bool) (int, error)
		ListForUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
		MarkAllRead(ctx context.Context, userID int64) (int64, error)
	}

	ReportRepository interface {
		Insert(ctx context.Context, r *model.Report) (int64, error)
		Get(ctx context.Context, id int64) (*model.Report, error)
		List(ctx context.Context, filters *model.ReportFilters) ([]*model.Report, error)
		StatusSummary(ctx context.Context) (*model.ReportSummary, error)
		MarkReviewed(ctx context.Context, id int64, status model.ReportStatus, reviewerID int64, note *string) (bool, error)
		Reopen(ctx context.Context, id int64) (bool, error)
	}
)
