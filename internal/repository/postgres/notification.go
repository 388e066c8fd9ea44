package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Insert(ctx context.Context, n *model.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (
			user_id, actor_user_id, type, entity_type, entity_id, thread_id, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		n.UserID,
		n.ActorUserID,
		n.Type,
		n.EntityType,
		n.EntityID,
		n.ThreadID,
		n.Message,
		n.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}

	return id, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64, includeDirectMessages bool) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	args := []interface{}{userID}

	if !includeDirectMessages {
		query += ` AND type != $2`
		args = append(args, model.NotificationTypeDirectMessage)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, actor_user_id, type, entity_type, entity_id, thread_id, message, created_at, read_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkAllRead stamps read_at on every unread row of a user. The transition is
// monotonic; rows already read are never touched again.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	query := `UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected()
}
