package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
	"github.com/rpatel/forum-api/internal/service/mention"
	"github.com/rpatel/forum-api/pkg/metrics"
)

const (
	fallbackActorLabel   = "Someone"
	fallbackContextLabel = "a post"

	defaultFeedLimit = 50
	maxFeedLimit     = 100

	unreadCacheTTL     = 30 * time.Second
	unreadCacheCleanup = time.Minute
)

type Service interface {
	// Create writes one notification record. Validation failure returns
	// (0, nil), never an error: a malformed payload must not abort the
	// caller's primary action. Store failures do propagate.
	Create(ctx context.Context, input *model.NotificationInput) (int64, error)
	// NotifyMentions fans a mention-bearing text out to every eligible
	// mentioned user and returns the ids actually notified.
	NotifyMentions(ctx context.Context, broadcast *model.MentionBroadcast) ([]int64, error)
	// UnreadCount returns the unread badge count, excluding direct-message
	// notifications unless asked otherwise.
	UnreadCount(ctx context.Context, userID int64, includeDirectMessages bool) (int, error)
	List(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	unreadCache   *cache.Cache
	metrics       *metrics.Metrics
}

func NewService(notifications repository.NotificationRepository, users repository.UserRepository, m *metrics.Metrics) Service {
	return &service{
		notifications: notifications,
		users:         users,
		unreadCache:   cache.New(unreadCacheTTL, unreadCacheCleanup),
		metrics:       m,
	}
}

func (s *service) Create(ctx context.Context, input *model.NotificationInput) (int64, error) {
	if input == nil {
		return 0, nil
	}

	message := strings.TrimSpace(input.Message)
	if runes := []rune(message); len(runes) > model.MaxNotificationMessageLen {
		message = string(runes[:model.MaxNotificationMessageLen])
	}

	if input.UserID <= 0 || input.Type == "" || message == "" {
		if s.metrics != nil {
			s.metrics.NotificationsSkipped.Inc()
		}
		return 0, nil
	}

	notification := &model.Notification{
		UserID:      input.UserID,
		ActorUserID: positiveRef(input.ActorUserID),
		Type:        input.Type,
		EntityType:  nonEmptyRef(input.EntityType),
		EntityID:    positiveRef(input.EntityID),
		ThreadID:    positiveRef(input.ThreadID),
		Message:     message,
		CreatedAt:   time.Now(),
	}

	id, err := s.notifications.Insert(ctx, notification)
	if err != nil {
		return 0, fmt.Errorf("failed to create notification: %w", err)
	}

	s.invalidateUnread(input.UserID)
	if s.metrics != nil {
		s.metrics.NotificationsCreated.Inc()
	}

	return id, nil
}

func (s *service) NotifyMentions(ctx context.Context, broadcast *model.MentionBroadcast) ([]int64, error) {
	handles := mention.Extract(broadcast.Text)
	if len(handles) == 0 {
		return nil, nil
	}

	mentioned, err := s.users.ListByHandles(ctx, handles)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mentioned handles: %w", err)
	}

	excluded := make(map[int64]struct{}, len(broadcast.ExcludeUserIDs))
	for _, id := range broadcast.ExcludeUserIDs {
		if id > 0 {
			excluded[id] = struct{}{}
		}
	}

	actorLabel := strings.TrimSpace(broadcast.ActorName)
	if actorLabel == "" {
		actorLabel = fallbackActorLabel
	}
	contextLabel := broadcast.ContextLabel
	if contextLabel == "" {
		contextLabel = fallbackContextLabel
	}

	var notified []int64
	for _, user := range mentioned {
		if user == nil || user.ID <= 0 {
			continue
		}
		if user.ID == broadcast.ActorUserID {
			continue
		}
		if _, skip := excluded[user.ID]; skip {
			continue
		}

		id, err := s.Create(ctx, &model.NotificationInput{
			UserID:      user.ID,
			ActorUserID: broadcast.ActorUserID,
			Type:        model.NotificationTypeMention,
			EntityType:  broadcast.EntityType,
			EntityID:    broadcast.EntityID,
			ThreadID:    broadcast.ThreadID,
			Message:     fmt.Sprintf("%s mentioned you in %s", actorLabel, contextLabel),
		})
		if err != nil {
			return notified, err
		}
		if id > 0 {
			notified = append(notified, user.ID)
		}
	}

	if s.metrics != nil {
		s.metrics.MentionFanouts.Observe(float64(len(notified)))
	}

	return notified, nil
}

func (s *service) UnreadCount(ctx context.Context, userID int64, includeDirectMessages bool) (int, error) {
	if userID <= 0 {
		return 0, nil
	}

	key := unreadCacheKey(userID, includeDirectMessages)
	if cached, ok := s.unreadCache.Get(key); ok {
		return cached.(int), nil
	}

	count, err := s.notifications.CountUnread(ctx, userID, includeDirectMessages)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	s.unreadCache.SetDefault(key, count)
	return count, nil
}

func (s *service) List(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	if userID <= 0 {
		return nil, nil
	}

	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	return s.notifications.ListForUser(ctx, userID, limit)
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, nil
	}

	marked, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	s.invalidateUnread(userID)
	return marked, nil
}

func (s *service) invalidateUnread(userID int64) {
	s.unreadCache.Delete(unreadCacheKey(userID, true))
	s.unreadCache.Delete(unreadCacheKey(userID, false))
}

func unreadCacheKey(userID int64, includeDirectMessages bool) string {
	return fmt.Sprintf("unread:%d:%t", userID, includeDirectMessages)
}

func positiveRef(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func nonEmptyRef(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
