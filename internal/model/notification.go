package model

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeMention        NotificationType = "mention"
	NotificationTypeThreadResponse NotificationType = "thread_response"
	NotificationTypeDirectMessage  NotificationType = "direct_message"
	NotificationTypeFollow         NotificationType = "follow"
)

// MaxNotificationMessageLen is the stored message limit; longer messages are
// truncated, not rejected.
const MaxNotificationMessageLen = 280

type Notification struct {
	ID          int64            `json:"id" db:"id"`
	UserID      int64            `json:"user_id" db:"user_id"`
	ActorUserID *int64           `json:"actor_user_id,omitempty" db:"actor_user_id"`
	Type        NotificationType `json:"type" db:"type"`
	EntityType  *string          `json:"entity_type,omitempty" db:"entity_type"`
	EntityID    *int64           `json:"entity_id,omitempty" db:"entity_id"`
	ThreadID    *int64           `json:"thread_id,omitempty" db:"thread_id"`
	Message     string           `json:"message" db:"message"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	ReadAt      *time.Time       `json:"read_at,omitempty" db:"read_at"`
}

// NotificationInput carries a requested notification write. Optional
// references use zero as "absent"; non-positive values are stored as NULL
// rather than rejected.
type NotificationInput struct {
	UserID      int64
	ActorUserID int64
	Type        NotificationType
	EntityType  string
	EntityID    int64
	ThreadID    int64
	Message     string
}

// MentionBroadcast describes one mention-bearing text whose handles should be
// fanned out to notifications.
type MentionBroadcast struct {
	Text           string
	ActorUserID    int64
	ActorName      string
	EntityType     string
	EntityID       int64
	ThreadID       int64
	ExcludeUserIDs []int64
	ContextLabel   string
}
