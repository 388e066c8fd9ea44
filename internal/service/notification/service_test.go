package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpatel/forum-api/internal/model"
)

type fakeNotificationRepo struct {
	inserted    []*model.Notification
	insertErr   error
	nextID      int64
	unread      int
	unreadDM    int
	countCalls  int
	markedUsers []int64
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *model.Notification) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	f.inserted = append(f.inserted, n)
	return f.nextID, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ int64, includeDirectMessages bool) (int, error) {
	f.countCalls++
	if includeDirectMessages {
		return f.unread + f.unreadDM, nil
	}
	return f.unread, nil
}

func (f *fakeNotificationRepo) ListForUser(_ context.Context, _ int64, _ int) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.markedUsers = append(f.markedUsers, userID)
	return int64(f.unread), nil
}

type fakeUserRepo struct {
	byHandle    map[string]*model.User
	lookupCalls int
}

func (f *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.byHandle {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByHandles(_ context.Context, handles []string) ([]*model.User, error) {
	f.lookupCalls++
	var users []*model.User
	for _, h := range handles {
		if u, ok := f.byHandle[h]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func newTestService(repo *fakeNotificationRepo, users *fakeUserRepo) Service {
	if repo == nil {
		repo = &fakeNotificationRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewService(repo, users, nil)
}

func TestCreateTruncatesMessage(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, nil)

	id, err := svc.Create(context.Background(), &model.NotificationInput{
		UserID:  5,
		Type:    model.NotificationTypeMention,
		Message: strings.Repeat("x", 400),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, repo.inserted, 1)
	assert.Len(t, repo.inserted[0].Message, model.MaxNotificationMessageLen)
}

func TestCreateRejectsInvalidRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, nil)

	id, err := svc.Create(context.Background(), &model.NotificationInput{
		UserID:  -1,
		Type:    model.NotificationTypeMention,
		Message: "hi",
	})

	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, repo.inserted)
}

func TestCreateSkipsBlankMessage(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, nil)

	id, err := svc.Create(context.Background(), &model.NotificationInput{
		UserID:  5,
		Type:    model.NotificationTypeMention,
		Message: "   ",
	})

	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, repo.inserted)
}

func TestCreateCoercesInvalidReferences(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), &model.NotificationInput{
		UserID:      5,
		ActorUserID: -3,
		Type:        model.NotificationTypeFollow,
		EntityID:    0,
		ThreadID:    -7,
		Message:     "hello",
	})

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	n := repo.inserted[0]
	assert.Nil(t, n.ActorUserID)
	assert.Nil(t, n.EntityID)
	assert.Nil(t, n.ThreadID)
}

func TestCreatePropagatesStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{insertErr: errors.New("connection reset")}
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), &model.NotificationInput{
		UserID:  5,
		Type:    model.NotificationTypeMention,
		Message: "hi",
	})

	assert.Error(t, err)
}

func TestNotifyMentionsSkipsActor(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{byHandle: map[string]*model.User{
		"alice": {ID: 10, Name: "Alice", Handle: "alice"},
	}}
	svc := newTestService(repo, users)

	notified, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:        "talking to myself @alice",
		ActorUserID: 10,
		ActorName:   "Alice",
	})

	require.NoError(t, err)
	assert.Empty(t, notified)
	assert.Empty(t, repo.inserted)
}

func TestNotifyMentionsHonorsExclusions(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{byHandle: map[string]*model.User{
		"alice": {ID: 10, Name: "Alice", Handle: "alice"},
		"bob":   {ID: 11, Name: "Bob", Handle: "bob"},
	}}
	svc := newTestService(repo, users)

	notified, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:           "hey @alice and @bob",
		ActorUserID:    1,
		ActorName:      "Poster",
		EntityType:     "thread",
		EntityID:       7,
		ThreadID:       7,
		ExcludeUserIDs: []int64{10},
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{11}, notified)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, int64(11), repo.inserted[0].UserID)
	assert.Equal(t, model.NotificationTypeMention, repo.inserted[0].Type)
}

func TestNotifyMentionsMessageFallsBackToSomeone(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{byHandle: map[string]*model.User{
		"alice": {ID: 10, Name: "Alice", Handle: "alice"},
	}}
	svc := newTestService(repo, users)

	_, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:        "@alice take a look",
		ActorUserID: 1,
		ActorName:   "   ",
	})

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Someone mentioned you in a post", repo.inserted[0].Message)
}

func TestNotifyMentionsUsesContextLabel(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{byHandle: map[string]*model.User{
		"alice": {ID: 10, Name: "Alice", Handle: "alice"},
	}}
	svc := newTestService(repo, users)

	_, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:         "@alice take a look",
		ActorUserID:  1,
		ActorName:    "Bob",
		ContextLabel: "a response",
	})

	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Bob mentioned you in a response", repo.inserted[0].Message)
}

func TestNotifyMentionsNoHandlesSkipsLookup(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(nil, users)

	notified, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:        "no mentions in here",
		ActorUserID: 1,
	})

	require.NoError(t, err)
	assert.Empty(t, notified)
	assert.Zero(t, users.lookupCalls, "fan-out with no handles must not touch the store")
}

func TestNotifyMentionsUnresolvedHandles(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{byHandle: map[string]*model.User{}}
	svc := newTestService(repo, users)

	notified, err := svc.NotifyMentions(context.Background(), &model.MentionBroadcast{
		Text:        "@ghost does not exist",
		ActorUserID: 1,
	})

	require.NoError(t, err)
	assert.Empty(t, notified)
	assert.Equal(t, 1, users.lookupCalls, "one batched lookup regardless of result")
}

func TestUnreadCountExcludesDirectMessagesByDefault(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 3, unreadDM: 2}
	svc := newTestService(repo, nil)

	count, err := svc.UnreadCount(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.UnreadCount(context.Background(), 5, true)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestUnreadCountInvalidUser(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 3}
	svc := newTestService(repo, nil)

	count, err := svc.UnreadCount(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, repo.countCalls)
}

func TestUnreadCountIsCached(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 3}
	svc := newTestService(repo, nil)

	_, err := svc.UnreadCount(context.Background(), 5, false)
	require.NoError(t, err)
	_, err = svc.UnreadCount(context.Background(), 5, false)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.countCalls)
}

func TestMarkAllReadBustsUnreadCache(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 3}
	svc := newTestService(repo, nil)

	_, err := svc.UnreadCount(context.Background(), 5, false)
	require.NoError(t, err)

	_, err = svc.MarkAllRead(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.markedUsers)

	_, err = svc.UnreadCount(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.countCalls, "cache entry must be dropped after mark-read")
}
