package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpatel/forum-api/internal/middleware"
	"github.com/rpatel/forum-api/internal/model"
)

type fakeService struct {
	listUserID  int64
	listLimit   int
	listResult  []*model.Notification
	countUserID int64
	includeDMs  bool
	count       int
	markedFor   int64
	marked      int64
}

func (f *fakeService) Create(_ context.Context, _ *model.NotificationInput) (int64, error) {
	return 0, nil
}

func (f *fakeService) NotifyMentions(_ context.Context, _ *model.MentionBroadcast) ([]int64, error) {
	return nil, nil
}

func (f *fakeService) UnreadCount(_ context.Context, userID int64, includeDirectMessages bool) (int, error) {
	f.countUserID = userID
	f.includeDMs = includeDirectMessages
	return f.count, nil
}

func (f *fakeService) List(_ context.Context, userID int64, limit int) ([]*model.Notification, error) {
	f.listUserID = userID
	f.listLimit = limit
	return f.listResult, nil
}

func (f *fakeService) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.markedFor = userID
	return f.marked, nil
}

func newTestRouter(svc *fakeService, user *model.AuthUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1", func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextAuthUser, user)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(group)
	return engine
}

func TestListNotificationsPassesLimit(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc, &model.AuthUser{ID: 5})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.listUserID)
	assert.Equal(t, 10, svc.listLimit)
}

func TestListNotificationsEmptyFeedIsArray(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc, &model.AuthUser{ID: 5})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Notifications []json.RawMessage `json:"notifications"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data.Notifications)
	assert.Empty(t, resp.Data.Notifications)
}

func TestUnreadCountDefaultsToExcludingDMs(t *testing.T) {
	svc := &fakeService{count: 4}
	router := newTestRouter(svc, &model.AuthUser{ID: 7})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.countUserID)
	assert.False(t, svc.includeDMs)
	assert.Contains(t, w.Body.String(), `"count":4`)
}

func TestUnreadCountIncludeDMsQuery(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc, &model.AuthUser{ID: 7})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count?include_direct_messages=true", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.includeDMs)
}

func TestMarkAllRead(t *testing.T) {
	svc := &fakeService{marked: 3}
	router := newTestRouter(svc, &model.AuthUser{ID: 9})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.markedFor)
	assert.Contains(t, w.Body.String(), `"marked":3`)
}

func TestNotificationsRequireAuth(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
