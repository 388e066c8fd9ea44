package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rpatel/forum-api/internal/handler"
	"github.com/rpatel/forum-api/internal/middleware"
	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/service/notification"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the notification routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read", h.MarkAllRead)
	}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	notifications, err := h.service.List(c.Request.Context(), user.ID, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"notifications": notifications}))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	includeDirectMessages, _ := strconv.ParseBool(c.DefaultQuery("include_direct_messages", "false"))

	count, err := h.service.UnreadCount(c.Request.Context(), user.ID, includeDirectMessages)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"count": count}))
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	marked, err := h.service.MarkAllRead(c.Request.Context(), user.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"marked": marked}))
}
