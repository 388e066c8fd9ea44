package report

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rpatel/forum-api/internal/handler"
	"github.com/rpatel/forum-api/internal/middleware"
	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/service/report"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reportentity", func(fl validator.FieldLevel) bool {
			return model.ReportEntityType(strings.ToLower(fl.Field().String())).Valid()
		})
	}
}

type Handler struct {
	service report.Service
}

func NewHandler(service report.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the report routes. The group is expected to carry
// authentication already; listing and review additionally require the
// moderator gate.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requireModerator gin.HandlerFunc) {
	reports := r.Group("/reports")
	{
		reports.POST("", h.CreateReport)
		reports.GET("", requireModerator, h.ListReports)
		reports.POST("/:id/review", requireModerator, h.ReviewReport)
	}
}

type createReportRequest struct {
	EntityType string `json:"entity_type" binding:"required,reportentity"`
	EntityID   int64  `json:"entity_id"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
}

type reviewReportRequest struct {
	Status        string `json:"status" binding:"required"`
	ModeratorNote string `json:"moderator_note"`
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), user.ID, &report.CreateInput{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"report": created}))
}

func (h *Handler) ListReports(c *gin.Context) {
	filters := &model.ReportFilters{
		Status:     c.Query("status"),
		EntityType: model.ReportEntityType(c.Query("entity_type")),
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filters.Limit = limit
		}
	}

	reports, summary, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if reports == nil {
		reports = []*model.Report{}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"reports": reports,
		"summary": summary,
	}))
}

func (h *Handler) ReviewReport(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid report id"))
		return
	}

	var req reviewReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	reviewed, err := h.service.Review(c.Request.Context(), user.ID, reportID, &report.ReviewInput{
		Status:        req.Status,
		ModeratorNote: req.ModeratorNote,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"report": reviewed}))
}
