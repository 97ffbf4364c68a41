package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/proyectos-api/internal/service"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
	"github.com/edutrack/proyectos-api/pkg/response"
)

// AnalyticsHandler exposes the derived-metrics endpoints. Unknown ids yield
// zero or sentinel values, never 404s.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// AverageBudget godoc
// @Summary Average budget of projects led by a teacher
// @Tags Analytics
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/teachers/{id}/average-budget [get]
func (h *AnalyticsHandler) AverageBudget(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id"))
		return
	}
	avg, err := h.analytics.AverageBudget(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teacher_id": id, "average_budget": avg}, nil)
}

// CostPerHour godoc
// @Summary Project budget divided by hours, rounded to 2 decimals
// @Tags Analytics
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/projects/{id}/cost-per-hour [get]
func (h *AnalyticsHandler) CostPerHour(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid project id"))
		return
	}
	cost, err := h.analytics.CostPerHour(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"project_id": id, "cost_per_hour": cost}, nil)
}

// Status godoc
// @Summary Project status derived from its date range
// @Tags Analytics
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/projects/{id}/status [get]
func (h *AnalyticsHandler) Status(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid project id"))
		return
	}
	status, err := h.analytics.ProjectStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"project_id": id, "status": status}, nil)
}

// CountByEmploymentType godoc
// @Summary Count projects whose lead teacher has the given employment type
// @Tags Analytics
// @Produce json
// @Param type query string true "Employment type (case-sensitive exact match)"
// @Success 200 {object} response.Envelope
// @Router /analytics/employment-types/count [get]
func (h *AnalyticsHandler) CountByEmploymentType(c *gin.Context) {
	employmentType := strings.TrimSpace(c.Query("type"))
	if employmentType == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "type query parameter is required"))
		return
	}
	count, err := h.analytics.CountByEmploymentType(c.Request.Context(), employmentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"employment_type": employmentType, "count": count}, nil)
}
