package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/proyectos-api/internal/service"
	"github.com/edutrack/proyectos-api/pkg/response"
)

// AuditHandler exposes the teacher audit history.
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler constructs a new AuditHandler.
func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// ListUpdates godoc
// @Summary List teacher update snapshots, newest first
// @Tags Audits
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audits/updates [get]
func (h *AuditHandler) ListUpdates(c *gin.Context) {
	records, err := h.audits.ListUpdates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ListDeletes godoc
// @Summary List teacher delete snapshots, newest first
// @Tags Audits
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audits/deletes [get]
func (h *AuditHandler) ListDeletes(c *gin.Context) {
	records, err := h.audits.ListDeletes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Export godoc
// @Summary Export audit history as CSV or PDF
// @Tags Audits
// @Param kind query string true "updates or deletes"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /audits/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	kind := c.DefaultQuery("kind", "updates")
	format := c.DefaultQuery("format", "csv")

	data, contentType, err := h.audits.Export(c.Request.Context(), kind, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=teacher-audits-%s.%s", kind, ext))
	c.Data(http.StatusOK, contentType, data)
}
