package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type exportService interface {
	ReportCard(ctx context.Context, token, examID string, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler serves report-card downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ReportCard godoc
// @Summary Download an exam report card
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Exam ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /exams/{id}/report-card [get]
func (h *ExportHandler) ReportCard(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	examID := strings.TrimSpace(c.Param("id"))
	if examID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "exam id is required"))
		return
	}

	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.FormatCSV))))
	file, err := h.service.ReportCard(c.Request.Context(), sess.Token, examID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
