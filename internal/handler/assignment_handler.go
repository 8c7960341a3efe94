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

type assignmentService interface {
	ListForStudent(ctx context.Context, token, classID string) ([]service.AssignmentView, error)
}

// AssignmentHandler serves work item lists with derived statuses.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// ListForClass godoc
// @Summary List class work items
// @Description Work items for a class with per-row submission status
// @Tags Assignments
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /classes/{id}/assignments [get]
func (h *AssignmentHandler) ListForClass(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	classID := strings.TrimSpace(c.Param("id"))
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class id is required"))
		return
	}

	views, err := h.service.ListForStudent(c.Request.Context(), sess.Token, classID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, views, nil)
}
