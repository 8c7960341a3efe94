package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type attendanceService interface {
	ForStudent(ctx context.Context, token, studentID string) (*service.AttendanceView, error)
}

// AttendanceHandler serves attendance records with their summary.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// ForStudent godoc
// @Summary Student attendance
// @Description Attendance records and summary for a student
// @Tags Attendance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *AttendanceHandler) ForStudent(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}

	// Students can only read their own records.
	if sess.Role == models.RoleStudent && sess.Profile != nil && sess.Profile.ID != studentID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot view another student's attendance"))
		return
	}

	view, err := h.service.ForStudent(c.Request.Context(), sess.Token, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, nil)
}
