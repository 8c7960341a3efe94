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

type dashboardService interface {
	Overview(sess *models.Session, currentPath string) service.Overview
	ForStudent(ctx context.Context, sess *models.Session, studentID string) (*service.StudentDashboard, error)
	ForClass(ctx context.Context, sess *models.Session, classID string) (*service.ClassDashboard, error)
}

// DashboardHandler serves the per-role landing views.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Admin godoc
// @Summary Admin landing view
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin-dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Overview(sess, c.Request.URL.Path), nil)
}

// Teacher godoc
// @Summary Teacher landing view
// @Description Teacher overview, expanded with class data when classId is given
// @Tags Dashboard
// @Produce json
// @Param classId query string false "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /teacher-dashboard [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	classID := strings.TrimSpace(c.Query("classId"))
	if classID == "" {
		response.JSON(c, http.StatusOK, h.service.Overview(sess, c.Request.URL.Path), nil)
		return
	}

	dash, err := h.service.ForClass(c.Request.Context(), sess, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}

// Student godoc
// @Summary Student landing view
// @Description Assignments, attendance and timetable for the signed-in student
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student-dashboard [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}
	if sess.Profile == nil {
		// Profile was lost to a corrupt persisted record; the session still
		// admits, but the aggregate needs the student identity.
		response.JSON(c, http.StatusOK, h.service.Overview(sess, c.Request.URL.Path), nil)
		return
	}

	dash, err := h.service.ForStudent(c.Request.Context(), sess, sess.Profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}

// Parent godoc
// @Summary Parent landing view
// @Description Parent overview, expanded with child data when childId is given
// @Tags Dashboard
// @Produce json
// @Param childId query string false "Child student ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /parent-dashboard [get]
func (h *DashboardHandler) Parent(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	childID := strings.TrimSpace(c.Query("childId"))
	if childID == "" {
		response.JSON(c, http.StatusOK, h.service.Overview(sess, c.Request.URL.Path), nil)
		return
	}

	dash, err := h.service.ForStudent(c.Request.Context(), sess, childID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}
