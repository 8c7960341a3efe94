package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type recordUpstream interface {
	Student(ctx context.Context, token, id string) (*models.Student, error)
	Class(ctx context.Context, token, id string) (*models.Class, error)
}

type assignmentLister interface {
	ListForStudent(ctx context.Context, token, classID string) ([]AssignmentView, error)
}

type attendanceFetcher interface {
	ForStudent(ctx context.Context, token, studentID string) (*AttendanceView, error)
}

type timetableFetcher interface {
	WeekForClass(ctx context.Context, token, classID string) ([]TimetableDay, error)
}

// Overview is the common landing payload for every role.
type Overview struct {
	Role        models.Role         `json:"role"`
	Profile     *models.UserProfile `json:"profile,omitempty"`
	LandingPath string              `json:"landingPath"`
	Navigation  []router.NavLink    `json:"navigation"`
}

// StudentDashboard aggregates a student's landing view. Sections are
// independent: a failed section carries its message and the rest render.
type StudentDashboard struct {
	Overview    Overview                  `json:"overview"`
	Student     *models.Student           `json:"student,omitempty"`
	Assignments []AssignmentView          `json:"assignments,omitempty"`
	Attendance  *models.AttendanceSummary `json:"attendance,omitempty"`
	Timetable   []TimetableDay            `json:"timetable,omitempty"`
	Errors      map[string]string         `json:"errors,omitempty"`
}

// ClassDashboard is the teacher landing view for one class.
type ClassDashboard struct {
	Overview    Overview          `json:"overview"`
	Class       *models.Class     `json:"class,omitempty"`
	Assignments []AssignmentView  `json:"assignments,omitempty"`
	Timetable   []TimetableDay    `json:"timetable,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// DashboardService assembles the per-role landing views from the record
// services.
type DashboardService struct {
	records     recordUpstream
	assignments assignmentLister
	attendance  attendanceFetcher
	timetable   timetableFetcher
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(records recordUpstream, assignments assignmentLister, attendance attendanceFetcher, timetable timetableFetcher, metrics *MetricsService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		records:     records,
		assignments: assignments,
		attendance:  attendance,
		timetable:   timetable,
		metrics:     metrics,
		logger:      logger,
	}
}

// Overview builds the role landing payload with the sidebar for the current
// path.
func (s *DashboardService) Overview(sess *models.Session, currentPath string) Overview {
	landing := router.LandingPath(sess.Role)
	if currentPath == "" {
		currentPath = landing
	}
	return Overview{
		Role:        sess.Role,
		Profile:     sess.Profile,
		LandingPath: landing,
		Navigation:  router.NavLinks(sess.Role, currentPath),
	}
}

// ForStudent assembles the student landing view. The student record resolves
// first because it names the class; each remaining section fails
// independently.
func (s *DashboardService) ForStudent(ctx context.Context, sess *models.Session, studentID string) (*StudentDashboard, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	dash := &StudentDashboard{
		Overview: s.Overview(sess, router.StudentDashboardPath),
		Errors:   make(map[string]string),
	}

	started := time.Now()
	student, err := s.records.Student(ctx, sess.Token, studentID)
	s.metrics.ObserveUpstreamRequest("student", err, time.Since(started))
	if err != nil {
		return nil, err
	}
	dash.Student = student

	if views, err := s.assignments.ListForStudent(ctx, sess.Token, student.ClassID); err != nil {
		dash.Errors["assignments"] = appErrors.FromError(err).Message
	} else {
		dash.Assignments = views
	}

	if view, err := s.attendance.ForStudent(ctx, sess.Token, studentID); err != nil {
		dash.Errors["attendance"] = appErrors.FromError(err).Message
	} else {
		dash.Attendance = &view.Summary
	}

	if week, err := s.timetable.WeekForClass(ctx, sess.Token, student.ClassID); err != nil {
		dash.Errors["timetable"] = appErrors.FromError(err).Message
	} else {
		dash.Timetable = week
	}

	if len(dash.Errors) == 0 {
		dash.Errors = nil
	}
	return dash, nil
}

// ForClass assembles the teacher landing view for one of their classes.
func (s *DashboardService) ForClass(ctx context.Context, sess *models.Session, classID string) (*ClassDashboard, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	dash := &ClassDashboard{
		Overview: s.Overview(sess, router.TeacherDashboardPath),
		Errors:   make(map[string]string),
	}

	started := time.Now()
	class, err := s.records.Class(ctx, sess.Token, classID)
	s.metrics.ObserveUpstreamRequest("class", err, time.Since(started))
	if err != nil {
		return nil, err
	}
	dash.Class = class

	if views, err := s.assignments.ListForStudent(ctx, sess.Token, classID); err != nil {
		dash.Errors["assignments"] = appErrors.FromError(err).Message
	} else {
		dash.Assignments = views
	}

	if week, err := s.timetable.WeekForClass(ctx, sess.Token, classID); err != nil {
		dash.Errors["timetable"] = appErrors.FromError(err).Message
	} else {
		dash.Timetable = week
	}

	if len(dash.Errors) == 0 {
		dash.Errors = nil
	}
	return dash, nil
}
