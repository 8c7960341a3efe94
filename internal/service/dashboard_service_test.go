package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type fakeRecordUpstream struct {
	student    *models.Student
	studentErr error
	class      *models.Class
	classErr   error
}

func (f *fakeRecordUpstream) Student(context.Context, string, string) (*models.Student, error) {
	return f.student, f.studentErr
}

func (f *fakeRecordUpstream) Class(context.Context, string, string) (*models.Class, error) {
	return f.class, f.classErr
}

type fakeAssignmentLister struct {
	views []AssignmentView
	err   error
}

func (f *fakeAssignmentLister) ListForStudent(context.Context, string, string) ([]AssignmentView, error) {
	return f.views, f.err
}

type fakeAttendanceFetcher struct {
	view *AttendanceView
	err  error
}

func (f *fakeAttendanceFetcher) ForStudent(context.Context, string, string) (*AttendanceView, error) {
	return f.view, f.err
}

type fakeTimetableFetcher struct {
	week []TimetableDay
	err  error
}

func (f *fakeTimetableFetcher) WeekForClass(context.Context, string, string) ([]TimetableDay, error) {
	return f.week, f.err
}

func studentSession() *models.Session {
	return &models.Session{
		ID:    "sess-1",
		Token: "upstream-token",
		Role:  models.RoleStudent,
		Profile: &models.UserProfile{
			ID:        "stu-1",
			FirstName: "Ada",
		},
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
}

func TestDashboardOverview(t *testing.T) {
	svc := NewDashboardService(&fakeRecordUpstream{}, &fakeAssignmentLister{}, &fakeAttendanceFetcher{}, &fakeTimetableFetcher{}, nil, nil)

	overview := svc.Overview(studentSession(), "")
	assert.Equal(t, models.RoleStudent, overview.Role)
	assert.Equal(t, router.StudentDashboardPath, overview.LandingPath)
	require.NotEmpty(t, overview.Navigation)
	assert.True(t, overview.Navigation[0].Active, "the landing entry highlights by default")
}

func TestDashboardForStudent(t *testing.T) {
	records := &fakeRecordUpstream{student: &models.Student{ID: "stu-1", ClassID: "cls-1"}}
	assignments := &fakeAssignmentLister{views: []AssignmentView{{Assignment: models.Assignment{ID: "asg-1"}}}}
	attendance := &fakeAttendanceFetcher{view: &AttendanceView{Summary: models.AttendanceSummary{Present: 5, Total: 5, Percent: 100}}}
	timetable := &fakeTimetableFetcher{week: []TimetableDay{{Day: "monday"}}}

	svc := NewDashboardService(records, assignments, attendance, timetable, nil, nil)

	dash, err := svc.ForStudent(context.Background(), studentSession(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "cls-1", dash.Student.ClassID)
	assert.Len(t, dash.Assignments, 1)
	require.NotNil(t, dash.Attendance)
	assert.Equal(t, 5, dash.Attendance.Present)
	assert.Len(t, dash.Timetable, 1)
	assert.Nil(t, dash.Errors)
}

func TestDashboardForStudentSectionFailure(t *testing.T) {
	records := &fakeRecordUpstream{student: &models.Student{ID: "stu-1", ClassID: "cls-1"}}
	assignments := &fakeAssignmentLister{err: appErrors.Clone(appErrors.ErrTransport, "school service is unreachable, please try again")}
	attendance := &fakeAttendanceFetcher{view: &AttendanceView{Summary: models.AttendanceSummary{Total: 3}}}
	timetable := &fakeTimetableFetcher{}

	svc := NewDashboardService(records, assignments, attendance, timetable, nil, nil)

	dash, err := svc.ForStudent(context.Background(), studentSession(), "stu-1")
	require.NoError(t, err, "a section failure must not fail the dashboard")
	assert.Nil(t, dash.Assignments)
	require.NotNil(t, dash.Attendance)
	assert.Contains(t, dash.Errors, "assignments")
}

func TestDashboardForStudentRecordFailure(t *testing.T) {
	records := &fakeRecordUpstream{studentErr: appErrors.ErrNotFound}
	svc := NewDashboardService(records, &fakeAssignmentLister{}, &fakeAttendanceFetcher{}, &fakeTimetableFetcher{}, nil, nil)

	_, err := svc.ForStudent(context.Background(), studentSession(), "stu-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDashboardForClass(t *testing.T) {
	sess := studentSession()
	sess.Role = models.RoleTeacher

	records := &fakeRecordUpstream{class: &models.Class{ID: "cls-1", Name: "10-A"}}
	assignments := &fakeAssignmentLister{views: []AssignmentView{{}, {}}}
	timetable := &fakeTimetableFetcher{week: []TimetableDay{{Day: "friday"}}}

	svc := NewDashboardService(records, assignments, &fakeAttendanceFetcher{}, timetable, nil, nil)

	dash, err := svc.ForClass(context.Background(), sess, "cls-1")
	require.NoError(t, err)
	assert.Equal(t, "10-A", dash.Class.Name)
	assert.Len(t, dash.Assignments, 2)
	assert.Equal(t, router.TeacherDashboardPath, dash.Overview.LandingPath)
}

func TestDashboardValidation(t *testing.T) {
	svc := NewDashboardService(&fakeRecordUpstream{}, &fakeAssignmentLister{}, &fakeAttendanceFetcher{}, &fakeTimetableFetcher{}, nil, nil)

	_, err := svc.ForStudent(context.Background(), studentSession(), "")
	assert.Error(t, err)

	_, err = svc.ForClass(context.Background(), studentSession(), "")
	assert.Error(t, err)
}
