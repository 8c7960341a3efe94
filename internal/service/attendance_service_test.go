package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type fakeAttendanceUpstream struct {
	records []models.AttendanceRecord
	err     error
}

func (f *fakeAttendanceUpstream) StudentAttendance(context.Context, string, string) ([]models.AttendanceRecord, error) {
	return f.records, f.err
}

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestSummarize(t *testing.T) {
	records := []models.AttendanceRecord{
		{Date: day(0), Status: models.AttendancePresent},
		{Date: day(1), Status: models.AttendancePresent},
		{Date: day(2), Status: models.AttendanceLate},
		{Date: day(3), Status: models.AttendanceAbsent},
		{Date: day(4), Status: models.AttendanceExcused},
		{Date: day(5), Status: "holiday"},
	}

	summary := Summarize(records)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Excused)
	assert.Equal(t, 6, summary.Total, "unknown statuses still count toward the total")
	assert.InDelta(t, 50.0, summary.Percent, 0.01)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Percent)
}

func TestAttendanceServiceForStudent(t *testing.T) {
	up := &fakeAttendanceUpstream{
		records: []models.AttendanceRecord{
			{Date: day(0), Status: models.AttendancePresent},
			{Date: day(1), Status: models.AttendanceAbsent},
		},
	}
	svc := NewAttendanceService(up, nil, nil, nil)

	view, err := svc.ForStudent(context.Background(), "token", "stu-1")
	require.NoError(t, err)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, 1, view.Summary.Present)
	assert.InDelta(t, 50.0, view.Summary.Percent, 0.01)
}

func TestAttendanceServiceErrors(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceUpstream{}, nil, nil, nil)
	_, err := svc.ForStudent(context.Background(), "token", "")
	assert.Error(t, err)

	failing := NewAttendanceService(&fakeAttendanceUpstream{err: appErrors.ErrTransport}, nil, nil, nil)
	_, err = failing.ForStudent(context.Background(), "token", "stu-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTransport.Code, appErrors.FromError(err).Code)
}
