package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type attendanceUpstream interface {
	StudentAttendance(ctx context.Context, token, studentID string) ([]models.AttendanceRecord, error)
}

// AttendanceView pairs the raw records with their aggregate.
type AttendanceView struct {
	Records []models.AttendanceRecord `json:"records"`
	Summary models.AttendanceSummary  `json:"summary"`
}

// AttendanceService fetches and aggregates attendance for a student.
type AttendanceService struct {
	upstream attendanceUpstream
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(upstream attendanceUpstream, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{upstream: upstream, cache: cache, metrics: metrics, logger: logger}
}

// ForStudent returns a student's attendance records with a summary. Records
// with an unrecognised status count toward the total but no bucket.
func (s *AttendanceService) ForStudent(ctx context.Context, token, studentID string) (*AttendanceView, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	var records []models.AttendanceRecord
	err := s.cache.Fetch(ctx, "records:attendance:"+studentID, &records, func(ctx context.Context) error {
		started := time.Now()
		fetched, err := s.upstream.StudentAttendance(ctx, token, studentID)
		s.metrics.ObserveUpstreamRequest("student_attendance", err, time.Since(started))
		if err != nil {
			return err
		}
		records = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AttendanceView{Records: records, Summary: Summarize(records)}, nil
}

// Summarize aggregates attendance records into counts and a presence percent.
func Summarize(records []models.AttendanceRecord) models.AttendanceSummary {
	summary := models.AttendanceSummary{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		case models.AttendanceLate:
			summary.Late++
		case models.AttendanceExcused:
			summary.Excused++
		}
	}
	if summary.Total > 0 {
		attended := summary.Present + summary.Late
		summary.Percent = math.Round(float64(attended)/float64(summary.Total)*10000) / 100
	}
	return summary
}
