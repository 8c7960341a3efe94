package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/status"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type examUpstream interface {
	Exam(ctx context.Context, token, id string) (*models.Exam, error)
	ExamResults(ctx context.Context, token, examID string) ([]models.ExamResult, error)
}

// ExamResultView is one graded row with its derived classifications.
type ExamResultView struct {
	Result  models.ExamResult `json:"result"`
	Percent float64           `json:"percent"`
	Outcome status.Outcome    `json:"outcome"`
	Letter  string            `json:"letter"`
}

// ExamView is an exam with its classified results.
type ExamView struct {
	Exam    models.Exam      `json:"exam"`
	Results []ExamResultView `json:"results"`
}

// ExamService fetches exams and classifies results against the grade scale.
type ExamService struct {
	upstream       examUpstream
	cache          *CacheService
	metrics        *MetricsService
	logger         *zap.Logger
	scale          *status.Scale
	defaultPassing float64
}

// NewExamService constructs an ExamService. defaultPassing is the percent
// threshold used when an exam does not declare its own passing marks.
func NewExamService(upstream examUpstream, cache *CacheService, metrics *MetricsService, logger *zap.Logger, scale *status.Scale, defaultPassing float64) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scale == nil {
		scale = status.DefaultScale()
	}
	if defaultPassing <= 0 {
		defaultPassing = 40
	}
	return &ExamService{
		upstream:       upstream,
		cache:          cache,
		metrics:        metrics,
		logger:         logger,
		scale:          scale,
		defaultPassing: defaultPassing,
	}
}

// Results fetches an exam and its result rows, classifying each one.
func (s *ExamService) Results(ctx context.Context, token, examID string) (*ExamView, error) {
	if examID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exam id is required")
	}

	var exam *models.Exam
	err := s.cache.Fetch(ctx, "records:exam:"+examID, &exam, func(ctx context.Context) error {
		started := time.Now()
		fetched, err := s.upstream.Exam(ctx, token, examID)
		s.metrics.ObserveUpstreamRequest("exam", err, time.Since(started))
		if err != nil {
			return err
		}
		exam = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}

	started := time.Now()
	results, err := s.upstream.ExamResults(ctx, token, examID)
	s.metrics.ObserveUpstreamRequest("exam_results", err, time.Since(started))
	if err != nil {
		return nil, err
	}

	view := &ExamView{Exam: *exam, Results: make([]ExamResultView, 0, len(results))}
	for _, result := range results {
		view.Results = append(view.Results, s.classify(*exam, result))
	}
	return view, nil
}

// Classify derives the display fields for a single result row.
func (s *ExamService) Classify(exam models.Exam, result models.ExamResult) ExamResultView {
	return s.classify(exam, result)
}

func (s *ExamService) classify(exam models.Exam, result models.ExamResult) ExamResultView {
	view := ExamResultView{Result: result}

	if exam.TotalMarks > 0 {
		view.Percent = math.Round(result.MarksObtained/exam.TotalMarks*10000) / 100
	}

	passing := exam.PassingMarks
	if passing <= 0 && exam.TotalMarks > 0 {
		passing = exam.TotalMarks * s.defaultPassing / 100
	}
	view.Outcome = status.PassFail(result.MarksObtained, passing)
	view.Letter = s.scale.Letter(view.Percent)
	return view
}
