package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/status"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

// submissionFetchWorkers bounds concurrent per-row submission lookups.
const submissionFetchWorkers = 4

type assignmentUpstream interface {
	ClassAssignments(ctx context.Context, token, classID string) ([]models.Assignment, error)
	AssignmentSubmission(ctx context.Context, token, assignmentID string) (*models.Submission, error)
}

// AssignmentView is one work item row with its derived display state. A
// row-local fetch failure is reported on the row, never on the whole list.
type AssignmentView struct {
	Assignment models.Assignment  `json:"assignment"`
	Submission *models.Submission `json:"submission,omitempty"`
	Status     status.Result      `json:"status"`
	Error      string             `json:"error,omitempty"`
}

// AssignmentService lists work items and resolves each row's submission
// concurrently. Per-assignment generation counters drop stale responses, so
// a slow fetch never overwrites the result of a newer one.
type AssignmentService struct {
	upstream assignmentUpstream
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time

	mu  sync.Mutex
	gen map[string]uint64
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(upstream assignmentUpstream, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		upstream: upstream,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		gen:      make(map[string]uint64),
	}
}

// begin opens a new fetch generation for an assignment and returns its ticket.
func (s *AssignmentService) begin(assignmentID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[assignmentID]++
	return s.gen[assignmentID]
}

// current reports whether the ticket still names the latest fetch.
func (s *AssignmentService) current(assignmentID string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[assignmentID] == ticket
}

// ListForStudent returns the class work items with per-row submission state.
// Rows whose submission lookup fails carry the failure message and derive
// their status without a submission.
func (s *AssignmentService) ListForStudent(ctx context.Context, token, classID string) ([]AssignmentView, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	var assignments []models.Assignment
	err := s.cache.Fetch(ctx, "records:assignments:"+classID, &assignments, func(ctx context.Context) error {
		started := time.Now()
		fetched, err := s.upstream.ClassAssignments(ctx, token, classID)
		s.metrics.ObserveUpstreamRequest("class_assignments", err, time.Since(started))
		if err != nil {
			return err
		}
		assignments = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]AssignmentView, len(assignments))
	sem := make(chan struct{}, submissionFetchWorkers)
	var wg sync.WaitGroup
	for i := range assignments {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			views[i] = s.resolveRow(ctx, token, assignments[i])
		}(i)
	}
	wg.Wait()

	return views, nil
}

// Refresh re-resolves a single work item row, e.g. after the student submits.
func (s *AssignmentService) Refresh(ctx context.Context, token string, assignment models.Assignment) AssignmentView {
	return s.resolveRow(ctx, token, assignment)
}

func (s *AssignmentService) resolveRow(ctx context.Context, token string, assignment models.Assignment) AssignmentView {
	ticket := s.begin(assignment.ID)

	started := time.Now()
	submission, err := s.upstream.AssignmentSubmission(ctx, token, assignment.ID)
	s.metrics.ObserveUpstreamRequest("assignment_submission", err, time.Since(started))

	view := AssignmentView{Assignment: assignment}
	if err != nil {
		appErr := appErrors.FromError(err)
		s.logger.Warn("submission lookup failed",
			zap.String("assignment_id", assignment.ID),
			zap.Error(err))
		view.Error = appErr.Message
		view.Status = status.DeriveSubmission(s.now(), assignment, nil)
		return view
	}

	view.Submission = submission
	view.Status = status.DeriveSubmission(s.now(), assignment, submission)

	if !s.current(assignment.ID, ticket) {
		// A newer fetch finished first. Return this row to its own caller
		// but leave the shared cache to the winner.
		s.logger.Debug("stale submission response dropped from cache",
			zap.String("assignment_id", assignment.ID))
		return view
	}
	s.cache.Store(ctx, "records:submission:"+assignment.ID, submission)

	return view
}
