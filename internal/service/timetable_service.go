package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type timetableUpstream interface {
	ClassTimetable(ctx context.Context, token, classID string) ([]models.TimetableEntry, error)
}

// TimetableDay groups a day's entries sorted by start time.
type TimetableDay struct {
	Day     string                  `json:"day"`
	Entries []models.TimetableEntry `json:"entries"`
}

// TimetableService fetches a class timetable and arranges it by weekday.
type TimetableService struct {
	upstream timetableUpstream
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewTimetableService constructs a TimetableService instance.
func NewTimetableService(upstream timetableUpstream, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{upstream: upstream, cache: cache, metrics: metrics, logger: logger}
}

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekForClass returns the class timetable grouped by weekday in calendar
// order. Days without entries are omitted.
func (s *TimetableService) WeekForClass(ctx context.Context, token, classID string) ([]TimetableDay, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	var entries []models.TimetableEntry
	err := s.cache.Fetch(ctx, "records:timetable:"+classID, &entries, func(ctx context.Context) error {
		started := time.Now()
		fetched, err := s.upstream.ClassTimetable(ctx, token, classID)
		s.metrics.ObserveUpstreamRequest("class_timetable", err, time.Since(started))
		if err != nil {
			return err
		}
		entries = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.TimetableEntry)
	for _, entry := range entries {
		day := strings.ToLower(strings.TrimSpace(entry.Day))
		byDay[day] = append(byDay[day], entry)
	}

	week := make([]TimetableDay, 0, len(byDay))
	for _, day := range weekdayOrder {
		dayEntries, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(dayEntries, func(i, j int) bool {
			return dayEntries[i].StartTime < dayEntries[j].StartTime
		})
		week = append(week, TimetableDay{Day: day, Entries: dayEntries})
		delete(byDay, day)
	}

	// Entries with unrecognised day names trail the ordered week.
	if len(byDay) > 0 {
		leftover := make([]string, 0, len(byDay))
		for day := range byDay {
			leftover = append(leftover, day)
		}
		sort.Strings(leftover)
		for _, day := range leftover {
			week = append(week, TimetableDay{Day: day, Entries: byDay[day]})
		}
	}

	return week, nil
}
