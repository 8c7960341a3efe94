// Package session holds the single current session per browser, fronted by an
// in-memory cache that is the sole writer to persistent storage.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

// Record is the persisted session layout: opaque token, role string and
// serialized profile as independent fields, plus lifecycle timestamps.
type Record struct {
	ID        string    `db:"id"`
	Token     string    `db:"token"`
	Role      string    `db:"role"`
	Profile   []byte    `db:"profile"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Repository abstracts session persistence.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	Find(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// Store exposes save/current/clear over the session cache. All writes to the
// repository flow through the store, so the cache never reads its own stale
// write back from storage.
type Store struct {
	mu     sync.RWMutex
	cache  map[string]*models.Session
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStore constructs a session store backed by the given repository.
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cache:  make(map[string]*models.Session),
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save persists the session, overwriting any prior session with the same ID.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session requires an id")
	}

	var profile []byte
	if sess.Profile != nil {
		encoded, err := json.Marshal(sess.Profile)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode session profile")
		}
		profile = encoded
	}

	rec := Record{
		ID:        sess.ID,
		Token:     sess.Token,
		Role:      string(sess.Role),
		Profile:   profile,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.mu.Lock()
	s.cache[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

// Current returns the session for the given ID, or nil when absent or
// expired. A corrupt persisted profile does not fail the lookup: the session
// is returned with a nil profile so navigation keeps working.
func (s *Store) Current(ctx context.Context, id string) *models.Session {
	if id == "" {
		return nil
	}

	s.mu.RLock()
	cached, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		if cached.Expired(s.now()) {
			_ = s.Clear(ctx, id)
			return nil
		}
		return cached
	}

	rec, err := s.repo.Find(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("session lookup failed", zap.String("session_id", id), zap.Error(err))
		}
		return nil
	}

	sess := s.decode(rec)
	if sess.Expired(s.now()) {
		_ = s.Clear(ctx, id)
		return nil
	}

	s.mu.Lock()
	s.cache[id] = sess
	s.mu.Unlock()
	return sess
}

// Role is a convenience accessor; empty when unauthenticated.
func (s *Store) Role(ctx context.Context, id string) models.Role {
	sess := s.Current(ctx, id)
	if sess == nil {
		return ""
	}
	return sess.Role
}

// Clear removes the session from cache and storage. The cache entry goes away
// even when the storage delete fails, so a logged-out tab never resurrects.
func (s *Store) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("session delete failed", zap.String("session_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

func (s *Store) decode(rec *Record) *models.Session {
	sess := &models.Session{
		ID:        rec.ID,
		Token:     rec.Token,
		Role:      models.Role(rec.Role),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if len(rec.Profile) > 0 {
		var profile models.UserProfile
		if err := json.Unmarshal(rec.Profile, &profile); err != nil {
			// Token and role stay usable; only the profile is lost.
			s.logger.Warn("session profile corrupt", zap.String("session_id", rec.ID), zap.Error(err))
		} else {
			sess.Profile = &profile
		}
	}
	return sess
}
