package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/session"
)

// SessionRepository persists browser sessions in PostgreSQL so they survive a
// gateway restart the way browser storage survives a reload.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save upserts a session record.
func (r *SessionRepository) Save(ctx context.Context, rec session.Record) error {
	const query = `INSERT INTO portal_sessions (id, token, role, profile, created_at, expires_at)
		VALUES (:id, :token, :role, :profile, :created_at, :expires_at)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, role = EXCLUDED.role, profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at`
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find returns a session record by identifier.
func (r *SessionRepository) Find(ctx context.Context, id string) (*session.Record, error) {
	const query = `SELECT id, token, role, profile, created_at, expires_at FROM portal_sessions WHERE id = $1 LIMIT 1`
	var rec session.Record
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &rec, nil
}

// Delete removes a session record.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM portal_sessions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired clears sessions past their expiry.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM portal_sessions WHERE expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return count, nil
}
