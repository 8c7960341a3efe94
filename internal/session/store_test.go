package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

type fakeRepo struct {
	records   map[string]Record
	saveErr   error
	findErr   error
	deleteErr error
	deleted   []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]Record)}
}

func (f *fakeRepo) Save(_ context.Context, rec Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeRepo) Find(_ context.Context, id string) (*Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, id)
	return nil
}

func newTestSession(id string) *models.Session {
	return &models.Session{
		ID:    id,
		Token: "upstream-token",
		Role:  models.RoleStudent,
		Profile: &models.UserProfile{
			ID:        "stu-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
}

func TestStoreSaveAndCurrent(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, nil)
	ctx := context.Background()

	sess := newTestSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	got := store.Current(ctx, "sess-1")
	require.NotNil(t, got)
	assert.Equal(t, "upstream-token", got.Token)
	assert.Equal(t, models.RoleStudent, got.Role)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "ada@example.com", got.Profile.Email)
}

func TestStoreSurvivesCacheLoss(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	first := NewStore(repo, nil)
	require.NoError(t, first.Save(ctx, newTestSession("sess-1")))

	// A fresh store over the same repository simulates a process restart.
	second := NewStore(repo, nil)
	got := second.Current(ctx, "sess-1")
	require.NotNil(t, got)
	assert.Equal(t, models.RoleStudent, got.Role)
	assert.True(t, got.Authenticated())
}

func TestStoreCurrentUnknownID(t *testing.T) {
	store := NewStore(newFakeRepo(), nil)
	assert.Nil(t, store.Current(context.Background(), "missing"))
	assert.Nil(t, store.Current(context.Background(), ""))
}

func TestStoreCurrentRepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("connection refused")
	store := NewStore(repo, nil)

	assert.Nil(t, store.Current(context.Background(), "sess-1"))
}

func TestStoreExpiredSessionCleared(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, nil)
	ctx := context.Background()

	sess := newTestSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	store.now = func() time.Time { return sess.ExpiresAt.Add(time.Minute) }

	assert.Nil(t, store.Current(ctx, "sess-1"))
	assert.Contains(t, repo.deleted, "sess-1")
}

func TestStoreCorruptProfileDegrades(t *testing.T) {
	repo := newFakeRepo()
	repo.records["sess-1"] = Record{
		ID:        "sess-1",
		Token:     "upstream-token",
		Role:      string(models.RoleTeacher),
		Profile:   []byte("{not json"),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	store := NewStore(repo, nil)

	got := store.Current(context.Background(), "sess-1")
	require.NotNil(t, got)
	assert.True(t, got.Authenticated())
	assert.Equal(t, models.RoleTeacher, got.Role)
	assert.Nil(t, got.Profile)
}

func TestStoreRole(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, nil)
	ctx := context.Background()

	assert.Equal(t, models.Role(""), store.Role(ctx, "missing"))

	require.NoError(t, store.Save(ctx, newTestSession("sess-1")))
	assert.Equal(t, models.RoleStudent, store.Role(ctx, "sess-1"))
}

func TestStoreClearEvictsCacheDespiteRepoError(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestSession("sess-1")))

	repo.deleteErr = errors.New("connection refused")
	assert.Error(t, store.Clear(ctx, "sess-1"))

	// The cached copy is gone, so the next lookup goes to the repository.
	repo.findErr = errors.New("still down")
	assert.Nil(t, store.Current(ctx, "sess-1"))
}

func TestStoreSaveValidation(t *testing.T) {
	store := NewStore(newFakeRepo(), nil)
	assert.Error(t, store.Save(context.Background(), nil))
	assert.Error(t, store.Save(context.Background(), &models.Session{}))
}

func TestStoreSaveOverwrites(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, nil)
	ctx := context.Background()

	sess := newTestSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	replacement := newTestSession("sess-1")
	replacement.Role = models.RoleParent
	replacement.Token = "new-token"
	require.NoError(t, store.Save(ctx, replacement))

	got := store.Current(ctx, "sess-1")
	require.NotNil(t, got)
	assert.Equal(t, models.RoleParent, got.Role)
	assert.Equal(t, "new-token", got.Token)
}
