package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type stubStore struct {
	sessions map[string]*models.Session
}

func (s *stubStore) Current(_ context.Context, id string) *models.Session {
	return s.sessions[id]
}

func guardedEngine(store *stubStore, roles []models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store))
	guard := Guard(nil)
	r.GET("/protected", guard(roles), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func activeSession(role models.Role) *models.Session {
	return &models.Session{
		ID:        "sess-1",
		Token:     "upstream-token",
		Role:      role,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	store := &stubStore{sessions: map[string]*models.Session{"sess-1": activeSession(models.RoleAdmin)}}
	r := guardedEngine(store, []models.Role{models.RoleAdmin})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sess-1")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardUnauthenticatedRedirectsToLogin(t *testing.T) {
	store := &stubStore{sessions: map[string]*models.Session{}}
	r := guardedEngine(store, []models.Role{models.RoleAdmin})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, router.LoginPath, envelope.Meta["redirect"])
	assert.Equal(t, "/protected", envelope.Meta["returnTo"], "the requested path survives for the post-login redirect")
}

func TestGuardForbiddenRedirectsToUnauthorized(t *testing.T) {
	store := &stubStore{sessions: map[string]*models.Session{"sess-1": activeSession(models.RoleStudent)}}
	r := guardedEngine(store, []models.Role{models.RoleAdmin})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sess-1")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, router.UnauthorizedPath, envelope.Meta["redirect"])
}

func TestGuardAnyAuthenticated(t *testing.T) {
	store := &stubStore{sessions: map[string]*models.Session{"sess-1": activeSession(models.RoleParent)}}
	r := guardedEngine(store, []models.Role{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sess-1")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddlewareHeaderForms(t *testing.T) {
	store := &stubStore{sessions: map[string]*models.Session{"sess-1": activeSession(models.RoleAdmin)}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store))
	r.GET("/whoami", func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil {
			c.JSON(http.StatusOK, gin.H{"role": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": string(sess.Role)})
	})

	t.Run("bearer header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer sess-1")
		r.ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), "admin")
	})

	t.Run("session header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Session-ID", "sess-1")
		r.ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), "admin")
	})

	t.Run("no header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Contains(t, rec.Body.String(), `"role":""`)
	})
}
