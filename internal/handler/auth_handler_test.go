package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type fakeAuthSrv struct {
	loginResp  *models.SessionResponse
	loginErr   error
	currentErr error
	loggedOut  []string
}

func (f *fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.SessionResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthSrv) Logout(_ context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return nil
}

func (f *fakeAuthSrv) Current(context.Context, string) (*models.SessionResponse, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthSrv) ForgotPassword(context.Context, models.ForgotPasswordRequest) error { return nil }

func (f *fakeAuthSrv) VerifyResetCode(context.Context, models.VerifyResetCodeRequest) error {
	return nil
}

func (f *fakeAuthSrv) ResetPassword(context.Context, models.ResetPasswordRequest) error { return nil }

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{loginResp: &models.SessionResponse{
		SessionID:   "sess-1",
		Role:        models.RoleStudent,
		LandingPath: router.StudentDashboardPath,
	}}
	h := NewAuthHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"secret"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "sess-1", data["sessionId"])
	assert.Equal(t, router.StudentDashboardPath, data["landingPath"])
}

func TestAuthHandlerLoginBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{broken"))

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{loginErr: appErrors.Clone(appErrors.ErrUnauthenticated, "invalid email or password")}
	h := NewAuthHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"nope"}`))

	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "invalid email or password", envelope.Message)
}

func TestAuthHandlerLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{}
	h := NewAuthHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	c.Request.Header.Set("Authorization", "Bearer sess-1")

	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"sess-1"}, srv.loggedOut)
}

func TestAuthHandlerSessionMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{currentErr: appErrors.Clone(appErrors.ErrUnauthenticated, "no active session")}
	h := NewAuthHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/session", nil)

	h.Session(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
