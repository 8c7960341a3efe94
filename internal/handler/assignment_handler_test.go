package handler

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

	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/status"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type fakeAssignmentSrv struct {
	views       []service.AssignmentView
	err         error
	lastClassID string
}

func (f *fakeAssignmentSrv) ListForStudent(_ context.Context, _ string, classID string) ([]service.AssignmentView, error) {
	f.lastClassID = classID
	return f.views, f.err
}

func attachSession(c *gin.Context, role models.Role) {
	c.Set(middleware.ContextSessionKey, &models.Session{
		ID:        "sess-1",
		Token:     "upstream-token",
		Role:      role,
		Profile:   &models.UserProfile{ID: "stu-1"},
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
}

func TestAssignmentHandlerListForClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAssignmentSrv{views: []service.AssignmentView{
		{
			Assignment: models.Assignment{ID: "asg-1", Title: "Essay"},
			Status:     status.Result{Label: status.NotSubmitted, Severity: status.SeverityWarning, Actionable: true},
		},
	}}
	h := NewAssignmentHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/classes/cls-1/assignments", nil)
	c.Params = gin.Params{{Key: "id", Value: "cls-1"}}
	attachSession(c, models.RoleStudent)

	h.ListForClass(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cls-1", srv.lastClassID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	rows := envelope.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	statusObj := row["status"].(map[string]interface{})
	assert.Equal(t, string(status.NotSubmitted), statusObj["label"])
}

func TestAssignmentHandlerNoSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAssignmentHandler(&fakeAssignmentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/classes/cls-1/assignments", nil)
	c.Params = gin.Params{{Key: "id", Value: "cls-1"}}

	h.ListForClass(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignmentHandlerMissingClassID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAssignmentHandler(&fakeAssignmentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/classes//assignments", nil)
	attachSession(c, models.RoleStudent)

	h.ListForClass(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
