package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/status"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type fakeExamSrv struct {
	view       *service.ExamView
	err        error
	lastExamID string
}

func (f *fakeExamSrv) Results(_ context.Context, _ string, examID string) (*service.ExamView, error) {
	f.lastExamID = examID
	return f.view, f.err
}

func TestExamHandlerResults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExamSrv{view: &service.ExamView{
		Exam: models.Exam{ID: "exam-1", Name: "Midterm", TotalMarks: 100},
		Results: []service.ExamResultView{
			{
				Result:  models.ExamResult{StudentID: "stu-1", MarksObtained: 92},
				Percent: 92,
				Outcome: status.Pass,
				Letter:  "A",
			},
		},
	}}
	h := NewExamHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exams/exam-1/results", nil)
	c.Params = gin.Params{{Key: "id", Value: "exam-1"}}
	attachSession(c, models.RoleTeacher)

	h.Results(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "exam-1", srv.lastExamID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, "PASS", row["outcome"])
	assert.Equal(t, "A", row["letter"])
}

func TestExamHandlerNoSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewExamHandler(&fakeExamSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exams/exam-1/results", nil)
	c.Params = gin.Params{{Key: "id", Value: "exam-1"}}

	h.Results(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExamHandlerNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExamSrv{err: appErrors.Clone(appErrors.ErrNotFound, "exam not found")}
	h := NewExamHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exams/missing/results", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	attachSession(c, models.RoleTeacher)

	h.Results(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
