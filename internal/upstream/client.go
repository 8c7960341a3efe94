// Package upstream wraps outbound calls to the school REST API. Every request
// carries the session bearer token and every response is decoded from the
// common {success, data, message} envelope; the message travels back to the
// user when success is false or transport fails.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/config"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const unreachableMessage = "school service is unreachable, please try again"

// Client issues authenticated requests against the upstream API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs an upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("path", path), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, unreachableMessage)
	}
	defer resp.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		c.logger.Warn("upstream response undecodable", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, unreachableMessage)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Message
		if message == "" {
			message = unreachableMessage
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, message)
		case http.StatusForbidden:
			return nil, appErrors.Clone(appErrors.ErrForbidden, message)
		case http.StatusNotFound:
			return nil, appErrors.Clone(appErrors.ErrNotFound, message)
		default:
			return nil, appErrors.Clone(appErrors.ErrTransport, message)
		}
	}

	return env, nil
}

func decodeData(env *envelope, dest interface{}) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return appErrors.ErrNotFound
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMalformedRecord.Code, appErrors.ErrMalformedRecord.Status, "upstream record has unexpected shape")
	}
	return nil
}

// Login authenticates against the upstream API. The response contract is
// { token, data: { user: {...} } }.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/users/login", "", req)
	if err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrMalformedRecord, "login response missing token")
	}
	var data struct {
		User models.UpstreamUser `json:"user"`
	}
	if err := decodeData(env, &data); err != nil {
		return nil, err
	}
	return &models.LoginResult{Token: env.Token, User: data.User}, nil
}

// ForgotPassword triggers the upstream reset email.
func (c *Client) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/users/forgotPassword", "", req)
	return err
}

// VerifyResetCode validates the emailed reset code.
func (c *Client) VerifyResetCode(ctx context.Context, req models.VerifyResetCodeRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/users/verifyResetCode", "", req)
	return err
}

// ResetPassword completes the reset flow.
func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/users/resetPassword", "", req)
	return err
}

// Student fetches a single student record.
func (c *Client) Student(ctx context.Context, token, id string) (*models.Student, error) {
	env, err := c.do(ctx, http.MethodGet, "/students/"+id, token, nil)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := decodeData(env, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Class fetches a single class record.
func (c *Client) Class(ctx context.Context, token, id string) (*models.Class, error) {
	env, err := c.do(ctx, http.MethodGet, "/classes/"+id, token, nil)
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := decodeData(env, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// ClassAssignments lists the assignments for a class.
func (c *Client) ClassAssignments(ctx context.Context, token, classID string) ([]models.Assignment, error) {
	env, err := c.do(ctx, http.MethodGet, "/assignments/class/"+classID, token, nil)
	if err != nil {
		return nil, err
	}
	var assignments []models.Assignment
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	if err := decodeData(env, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignmentSubmission fetches the current student's submission for an
// assignment. A missing submission is not an error: (nil, nil).
func (c *Client) AssignmentSubmission(ctx context.Context, token, assignmentID string) (*models.Submission, error) {
	env, err := c.do(ctx, http.MethodGet, "/assignments/"+assignmentID+"/submission", token, nil)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return nil, nil
		}
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var submission models.Submission
	if err := decodeData(env, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// StudentAttendance lists a student's attendance records.
func (c *Client) StudentAttendance(ctx context.Context, token, studentID string) ([]models.AttendanceRecord, error) {
	env, err := c.do(ctx, http.MethodGet, "/attendance/student/"+studentID, token, nil)
	if err != nil {
		return nil, err
	}
	var records []models.AttendanceRecord
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	if err := decodeData(env, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Exam fetches a single exam definition.
func (c *Client) Exam(ctx context.Context, token, id string) (*models.Exam, error) {
	env, err := c.do(ctx, http.MethodGet, "/exams/"+id, token, nil)
	if err != nil {
		return nil, err
	}
	var exam models.Exam
	if err := decodeData(env, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// ExamResults lists the results recorded for an exam.
func (c *Client) ExamResults(ctx context.Context, token, examID string) ([]models.ExamResult, error) {
	env, err := c.do(ctx, http.MethodGet, "/exams/"+examID+"/results", token, nil)
	if err != nil {
		return nil, err
	}
	var results []models.ExamResult
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	if err := decodeData(env, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ClassTimetable lists the timetable entries for a class.
func (c *Client) ClassTimetable(ctx context.Context, token, classID string) ([]models.TimetableEntry, error) {
	env, err := c.do(ctx, http.MethodGet, "/timetables/class/"+classID, token, nil)
	if err != nil {
		return nil, err
	}
	var entries []models.TimetableEntry
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	if err := decodeData(env, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Healthy probes the upstream health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, unreachableMessage)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("upstream health returned %d", resp.StatusCode))
	}
	return nil
}
