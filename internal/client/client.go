// Package client is a typed HTTP client for the student-performance API.
// It mirrors the server's error taxonomy so callers see the same sentinel
// errors the service layer raises.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "gradebook/internal/errors"
	"gradebook/internal/model"
)

const defaultTimeout = 15 * time.Second

// ErrUnauthorized is returned when the server rejects the bearer token.
var ErrUnauthorized = errors.New("not logged in or session expired")

// Client talks to the student-performance API.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout)
	return &Client{http: cli}
}

// SetToken installs the bearer token used on protected routes.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return "Bearer " + c.token
}

// Ping checks that the API root answers.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", c.http.BaseURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("server returned status %d", resp.StatusCode())
	}
	return nil
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"name": name, "email": email, "password": password}).
		Post("/api/auth/signup")
	if err != nil {
		return transportErr(err, c.http.BaseURL)
	}
	if resp.IsError() {
		return mapAPIError(resp)
	}
	return nil
}

// Login authenticates and returns the issued token. The token is also
// installed on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/api/auth/login")
	if err != nil {
		return "", transportErr(err, c.http.BaseURL)
	}
	if resp.IsError() {
		return "", mapAPIError(resp)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Token == "" {
		return "", fmt.Errorf("invalid login response: %s", truncate(resp.String(), 100))
	}

	c.SetToken(body.Token)
	return body.Token, nil
}

// List returns all students.
func (c *Client) List(ctx context.Context) ([]model.Student, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer()).
		Get("/api/students")
	if err != nil {
		return nil, transportErr(err, c.http.BaseURL)
	}
	if resp.IsError() {
		return nil, mapAPIError(resp)
	}

	var students []model.Student
	if err := json.Unmarshal(resp.Body(), &students); err != nil {
		return nil, fmt.Errorf("invalid students response: %s", truncate(resp.String(), 100))
	}
	return students, nil
}

// CreateStudent adds a student. Email may be empty.
func (c *Client) CreateStudent(ctx context.Context, name, roll, grade, email string) (*model.Student, error) {
	payload := map[string]string{"name": name, "roll": roll, "grade": grade}
	if email != "" {
		payload["email"] = email
	}
	return c.studentCall(ctx, resty.MethodPost, "/api/students", payload, 201)
}

// StudentUpdate is a partial student update; nil fields are left unchanged.
type StudentUpdate struct {
	Name    *string `json:"name,omitempty"`
	Roll    *string `json:"roll,omitempty"`
	Grade   *string `json:"grade,omitempty"`
	Email   *string `json:"email,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

// UpdateStudent patches the identified student.
func (c *Client) UpdateStudent(ctx context.Context, id string, update StudentUpdate) (*model.Student, error) {
	return c.studentCall(ctx, resty.MethodPut, "/api/students/"+id, update, 200)
}

// Marks is a partial marks update; nil fields are left unchanged.
type Marks struct {
	Math    *float64 `json:"math,omitempty"`
	Science *float64 `json:"science,omitempty"`
	English *float64 `json:"english,omitempty"`
	Remarks *string  `json:"remarks,omitempty"`
}

// UpdateMarks records marks for the identified student.
func (c *Client) UpdateMarks(ctx context.Context, id string, marks Marks) (*model.Student, error) {
	return c.studentCall(ctx, resty.MethodPut, "/api/students/"+id+"/marks", marks, 200)
}

// DeleteStudent removes the identified student.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer()).
		Delete("/api/students/" + id)
	if err != nil {
		return transportErr(err, c.http.BaseURL)
	}
	if resp.IsError() {
		return mapAPIError(resp)
	}
	return nil
}

func (c *Client) studentCall(ctx context.Context, method, path string, body interface{}, wantStatus int) (*model.Student, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", c.bearer()).
		SetBody(body).
		Execute(method, path)
	if err != nil {
		return nil, transportErr(err, c.http.BaseURL)
	}
	if resp.StatusCode() != wantStatus {
		return nil, mapAPIError(resp)
	}

	var student model.Student
	if err := json.Unmarshal(resp.Body(), &student); err != nil {
		return nil, fmt.Errorf("invalid student response: %s", truncate(resp.String(), 100))
	}
	return &student, nil
}

func transportErr(err error, baseURL string) error {
	return fmt.Errorf("server not reachable: %w. Make sure the backend is running at %s", err, baseURL)
}

// mapAPIError turns an error response body back into the shared taxonomy.
// Echo wraps handler errors as {"message": <payload>} where the payload is
// either a plain string or an ErrorResponse object.
func mapAPIError(resp *resty.Response) error {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && len(envelope.Message) > 0 {
		var er apperrors.ErrorResponse
		if json.Unmarshal(envelope.Message, &er) == nil && er.Code != "" {
			return sentinelForCode(er.Code, er.Error)
		}
		var msg string
		if json.Unmarshal(envelope.Message, &msg) == nil && msg != "" {
			if resp.StatusCode() == 401 {
				return ErrUnauthorized
			}
			return errors.New(msg)
		}
	}
	if resp.StatusCode() == 401 {
		return ErrUnauthorized
	}
	return fmt.Errorf("server error: %d - %s", resp.StatusCode(), truncate(resp.String(), 100))
}

func sentinelForCode(code, fallback string) error {
	switch code {
	case "MISSING_FIELDS":
		return apperrors.ErrMissingFields
	case "USER_EXISTS":
		return apperrors.ErrUserExists
	case "INVALID_CREDENTIALS":
		return apperrors.ErrInvalidCredentials
	case "STUDENT_NOT_FOUND":
		return apperrors.ErrStudentNotFound
	case "ROLL_TAKEN":
		return apperrors.ErrRollTaken
	default:
		if fallback == "" {
			fallback = "request failed"
		}
		return errors.New(fallback)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
