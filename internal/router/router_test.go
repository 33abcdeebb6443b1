package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradebook/internal/auth"
	"gradebook/internal/config"
	"gradebook/internal/handler"
	"gradebook/internal/model"
	"gradebook/internal/service"
)

type stubStudentService struct {
	mock.Mock
}

func (m *stubStudentService) List(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *stubStudentService) Create(ctx context.Context, input service.CreateStudentInput) (*model.Student, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *stubStudentService) Update(ctx context.Context, id uuid.UUID, input service.UpdateStudentInput) (*model.Student, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *stubStudentService) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *stubStudentService) UpdateMarks(ctx context.Context, id uuid.UUID, input service.MarksInput) (*model.Student, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *stubStudentService) Seed(ctx context.Context, students []model.Student) (int, error) {
	args := m.Called(ctx, students)
	return args.Int(0), args.Error(1)
}

type stubAuthService struct {
	mock.Mock
}

func (m *stubAuthService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newTestServer(students *stubStudentService) *echo.Echo {
	e := echo.New()
	cfg := &config.Config{JWTSecret: "test-secret", ServerPort: "0"}
	Register(
		e,
		cfg,
		zerolog.Nop(),
		handler.NewAuthHandler(&stubAuthService{}),
		handler.NewStudentHandler(students),
		handler.NewSeedHandler(students),
	)
	return e
}

// The bearer gate must run before any student handler does.
func TestStudentRoutesRequireBearerToken(t *testing.T) {
	students := new(stubStudentService)
	e := newTestServer(students)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	students.AssertNotCalled(t, "List", mock.Anything)
}

func TestStudentRoutesRejectMalformedToken(t *testing.T) {
	students := new(stubStudentService)
	e := newTestServer(students)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentRoutesAcceptIssuedToken(t *testing.T) {
	students := new(stubStudentService)
	students.On("List", mock.Anything).Return([]model.Student{}, nil)
	e := newTestServer(students)

	token, err := auth.NewJWTService("test-secret").GenerateToken(1, "a@x.com")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	students.AssertExpectations(t)
}

func TestRootAndHealthAreOpen(t *testing.T) {
	e := newTestServer(new(stubStudentService))

	for _, path := range []string{"/", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
