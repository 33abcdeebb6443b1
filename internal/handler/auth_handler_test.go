package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "gradebook/internal/errors"
	"gradebook/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Signup", mock.Anything, "A", "a@x.com", "password").
		Return(&model.User{ID: 1, Name: "A", Email: "a@x.com"}, nil)

	h := NewAuthHandler(svc)
	c, rec := newTestContext(http.MethodPost, "/api/auth/signup", `{"name":"A","email":"a@x.com","password":"password"}`)

	assert.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signup success")
	svc.AssertExpectations(t)
}

// Any non-empty password is accepted; the API imposes no length floor.
func TestAuthHandler_SignupShortPassword(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Signup", mock.Anything, "A", "a@x.com", "pw").
		Return(&model.User{ID: 1, Name: "A", Email: "a@x.com"}, nil)

	h := NewAuthHandler(svc)
	c, rec := newTestContext(http.MethodPost, "/api/auth/signup", `{"name":"A","email":"a@x.com","password":"pw"}`)

	assert.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signup success")
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignupConflict(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Signup", mock.Anything, "A", "a@x.com", "password").
		Return(nil, apperrors.ErrUserExists)

	h := NewAuthHandler(svc)
	c, _ := newTestContext(http.MethodPost, "/api/auth/signup", `{"name":"A","email":"a@x.com","password":"password"}`)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	resp, ok := he.Message.(apperrors.ErrorResponse)
	assert.True(t, ok)
	assert.Equal(t, "USER_EXISTS", resp.Code)
}

func TestAuthHandler_SignupMissingField(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService))
	c, _ := newTestContext(http.MethodPost, "/api/auth/signup", `{"email":"a@x.com","password":"password"}`)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "password").Return("signed-token", nil)

	h := NewAuthHandler(svc)
	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"password"}`)

	assert.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"signed-token"`)
}

// Unknown email and wrong password produce byte-identical error responses.
func TestAuthHandler_LoginFailureShapeIdentical(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "unknown@x.com", "password").Return("", apperrors.ErrInvalidCredentials)
	svc.On("Login", mock.Anything, "known@x.com", "wrong").Return("", apperrors.ErrInvalidCredentials)

	h := NewAuthHandler(svc)

	c1, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"unknown@x.com","password":"password"}`)
	err1 := h.Login(c1)
	c2, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"known@x.com","password":"wrong"}`)
	err2 := h.Login(c2)

	he1, ok := err1.(*echo.HTTPError)
	assert.True(t, ok)
	he2, ok := err2.(*echo.HTTPError)
	assert.True(t, ok)

	assert.Equal(t, http.StatusUnauthorized, he1.Code)
	assert.Equal(t, he1.Code, he2.Code)
	assert.Equal(t, he1.Message, he2.Message)
}
