package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, *service.IssuedToken, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.IssuedToken), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, *service.IssuedToken, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.IssuedToken), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*service.Session, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) PruneSessions(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthRouter(svc service.AuthService) http.Handler {
	r, api := setupRouter()
	NewAuthHandler(svc).RegisterRoutes(api, testGuards())
	return r
}

func TestRegister_Success(t *testing.T) {
	svc := new(MockAuthService)
	req := dto.RegisterRequest{
		Name:                 "Ada",
		Email:                "ada@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	}
	user := &models.User{ID: 1, Name: "Ada", Email: "ada@example.com"}
	token := &service.IssuedToken{Token: "signed", SessionID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	svc.On("Register", mock.Anything, req).Return(user, token, nil)

	w := do(t, newAuthRouter(svc), call{method: http.MethodPost, path: "/api/v1/auth/register", body: req})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "signed", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, "ada@example.com", body["user"].(map[string]any)["email"])
	assert.NotContains(t, body["user"], "password")
	svc.AssertExpectations(t)
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc := new(MockAuthService)

	w := do(t, newAuthRouter(svc), call{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body: map[string]any{
			"name":                  "Ada",
			"email":                 "not-an-email",
			"password":              "short",
			"password_confirmation": "different",
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "password_confirmation")
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, nil, service.ErrEmailTaken)

	w := do(t, newAuthRouter(svc), call{method: http.MethodPost, path: "/api/v1/auth/register", body: dto.RegisterRequest{
		Name:                 "Ada",
		Email:                "ada@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"The email has already been taken."}, body["errors"].(map[string]any)["email"])
}

func TestRegister_MalformedJSON(t *testing.T) {
	w := do(t, newAuthRouter(new(MockAuthService)), call{method: http.MethodPost, path: "/api/v1/auth/register", body: "{"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Malformed JSON body", decode(t, w)["message"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, dto.LoginRequest{Email: "ada@example.com", Password: "wrong"}).
		Return(nil, nil, service.ErrInvalidCredentials)

	w := do(t, newAuthRouter(svc), call{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   dto.LoginRequest{Email: "ada@example.com", Password: "wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid login credentials", decode(t, w)["message"])
}

func TestLogout_RevokesCurrentSession(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, "session-"+userToken).Return(nil)

	w := do(t, newAuthRouter(svc), call{method: http.MethodPost, path: "/api/v1/auth/logout", token: userToken})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decode(t, w)["message"])
	svc.AssertExpectations(t)
}

func TestMe_RequiresToken(t *testing.T) {
	svc := new(MockAuthService)

	w := do(t, newAuthRouter(svc), call{method: http.MethodGet, path: "/api/v1/auth/user"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthenticated.", decode(t, w)["message"])

	w = do(t, newAuthRouter(svc), call{method: http.MethodGet, path: "/api/v1/auth/user", token: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ReturnsProfile(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("CurrentUser", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Name: "Grace", Email: "grace@example.com", FollowersCount: 2}, nil)

	w := do(t, newAuthRouter(svc), call{method: http.MethodGet, path: "/api/v1/auth/user", token: userToken})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 7, body["id"])
	assert.EqualValues(t, 2, body["followers_count"])
}

func TestMe_UnknownErrorIsHidden(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("CurrentUser", mock.Anything, int64(7)).Return(nil, assert.AnError)

	w := do(t, newAuthRouter(svc), call{method: http.MethodGet, path: "/api/v1/auth/user", token: userToken})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
}

func TestMe_AppErrorPassesThrough(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("CurrentUser", mock.Anything, int64(7)).Return(nil, apperror.NotFound("User not found"))

	w := do(t, newAuthRouter(svc), call{method: http.MethodGet, path: "/api/v1/auth/user", token: userToken})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
	assert.True(t, isJSON(w))
}
