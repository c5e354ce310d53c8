package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookhub/internal/config"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}
}

func newTestAuthService(users *MockUserRepository, tokens *MockAccessTokenRepository, cache SessionCache) *authService {
	svc := NewAuthService(users, tokens, cache, testAuthConfig(), nil).(*authService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func expectSessionCreate(tokens *MockAccessTokenRepository, sessionID string) {
	tokens.On("Create", mock.Anything, mock.AnythingOfType("*models.AccessToken")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.AccessToken).ID = sessionID
		}).
		Return(nil)
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	users.On("EmailExists", mock.Anything, "reader@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 7
		}).
		Return(nil)
	expectSessionCreate(tokens, "sess-1")

	user, token, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:                 "  Reader ",
		Email:                "Reader@Example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Reader", user.Name)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.NoError(t, auth.VerifyPassword(user.Password, "password123"))
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "sess-1", token.SessionID)
	assert.Equal(t, fixedNow.Add(time.Hour), token.ExpiresAt)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	users.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

	user, token, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.Equal(t, ErrEmailTaken, err)
	assert.Nil(t, user)
	assert.Nil(t, token)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateOnInsert(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	users.On("EmailExists", mock.Anything, "race@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("create user: %w", repository.ErrDuplicate))

	_, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Racer",
		Email:    "race@example.com",
		Password: "password123",
	})

	assert.Equal(t, ErrEmailTaken, err)
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "reader@example.com").
		Return(&models.User{ID: 3, Email: "reader@example.com", Password: hash}, nil)
	users.On("UpdateLastLogin", mock.Anything, int64(3), fixedNow).Return(nil)
	expectSessionCreate(tokens, "sess-2")

	user, token, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "READER@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, fixedNow, *user.LastLogin)
	assert.Equal(t, "sess-2", token.SessionID)
	users.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "reader@example.com").
		Return(&models.User{ID: 3, Password: hash}, nil)

	user, token, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "reader@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Nil(t, user)
	assert.Nil(t, token)
	tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	users.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, fmt.Errorf("find user: %w", repository.ErrNotFound))

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestAuthenticate_ChecksSessionOnCacheMiss(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	cache := new(MockSessionCache)
	svc := newTestAuthService(users, tokens, cache)

	cache.On("Put", mock.Anything, "sess-3", int64(5), time.Hour).Return(nil).Once()
	expectSessionCreate(tokens, "sess-3")
	issued, err := svc.issue(context.Background(), &models.User{ID: 5})
	require.NoError(t, err)

	cache.On("Get", mock.Anything, "sess-3").Return(int64(0), false, nil)
	tokens.On("FindByID", mock.Anything, "sess-3").
		Return(&models.AccessToken{ID: "sess-3", UserID: 5, ExpiresAt: fixedNow.Add(time.Hour)}, nil)
	tokens.On("Touch", mock.Anything, "sess-3", fixedNow).Return(nil)
	cache.On("Put", mock.Anything, "sess-3", int64(5), time.Hour).Return(nil).Once()

	session, err := svc.Authenticate(context.Background(), issued.Token)

	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: 5, SessionID: "sess-3"}, session)
	tokens.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestAuthenticate_CacheHitSkipsDatabase(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	cache := new(MockSessionCache)
	svc := newTestAuthService(users, tokens, cache)

	cache.On("Put", mock.Anything, "sess-4", int64(9), time.Hour).Return(nil)
	expectSessionCreate(tokens, "sess-4")
	issued, err := svc.issue(context.Background(), &models.User{ID: 9})
	require.NoError(t, err)

	cache.On("Get", mock.Anything, "sess-4").Return(int64(9), true, nil)

	session, err := svc.Authenticate(context.Background(), issued.Token)

	require.NoError(t, err)
	assert.Equal(t, int64(9), session.UserID)
	tokens.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthenticate_RevokedSession(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	expectSessionCreate(tokens, "sess-5")
	issued, err := svc.issue(context.Background(), &models.User{ID: 2})
	require.NoError(t, err)

	revoked := fixedNow.Add(-time.Minute)
	tokens.On("FindByID", mock.Anything, "sess-5").
		Return(&models.AccessToken{ID: "sess-5", UserID: 2, ExpiresAt: fixedNow.Add(time.Hour), RevokedAt: &revoked}, nil)

	session, err := svc.Authenticate(context.Background(), issued.Token)

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, session)
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	expectSessionCreate(tokens, "sess-6")
	issued, err := svc.issue(context.Background(), &models.User{ID: 2})
	require.NoError(t, err)

	svc.jwtSecret = []byte("another-secret")
	_, err = svc.Authenticate(context.Background(), issued.Token)
	assert.Equal(t, ErrInvalidToken, err)

	_, err = svc.Authenticate(context.Background(), "not-a-jwt")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	expectSessionCreate(tokens, "sess-7")
	issued, err := svc.issue(context.Background(), &models.User{ID: 2})
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	_, err = svc.Authenticate(context.Background(), issued.Token)

	assert.Equal(t, ErrInvalidToken, err)
	tokens.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestLogout_RevokesAndEvicts(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	cache := new(MockSessionCache)
	svc := newTestAuthService(users, tokens, cache)

	tokens.On("Revoke", mock.Anything, "sess-8", fixedNow).Return(nil)
	cache.On("Delete", mock.Anything, "sess-8").Return(nil)

	require.NoError(t, svc.Logout(context.Background(), "sess-8"))
	tokens.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPruneSessions_UsesRetentionCutoff(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockAccessTokenRepository)
	svc := newTestAuthService(users, tokens, nil)

	tokens.On("DeleteStale", mock.Anything, fixedNow.Add(-24*time.Hour)).Return(int64(4), nil)

	n, err := svc.PruneSessions(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
