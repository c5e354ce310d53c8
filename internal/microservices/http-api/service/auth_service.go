package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bookhub/internal/config"
	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/middleware/auth"
	"bookhub/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenName = "auth_token"
	issuer    = "bookhub"
)

var (
	ErrInvalidCredentials = apperror.Unauthorized("Invalid login credentials")
	ErrInvalidToken       = apperror.Unauthorized("")
	ErrEmailTaken         = apperror.FieldError("email", "The email has already been taken.")
)

// SessionCache short-circuits session lookups. Implementations may be no-ops.
type SessionCache interface {
	Put(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (int64, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type noCache struct{}

func (noCache) Put(context.Context, string, int64, time.Duration) error { return nil }
func (noCache) Get(context.Context, string) (int64, bool, error)        { return 0, false, nil }
func (noCache) Delete(context.Context, string) error                    { return nil }

// IssuedToken is a signed access token and the session backing it.
type IssuedToken struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Session identifies an authenticated request.
type Session struct {
	UserID    int64
	SessionID string
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, *IssuedToken, error)
	Login(ctx context.Context, req dto.LoginRequest) (*models.User, *IssuedToken, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, tokenString string) (*Session, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	// PruneSessions deletes sessions that expired or were revoked more than retention ago.
	PruneSessions(ctx context.Context, retention time.Duration) (int64, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.AccessTokenRepository
	cache      SessionCache
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        *slog.Logger
	now        Clock
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.AccessTokenRepository,
	cache SessionCache,
	cfg *config.Config,
	log *slog.Logger,
) AuthService {
	if log == nil {
		log = slog.Default()
	}
	if cache == nil {
		cache = noCache{}
	}
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		cache:      cache,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.AccessTokenTTL,
		bcryptCost: cfg.BcryptCost,
		log:        log,
		now:        utcNow,
	}
}

// Register creates the account and logs it in.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, *IssuedToken, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailTaken
	}

	hashedPassword, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login checks the credentials and opens a new session.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, *IssuedToken, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, err
		}
		// Unknown email still pays for one bcrypt comparison
		auth.BurnCompare(req.Password)
		return nil, nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

func (s *authService) issue(ctx context.Context, user *models.User) (*IssuedToken, error) {
	now := s.now()
	session := &models.AccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	claims := shared.AuthClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, session.ID, user.ID, s.tokenTTL); err != nil {
		s.log.Warn("failed to cache session", "session_id", session.ID, "error", err)
	}

	return &IssuedToken{Token: signed, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate verifies the token signature and that its session is still live.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*Session, error) {
	claims := &shared.AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	if userID, ok, err := s.cache.Get(ctx, claims.ID); err != nil {
		s.log.Warn("session cache lookup failed", "session_id", claims.ID, "error", err)
	} else if ok && userID == claims.UserID {
		return &Session{UserID: userID, SessionID: claims.ID}, nil
	}

	session, err := s.tokenRepo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	now := s.now()
	if session.UserID != claims.UserID || !session.Active(now) {
		return nil, ErrInvalidToken
	}

	if err := s.tokenRepo.Touch(ctx, session.ID, now); err != nil {
		s.log.Warn("failed to touch session", "session_id", session.ID, "error", err)
	}
	if err := s.cache.Put(ctx, session.ID, session.UserID, session.ExpiresAt.Sub(now)); err != nil {
		s.log.Warn("failed to cache session", "session_id", session.ID, "error", err)
	}

	return &Session{UserID: session.UserID, SessionID: session.ID}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.tokenRepo.Revoke(ctx, sessionID, s.now()); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.log.Warn("failed to evict session", "session_id", sessionID, "error", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *authService) PruneSessions(ctx context.Context, retention time.Duration) (int64, error) {
	return s.tokenRepo.DeleteStale(ctx, s.now().Add(-retention))
}
