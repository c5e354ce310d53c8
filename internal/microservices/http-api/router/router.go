// Package router assembles the gin engine serving /api/v1.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/config"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/microservices/http-api/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const limiterIdle = 10 * time.Minute

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger
	// Sessions caches live sessions; nil means every check hits the database.
	Sessions service.SessionCache
	// Checks are reported by GET /health next to the database.
	Checks map[string]handler.Pinger
}

type Router struct {
	Engine  *gin.Engine
	Limiter *middleware.IPRateLimiter
	Auth    service.AuthService
}

// New wires repositories, services and handlers onto a fresh engine.
func New(d Deps) (*Router, error) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	validation.Register()

	db := d.DB
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	activities := service.NewActivityService(repository.NewActivityRepository(db), log)
	authService := service.NewAuthService(userRepo, repository.NewAccessTokenRepository(db), d.Sessions, d.Config, log)

	limiter := middleware.NewIPRateLimiter(d.Config.AuthRateLimitRPS, d.Config.AuthRateLimitBurst, limiterIdle)
	guards := handler.Guards{
		Auth:     middleware.RequireAuth(authService),
		Optional: middleware.OptionalAuth(authService),
		Throttle: limiter.Middleware(),
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, err
	}
	engine.Use(middleware.RequestID(), middleware.RequestLogger(log), gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
	})

	checks := map[string]handler.Pinger{"database": handler.PingFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})}
	for name, check := range d.Checks {
		checks[name] = check
	}
	handler.NewHealthHandler(checks).RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(api, guards)
	handler.NewBookHandler(service.NewBookService(bookRepo, categoryRepo)).RegisterRoutes(api, guards)
	handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, bookRepo)).RegisterRoutes(api, guards)
	handler.NewShelfHandler(service.NewShelfService(repository.NewShelfRepository(db), bookRepo, userRepo, activities)).RegisterRoutes(api, guards)
	handler.NewProgressHandler(service.NewProgressService(repository.NewProgressRepository(db), bookRepo, goalRepo, activities, log)).RegisterRoutes(api, guards)
	handler.NewGoalHandler(service.NewGoalService(goalRepo, activities)).RegisterRoutes(api, guards)
	handler.NewReviewHandler(service.NewReviewService(repository.NewReviewRepository(db), bookRepo, activities)).RegisterRoutes(api, guards)
	handler.NewUserHandler(service.NewFollowerService(repository.NewFollowerRepository(db), userRepo)).RegisterRoutes(api, guards)
	handler.NewChallengeHandler(service.NewChallengeService(repository.NewChallengeRepository(db), bookRepo, activities)).RegisterRoutes(api, guards)
	handler.NewActivityHandler(activities).RegisterRoutes(api, guards)

	return &Router{Engine: engine, Limiter: limiter, Auth: authService}, nil
}

// SweepLimiter drops idle rate limiter buckets every interval until ctx ends.
func (r *Router) SweepLimiter(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Limiter.Sweep()
		}
	}
}
