package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"bookhub/database"
	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	bg          = context.Background()
	defaultPage = repository.NewPagination(1, repository.DefaultPerPage)
)

// testEnv wires every service against a throwaway SQLite database with the clock pinned to fixedNow.
type testEnv struct {
	db         *gorm.DB
	activities ActivityService
	books      *bookService
	shelves    *shelfService
	progress   *progressService
	goals      *goalService
	reviews    *reviewService
	followers  *followerService
	challenges *challengeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bookhub_service.db")
	db, err := database.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	activities := NewActivityService(repository.NewActivityRepository(db), nil)
	clock := func() time.Time { return fixedNow }

	env := &testEnv{
		db:         db,
		activities: activities,
		books:      NewBookService(bookRepo, repository.NewCategoryRepository(db)).(*bookService),
		shelves:    NewShelfService(repository.NewShelfRepository(db), bookRepo, userRepo, activities).(*shelfService),
		progress:   NewProgressService(repository.NewProgressRepository(db), bookRepo, goalRepo, activities, nil).(*progressService),
		goals:      NewGoalService(goalRepo, activities).(*goalService),
		reviews:    NewReviewService(repository.NewReviewRepository(db), bookRepo, activities).(*reviewService),
		followers:  NewFollowerService(repository.NewFollowerRepository(db), userRepo).(*followerService),
		challenges: NewChallengeService(repository.NewChallengeRepository(db), bookRepo, activities).(*challengeService),
	}
	env.progress.now = clock
	env.goals.now = clock
	env.challenges.now = clock
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) book(t *testing.T, title string, pages int) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: "Author of " + title, Language: "en", TotalPages: pages}
	require.NoError(t, e.db.Create(b).Error)
	return b
}

func (e *testEnv) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: database.Slugify(name)}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) countActivities(t *testing.T, userID int64, activityType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Activity{}).
		Where("user_id = ? AND type = ?", userID, activityType).
		Count(&n).Error)
	return n
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	assertStatus(t, err, http.StatusUnprocessableEntity)
	appErr, _ := apperror.As(err)
	assert.Contains(t, appErr.Fields, field)
}

func ptr[T any](v T) *T {
	return &v
}
