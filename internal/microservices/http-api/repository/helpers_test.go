package repository

import (
	"bookhub/database"
	"bookhub/internal/microservices/http-api/models"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "bookhub_test.db")

	db, err := database.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cleanup := func() {
		_ = database.Close(db)
	}
	return db, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestBook(t *testing.T, db *gorm.DB, title string, pages int) *models.Book {
	b := &models.Book{Title: title, Author: "Author of " + title, Language: "en", TotalPages: pages}
	require.NoError(t, db.Create(b).Error)
	return b
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	c := &models.Category{Name: name, Slug: fmt.Sprintf("cat-%s", name)}
	require.NoError(t, db.Create(c).Error)
	return c
}

func completeBook(t *testing.T, db *gorm.DB, userID int64, book *models.Book, at time.Time) {
	p := &models.ReadingProgress{
		UserID:      userID,
		BookID:      book.ID,
		Status:      models.StatusCompleted,
		CurrentPage: book.TotalPages,
		CompletedAt: &at,
	}
	require.NoError(t, db.Create(p).Error)
}

var bg = context.Background()
