package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRepository_FirstOrCreateNeverDuplicates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "Emma", 400)

	first, err := repo.FirstOrCreate(bg, user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, first.Status)
	assert.Zero(t, first.CurrentPage)
	require.NotNil(t, first.Book)
	assert.Equal(t, 400, first.Book.TotalPages)

	second, err := repo.FirstOrCreate(bg, user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.ReadingProgress{}).Where("user_id = ? AND book_id = ?", user.ID, book.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// the unique index backs the check
	dup := &models.ReadingProgress{UserID: user.ID, BookID: book.ID, Status: models.StatusNotStarted}
	assert.True(t, IsUniqueViolation(db.Create(dup).Error))
}

func TestProgressRepository_ListAndStatistics(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	user := createTestUser(t, db, "reader")
	other := createTestUser(t, db, "other")
	a := createTestBook(t, db, "A", 100)
	b := createTestBook(t, db, "B", 250)
	c := createTestBook(t, db, "C", 80)

	completeBook(t, db, user.ID, a, time.Now().UTC())
	require.NoError(t, db.Create(&models.ReadingProgress{UserID: user.ID, BookID: b.ID, Status: models.StatusInProgress, CurrentPage: 40, ReadingTimeMinutes: 90}).Error)
	require.NoError(t, db.Create(&models.ReadingProgress{UserID: user.ID, BookID: c.ID, Status: models.StatusNotStarted}).Error)
	completeBook(t, db, other.ID, b, time.Now().UTC())

	stats, err := repo.Statistics(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{
		TotalBooks:       3,
		CompletedBooks:   1,
		InProgressBooks:  1,
		TotalPagesRead:   140,
		TotalReadingTime: 90,
	}, stats)

	list, total, err := repo.ListByUser(bg, user.ID, models.StatusInProgress, NewPagination(1, 15))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].BookID)
	require.NotNil(t, list[0].Book)

	_, total, err = repo.ListByUser(bg, user.ID, "", NewPagination(1, 15))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	dates, err := repo.UpdateDates(bg, user.ID)
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}

func TestProgressRepository_StatisticsEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "new")
	stats, err := NewProgressRepository(db).Statistics(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{}, stats)
}

func TestGoalRepository_TotalsForYear(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	user := createTestUser(t, db, "reader")
	completeBook(t, db, user.ID, createTestBook(t, db, "This year 1", 300), time.Date(2030, 2, 1, 10, 0, 0, 0, time.UTC))
	completeBook(t, db, user.ID, createTestBook(t, db, "This year 2", 200), time.Date(2030, 12, 31, 23, 0, 0, 0, time.UTC))
	completeBook(t, db, user.ID, createTestBook(t, db, "Last year", 999), time.Date(2029, 12, 31, 23, 0, 0, 0, time.UTC))

	totals, err := repo.TotalsForYear(bg, user.ID, 2030)
	require.NoError(t, err)
	assert.Equal(t, models.GoalTotals{BooksRead: 2, PagesRead: 500}, totals)
}

func TestGoalRepository_TotalsForYearSkipsDeletedBooks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	user := createTestUser(t, db, "reader")
	kept := createTestBook(t, db, "Kept", 300)
	removed := createTestBook(t, db, "Removed", 200)
	completeBook(t, db, user.ID, kept, time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC))
	completeBook(t, db, user.ID, removed, time.Date(2030, 4, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, NewBookRepository(db).Delete(bg, removed.ID))

	totals, err := repo.TotalsForYear(bg, user.ID, 2030)
	require.NoError(t, err)
	assert.Equal(t, models.GoalTotals{BooksRead: 1, PagesRead: 300}, totals)
}

func TestGoalRepository_UniquePerYear(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	user := createTestUser(t, db, "reader")
	require.NoError(t, repo.Create(bg, &models.ReadingGoal{UserID: user.ID, Year: 2030, TargetBooks: 10, TargetPages: 1000}))

	err := repo.Create(bg, &models.ReadingGoal{UserID: user.ID, Year: 2030, TargetBooks: 5, TargetPages: 500})
	assert.ErrorIs(t, err, ErrDuplicate)

	goal, err := repo.FindByUserAndYear(bg, user.ID, 2030)
	require.NoError(t, err)
	assert.Equal(t, 10, goal.TargetBooks)

	// a deleted goal frees the year
	require.NoError(t, repo.Delete(bg, goal.ID))
	require.NoError(t, repo.Create(bg, &models.ReadingGoal{UserID: user.ID, Year: 2030, TargetBooks: 3, TargetPages: 300}))
}
