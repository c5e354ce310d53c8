package service

import (
	"net/http"
	"testing"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingStreak(t *testing.T) {
	day := func(offset int) time.Time {
		return fixedNow.AddDate(0, 0, offset)
	}

	tests := []struct {
		name    string
		updates []time.Time
		want    int
	}{
		{"no updates", nil, 0},
		{"today only", []time.Time{day(0)}, 1},
		{"yesterday only keeps the streak alive", []time.Time{day(-1)}, 1},
		{"three days in a row", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"same day counted once", []time.Time{day(0), day(0).Add(-time.Hour), day(-1)}, 2},
		{"gap breaks the streak", []time.Time{day(0), day(-2), day(-3)}, 1},
		{"stale updates", []time.Time{day(-2), day(-3)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readingStreak(tt.updates, fixedNow))
		})
	}
}

func TestProgressUpdate_Validation(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	_, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusInProgress)})
	assertFieldError(t, err, "current_page")

	_, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:      ptr(models.StatusInProgress),
		CurrentPage: ptr(301),
	})
	assertFieldError(t, err, "current_page")

	_, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:      ptr(models.StatusInProgress),
		CurrentPage: ptr(0),
	})
	assertFieldError(t, err, "current_page")

	_, err = env.progress.Update(bg, reader.ID, 9999, dto.UpdateProgressRequest{Status: ptr(models.StatusNotStarted)})
	assertStatus(t, err, http.StatusNotFound)
}

func TestProgressUpdate_CompletedIgnoresSubmittedPage(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	for _, page := range []int{9999, 0} {
		progress, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
			Status:      ptr(models.StatusCompleted),
			CurrentPage: ptr(page),
		})
		require.NoError(t, err, "page %d", page)
		assert.Equal(t, 300, progress.CurrentPage)
		assert.Equal(t, models.StatusCompleted, progress.Status)
	}
}

func TestProgressUpdate_PageOnlyKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	_, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:      ptr(models.StatusInProgress),
		CurrentPage: ptr(40),
	})
	require.NoError(t, err)

	progress, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{CurrentPage: ptr(120)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, progress.Status)
	assert.Equal(t, 120, progress.CurrentPage)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityStartedReading))

	// the stored status still drives the page rules
	_, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{CurrentPage: ptr(301)})
	assertFieldError(t, err, "current_page")

	// no stored row: behaves as not_started
	other := env.book(t, "Emma", 200)
	progress, err = env.progress.Update(bg, reader.ID, other.ID, dto.UpdateProgressRequest{Notes: ptr("borrowed")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, progress.Status)
	assert.Equal(t, 0, progress.CurrentPage)
}

func TestProgressUpdate_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	progress, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:             ptr(models.StatusInProgress),
		CurrentPage:        ptr(120),
		ReadingTimeMinutes: ptr(90),
	})
	require.NoError(t, err)
	assert.Equal(t, 120, progress.CurrentPage)
	assert.Equal(t, 40.0, progress.ProgressPercentage())
	require.NotNil(t, progress.StartedAt)
	assert.Nil(t, progress.CompletedAt)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityStartedReading))

	// same status again does not log a second start
	_, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:      ptr(models.StatusInProgress),
		CurrentPage: ptr(150),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityStartedReading))

	progress, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 300, progress.CurrentPage)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, 90, progress.ReadingTimeMinutes)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityFinishedReading))

	progress, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{
		Status:      ptr(models.StatusInProgress),
		CurrentPage: ptr(10),
	})
	require.NoError(t, err)
	assert.Nil(t, progress.CompletedAt)
	assert.NotNil(t, progress.StartedAt)
}

func TestProgressUpdate_CompletesCurrentGoal(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	view, err := env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: fixedNow.Year(), TargetBooks: 1, TargetPages: 300})
	require.NoError(t, err)
	assert.False(t, view.Goal.IsCompleted)

	_, err = env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)

	current, err := env.goals.Current(bg, reader.ID)
	require.NoError(t, err)
	assert.True(t, current.Goal.IsCompleted)
	assert.Equal(t, int64(1), current.Totals.BooksRead)
	assert.Equal(t, int64(300), current.Totals.PagesRead)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityAchievedReadingGoal))
}

func TestProgressStatistics(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	dune := env.book(t, "Dune", 300)
	emma := env.book(t, "Emma", 200)

	_, err := env.progress.Update(bg, reader.ID, dune.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusCompleted), ReadingTimeMinutes: ptr(600)})
	require.NoError(t, err)
	_, err = env.progress.Update(bg, reader.ID, emma.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusInProgress), CurrentPage: ptr(50)})
	require.NoError(t, err)

	stats, err := env.progress.Statistics(bg, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBooks)
	assert.Equal(t, int64(1), stats.CompletedBooks)
	assert.Equal(t, int64(1), stats.InProgressBooks)
	assert.Equal(t, int64(350), stats.TotalPagesRead)
	assert.Equal(t, int64(600), stats.TotalReadingTime)

	list, total, err := env.progress.List(bg, reader.ID, models.StatusCompleted, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, dune.ID, list[0].BookID)

	_, _, err = env.progress.List(bg, reader.ID, "abandoned", defaultPage)
	assertFieldError(t, err, "status")
}
