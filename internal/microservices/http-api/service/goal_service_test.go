package service

import (
	"net/http"
	"testing"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalCreate_Rules(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	year := fixedNow.Year()

	_, err := env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: year - 1, TargetBooks: 5, TargetPages: 500})
	assertFieldError(t, err, "year")

	view, err := env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: year, TargetBooks: 5, TargetPages: 500})
	require.NoError(t, err)
	assert.Equal(t, year, view.Goal.Year)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivitySetReadingGoal))

	_, err = env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: year, TargetBooks: 1, TargetPages: 1})
	assert.Equal(t, ErrGoalYearTaken, err)

	// another user may set a goal for the same year
	other := env.user(t, "other")
	_, err = env.goals.Create(bg, other.ID, dto.CreateGoalRequest{Year: year, TargetBooks: 1, TargetPages: 1})
	require.NoError(t, err)
}

func TestGoalCurrent_NoneSet(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")

	_, err := env.goals.Current(bg, reader.ID)
	assert.Equal(t, ErrNoCurrentGoal, err)

	// a future goal is not the current one
	_, err = env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: fixedNow.Year() + 1, TargetBooks: 1, TargetPages: 1})
	require.NoError(t, err)
	_, err = env.goals.Current(bg, reader.ID)
	assert.Equal(t, ErrNoCurrentGoal, err)
}

func TestGoalUpdate_RecomputesCompletion(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t, "reader")
	book := env.book(t, "Dune", 300)

	_, err := env.progress.Update(bg, reader.ID, book.ID, dto.UpdateProgressRequest{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)

	view, err := env.goals.Create(bg, reader.ID, dto.CreateGoalRequest{Year: fixedNow.Year(), TargetBooks: 2, TargetPages: 100})
	require.NoError(t, err)
	assert.False(t, view.Goal.IsCompleted)

	view, err = env.goals.Update(bg, reader.ID, view.Goal.ID, dto.UpdateGoalRequest{TargetBooks: ptr(1)})
	require.NoError(t, err)
	assert.True(t, view.Goal.IsCompleted)
	assert.Equal(t, int64(1), env.countActivities(t, reader.ID, models.ActivityAchievedReadingGoal))

	view, err = env.goals.Update(bg, reader.ID, view.Goal.ID, dto.UpdateGoalRequest{TargetPages: ptr(1000)})
	require.NoError(t, err)
	assert.False(t, view.Goal.IsCompleted)

	res := dto.ToGoalResponse(view.Goal, view.Totals)
	assert.Equal(t, 100.0, res.BooksProgress)
	assert.Equal(t, 30.0, res.PagesProgress)
}

func TestGoalOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	intruder := env.user(t, "intruder")

	view, err := env.goals.Create(bg, owner.ID, dto.CreateGoalRequest{Year: fixedNow.Year(), TargetBooks: 3, TargetPages: 900})
	require.NoError(t, err)

	_, err = env.goals.Get(bg, intruder.ID, view.Goal.ID)
	assertStatus(t, err, http.StatusForbidden)
	_, err = env.goals.Update(bg, intruder.ID, view.Goal.ID, dto.UpdateGoalRequest{TargetBooks: ptr(1)})
	assertStatus(t, err, http.StatusForbidden)
	assertStatus(t, env.goals.Delete(bg, intruder.ID, view.Goal.ID), http.StatusForbidden)

	require.NoError(t, env.goals.Delete(bg, owner.ID, view.Goal.ID))
	_, err = env.goals.Get(bg, owner.ID, view.Goal.ID)
	assertStatus(t, err, http.StatusNotFound)
}
