package service

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

var (
	ErrNoCurrentGoal = apperror.NotFound("No reading goal set for the current year")
	ErrGoalYearTaken = apperror.FieldError("year", "The year has already been taken.")
)

// GoalView is a goal with what was read toward it.
type GoalView struct {
	Goal   models.ReadingGoal
	Totals models.GoalTotals
}

type GoalService interface {
	List(ctx context.Context, userID int64, p repository.Pagination) ([]GoalView, int64, error)
	Current(ctx context.Context, userID int64) (*GoalView, error)
	Get(ctx context.Context, userID, goalID int64) (*GoalView, error)
	Create(ctx context.Context, userID int64, req dto.CreateGoalRequest) (*GoalView, error)
	Update(ctx context.Context, userID, goalID int64, req dto.UpdateGoalRequest) (*GoalView, error)
	Delete(ctx context.Context, userID, goalID int64) error
}

type goalService struct {
	repo       repository.GoalRepository
	activities ActivityService
	now        Clock
}

func NewGoalService(repo repository.GoalRepository, activities ActivityService) GoalService {
	return &goalService{repo: repo, activities: activities, now: utcNow}
}

func (s *goalService) List(ctx context.Context, userID int64, p repository.Pagination) ([]GoalView, int64, error) {
	goals, total, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, err
	}
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		totals, err := s.repo.TotalsForYear(ctx, userID, g.Year)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, GoalView{Goal: g, Totals: totals})
	}
	return views, total, nil
}

func (s *goalService) Current(ctx context.Context, userID int64) (*GoalView, error) {
	goal, err := s.repo.FindByUserAndYear(ctx, userID, s.now().Year())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoCurrentGoal
		}
		return nil, err
	}
	return s.view(ctx, goal)
}

func (s *goalService) Get(ctx context.Context, userID, goalID int64) (*GoalView, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, goal)
}

func (s *goalService) Create(ctx context.Context, userID int64, req dto.CreateGoalRequest) (*GoalView, error) {
	if current := s.now().Year(); req.Year < current {
		return nil, apperror.FieldError("year", fmt.Sprintf("The year must be at least %d.", current))
	}

	if _, err := s.repo.FindByUserAndYear(ctx, userID, req.Year); err == nil {
		return nil, ErrGoalYearTaken
	} else if !isNotFound(err) {
		return nil, err
	}

	goal := &models.ReadingGoal{
		UserID:      userID,
		Year:        req.Year,
		TargetBooks: req.TargetBooks,
		TargetPages: req.TargetPages,
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrGoalYearTaken
		}
		return nil, err
	}
	s.activities.Log(ctx, userID, models.ActivitySetReadingGoal, models.SubjectGoal, goal.ID,
		map[string]any{"year": goal.Year})

	totals, err := syncGoalCompletion(ctx, s.repo, s.activities, goal)
	if err != nil {
		return nil, err
	}
	return &GoalView{Goal: *goal, Totals: totals}, nil
}

func (s *goalService) Update(ctx context.Context, userID, goalID int64, req dto.UpdateGoalRequest) (*GoalView, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.TargetBooks != nil {
		goal.TargetBooks = *req.TargetBooks
	}
	if req.TargetPages != nil {
		goal.TargetPages = *req.TargetPages
	}
	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}

	totals, err := syncGoalCompletion(ctx, s.repo, s.activities, goal)
	if err != nil {
		return nil, err
	}
	return &GoalView{Goal: *goal, Totals: totals}, nil
}

func (s *goalService) Delete(ctx context.Context, userID, goalID int64) error {
	if _, err := s.owned(ctx, userID, goalID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, goalID)
}

func (s *goalService) owned(ctx context.Context, userID, goalID int64) (*models.ReadingGoal, error) {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		return nil, notFound(err, "Reading goal not found")
	}
	if goal.UserID != userID {
		return nil, apperror.Forbidden("")
	}
	return goal, nil
}

func (s *goalService) view(ctx context.Context, goal *models.ReadingGoal) (*GoalView, error) {
	totals, err := s.repo.TotalsForYear(ctx, goal.UserID, goal.Year)
	if err != nil {
		return nil, err
	}
	return &GoalView{Goal: *goal, Totals: totals}, nil
}

// syncGoalCompletion recomputes is_completed from the year's totals, saving only on change.
// Flipping to completed records an achieved_reading_goal activity.
func syncGoalCompletion(ctx context.Context, repo repository.GoalRepository, activities ActivityService, goal *models.ReadingGoal) (models.GoalTotals, error) {
	totals, err := repo.TotalsForYear(ctx, goal.UserID, goal.Year)
	if err != nil {
		return totals, err
	}

	met := goal.Met(totals)
	if met == goal.IsCompleted {
		return totals, nil
	}
	goal.IsCompleted = met
	if err := repo.Save(ctx, goal); err != nil {
		return totals, err
	}
	if met {
		activities.Log(ctx, goal.UserID, models.ActivityAchievedReadingGoal, models.SubjectGoal, goal.ID,
			map[string]any{"year": goal.Year})
	}
	return totals, nil
}
