package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

type ProgressService interface {
	// Update upserts the caller's progress on bookID and applies req.
	Update(ctx context.Context, userID, bookID int64, req dto.UpdateProgressRequest) (*models.ReadingProgress, error)
	Get(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error)
	List(ctx context.Context, userID int64, status string, p repository.Pagination) ([]models.ReadingProgress, int64, error)
	Statistics(ctx context.Context, userID int64) (*dto.StatisticsResponse, error)
}

type progressService struct {
	repo       repository.ProgressRepository
	books      repository.BookRepository
	goals      repository.GoalRepository
	activities ActivityService
	log        *slog.Logger
	now        Clock
}

func NewProgressService(
	repo repository.ProgressRepository,
	books repository.BookRepository,
	goals repository.GoalRepository,
	activities ActivityService,
	log *slog.Logger,
) ProgressService {
	if log == nil {
		log = slog.Default()
	}
	return &progressService{
		repo:       repo,
		books:      books,
		goals:      goals,
		activities: activities,
		log:        log,
		now:        utcNow,
	}
}

func (s *progressService) Update(ctx context.Context, userID, bookID int64, req dto.UpdateProgressRequest) (*models.ReadingProgress, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "Book not found")
	}
	status, err := s.effectiveStatus(ctx, userID, bookID, req)
	if err != nil {
		return nil, err
	}
	if err := validatePage(status, req.CurrentPage, book.TotalPages); err != nil {
		return nil, err
	}

	progress, err := s.repo.FirstOrCreate(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	previous := progress.Status
	now := s.now()

	progress.Status = status
	if req.CurrentPage != nil {
		progress.CurrentPage = *req.CurrentPage
	}
	if req.ReadingTimeMinutes != nil {
		progress.ReadingTimeMinutes = *req.ReadingTimeMinutes
	}
	if req.Notes != nil {
		progress.Notes = req.Notes
	}

	switch progress.Status {
	case models.StatusCompleted:
		progress.CurrentPage = book.TotalPages
		if progress.CompletedAt == nil {
			progress.CompletedAt = &now
		}
	default:
		progress.CompletedAt = nil
	}
	if progress.Status != models.StatusNotStarted && progress.StartedAt == nil {
		progress.StartedAt = &now
	}

	if err := s.repo.Save(ctx, progress); err != nil {
		return nil, err
	}
	progress.Book = book

	if previous != models.StatusInProgress && progress.Status == models.StatusInProgress {
		s.activities.Log(ctx, userID, models.ActivityStartedReading, models.SubjectBook, bookID, nil)
	}
	if previous != models.StatusCompleted && progress.Status == models.StatusCompleted {
		s.activities.Log(ctx, userID, models.ActivityFinishedReading, models.SubjectBook, bookID, nil)
		s.checkCurrentGoal(ctx, userID, now.Year())
	}

	return progress, nil
}

// effectiveStatus is the requested status, or the stored one when the request omits it.
func (s *progressService) effectiveStatus(ctx context.Context, userID, bookID int64, req dto.UpdateProgressRequest) (string, error) {
	if req.Status != nil {
		return *req.Status, nil
	}
	existing, err := s.repo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if isNotFound(err) {
			return models.StatusNotStarted, nil
		}
		return "", err
	}
	return existing.Status, nil
}

// validatePage enforces that current_page is present while reading and within the book.
// Completed progress always moves to the last page, so any submitted page is ignored.
func validatePage(status string, page *int, totalPages int) error {
	if status == models.StatusCompleted {
		return nil
	}
	if page == nil {
		if status == models.StatusInProgress {
			return apperror.FieldError("current_page", "The current page field is required unless status is in [not_started, completed].")
		}
		return nil
	}
	if *page < 1 {
		return apperror.FieldError("current_page", "The current page must be at least 1.")
	}
	if *page > totalPages {
		return apperror.FieldError("current_page", fmt.Sprintf("The current page may not be greater than %d.", totalPages))
	}
	return nil
}

// checkCurrentGoal re-evaluates the year's goal after a book is finished. Failures are logged only.
func (s *progressService) checkCurrentGoal(ctx context.Context, userID int64, year int) {
	goal, err := s.goals.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		if !isNotFound(err) {
			s.log.Warn("failed to load reading goal", "user_id", userID, "year", year, "error", err)
		}
		return
	}
	if _, err := syncGoalCompletion(ctx, s.goals, s.activities, goal); err != nil {
		s.log.Warn("failed to update reading goal", "goal_id", goal.ID, "error", err)
	}
}

func (s *progressService) Get(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error) {
	progress, err := s.repo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, notFound(err, "Reading progress not found")
	}
	return progress, nil
}

func (s *progressService) List(ctx context.Context, userID int64, status string, p repository.Pagination) ([]models.ReadingProgress, int64, error) {
	if status != "" && !slices.Contains(models.ReadingStatuses, status) {
		return nil, 0, apperror.FieldError("status", "The selected status is invalid.")
	}
	return s.repo.ListByUser(ctx, userID, status, p)
}

func (s *progressService) Statistics(ctx context.Context, userID int64) (*dto.StatisticsResponse, error) {
	stats, err := s.repo.Statistics(ctx, userID)
	if err != nil {
		return nil, err
	}
	dates, err := s.repo.UpdateDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StatisticsResponse{
		TotalBooks:        stats.TotalBooks,
		CompletedBooks:    stats.CompletedBooks,
		InProgressBooks:   stats.InProgressBooks,
		TotalPagesRead:    stats.TotalPagesRead,
		TotalReadingTime:  stats.TotalReadingTime,
		ReadingStreakDays: readingStreak(dates, s.now()),
	}, nil
}

// readingStreak counts consecutive calendar days with an update, ending today or, failing that, yesterday.
func readingStreak(updates []time.Time, now time.Time) int {
	days := make(map[time.Time]bool, len(updates))
	for _, u := range updates {
		days[models.DateOnly(u.UTC())] = true
	}

	day := models.DateOnly(now)
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
