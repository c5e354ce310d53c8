package service

import (
	"context"
	"fmt"
	"log/slog"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// FeedItem is an activity with its subject resolved.
type FeedItem struct {
	Activity models.Activity
	Subject  *dto.SubjectSummary
}

type ActivityService interface {
	// Log records an activity. Failures are logged and swallowed.
	Log(ctx context.Context, userID int64, activityType, subjectType string, subjectID int64, metadata map[string]any)
	ListByUser(ctx context.Context, userID int64, p repository.Pagination) ([]FeedItem, int64, error)
	Feed(ctx context.Context, userID int64, p repository.Pagination) ([]FeedItem, int64, error)
}

type activityService struct {
	repo repository.ActivityRepository
	log  *slog.Logger
}

func NewActivityService(repo repository.ActivityRepository, log *slog.Logger) ActivityService {
	if log == nil {
		log = slog.Default()
	}
	return &activityService{repo: repo, log: log}
}

func (s *activityService) Log(ctx context.Context, userID int64, activityType, subjectType string, subjectID int64, metadata map[string]any) {
	a := &models.Activity{
		UserID:      userID,
		Type:        activityType,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Metadata:    metadata,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Warn("failed to record activity",
			"user_id", userID,
			"type", activityType,
			"subject_type", subjectType,
			"subject_id", subjectID,
			"error", err)
	}
}

func (s *activityService) ListByUser(ctx context.Context, userID int64, p repository.Pagination) ([]FeedItem, int64, error) {
	list, total, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.hydrate(ctx, list)
	return items, total, err
}

func (s *activityService) Feed(ctx context.Context, userID int64, p repository.Pagination) ([]FeedItem, int64, error) {
	list, total, err := s.repo.Feed(ctx, userID, p)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.hydrate(ctx, list)
	return items, total, err
}

func (s *activityService) hydrate(ctx context.Context, list []models.Activity) ([]FeedItem, error) {
	if len(list) == 0 {
		return []FeedItem{}, nil
	}
	subjects, err := s.repo.LoadSubjects(ctx, list)
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(list))
	for _, a := range list {
		items = append(items, FeedItem{Activity: a, Subject: summarize(a, subjects)})
	}
	return items, nil
}

// summarize returns nil when the subject row is gone entirely.
func summarize(a models.Activity, s *repository.Subjects) *dto.SubjectSummary {
	sum := &dto.SubjectSummary{ID: a.SubjectID, Type: a.SubjectType}
	switch a.SubjectType {
	case models.SubjectBook:
		b, ok := s.Books[a.SubjectID]
		if !ok {
			return nil
		}
		sum.Title = b.Title
		sum.Deleted = b.DeletedAt.Valid
	case models.SubjectShelf:
		sh, ok := s.Shelves[a.SubjectID]
		if !ok {
			return nil
		}
		sum.Title = sh.Name
		sum.Deleted = sh.DeletedAt.Valid
	case models.SubjectReview:
		rv, ok := s.Reviews[a.SubjectID]
		if !ok {
			return nil
		}
		sum.Title = "Review"
		if rv.Book != nil {
			sum.Title = "Review of " + rv.Book.Title
		}
		sum.Deleted = rv.DeletedAt.Valid
	case models.SubjectGoal:
		g, ok := s.Goals[a.SubjectID]
		if !ok {
			return nil
		}
		sum.Title = fmt.Sprintf("%d reading goal", g.Year)
		sum.Deleted = g.DeletedAt.Valid
	case models.SubjectChallenge:
		c, ok := s.Challenges[a.SubjectID]
		if !ok {
			return nil
		}
		sum.Title = c.Title
		sum.Deleted = c.DeletedAt.Valid
	default:
		return nil
	}
	return sum
}
