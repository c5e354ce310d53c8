package service

import (
	"context"
	"errors"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

var ErrAlreadyReviewed = apperror.Unprocessable("You have already reviewed this book")

type ReviewService interface {
	ListForBook(ctx context.Context, bookID int64, hideSpoilers bool, p repository.Pagination) ([]models.BookReview, int64, error)
	ListByUser(ctx context.Context, userID int64, p repository.Pagination) ([]models.BookReview, int64, error)
	Create(ctx context.Context, userID, bookID int64, req dto.CreateReviewRequest) (*models.BookReview, error)
	Update(ctx context.Context, userID, bookID, reviewID int64, req dto.UpdateReviewRequest) (*models.BookReview, error)
	Delete(ctx context.Context, userID, bookID, reviewID int64) error
}

type reviewService struct {
	repo       repository.ReviewRepository
	books      repository.BookRepository
	activities ActivityService
}

func NewReviewService(repo repository.ReviewRepository, books repository.BookRepository, activities ActivityService) ReviewService {
	return &reviewService{repo: repo, books: books, activities: activities}
}

func (s *reviewService) ListForBook(ctx context.Context, bookID int64, hideSpoilers bool, p repository.Pagination) ([]models.BookReview, int64, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByBook(ctx, bookID, hideSpoilers, p)
}

func (s *reviewService) ListByUser(ctx context.Context, userID int64, p repository.Pagination) ([]models.BookReview, int64, error) {
	return s.repo.ListByUser(ctx, userID, p)
}

func (s *reviewService) Create(ctx context.Context, userID, bookID int64, req dto.CreateReviewRequest) (*models.BookReview, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.BookReview{
		UserID:           userID,
		BookID:           bookID,
		Rating:           req.Rating,
		Review:           req.Review,
		ContainsSpoilers: req.ContainsSpoilers,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.activities.Log(ctx, userID, models.ActivityReviewed, models.SubjectReview, review.ID,
		map[string]any{"book_id": bookID, "rating": review.Rating})
	return s.reload(ctx, review.ID)
}

func (s *reviewService) Update(ctx context.Context, userID, bookID, reviewID int64, req dto.UpdateReviewRequest) (*models.BookReview, error) {
	review, err := s.authored(ctx, userID, bookID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Review != nil {
		review.Review = req.Review
	}
	if req.ContainsSpoilers != nil {
		review.ContainsSpoilers = *req.ContainsSpoilers
	}
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}
	return s.reload(ctx, review.ID)
}

func (s *reviewService) Delete(ctx context.Context, userID, bookID, reviewID int64) error {
	if _, err := s.authored(ctx, userID, bookID, reviewID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reviewID)
}

// authored loads a review of bookID and checks userID wrote it.
func (s *reviewService) authored(ctx context.Context, userID, bookID, reviewID int64) (*models.BookReview, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, notFound(err, "Review not found")
	}
	if review.BookID != bookID {
		return nil, apperror.NotFound("Review not found")
	}
	if review.UserID != userID {
		return nil, apperror.Forbidden("")
	}
	return review, nil
}

func (s *reviewService) reload(ctx context.Context, id int64) (*models.BookReview, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Review not found")
	}
	return review, nil
}

func (s *reviewService) requireBook(ctx context.Context, bookID int64) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("Book not found")
	}
	return nil
}
