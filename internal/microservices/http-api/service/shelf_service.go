package service

import (
	"context"
	"errors"
	"strings"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

var (
	ErrBookAlreadyOnShelf = apperror.FieldError("book", "This book is already in the shelf.")
	ErrBookNotOnShelf     = apperror.FieldError("book", "This book is not in the shelf.")
)

type ShelfService interface {
	// List returns the caller's own shelves.
	List(ctx context.Context, userID int64, p repository.Pagination) ([]models.Shelf, int64, error)
	// ListForUser returns ownerID's shelves as seen by viewerID: all of them for the owner, public ones otherwise.
	ListForUser(ctx context.Context, viewerID, ownerID int64, p repository.Pagination) ([]models.Shelf, int64, error)
	Create(ctx context.Context, userID int64, req dto.CreateShelfRequest) (*models.Shelf, error)
	Get(ctx context.Context, viewerID, shelfID int64) (*models.Shelf, error)
	Update(ctx context.Context, userID, shelfID int64, req dto.UpdateShelfRequest) (*models.Shelf, error)
	Delete(ctx context.Context, userID, shelfID int64) error
	AddBook(ctx context.Context, userID, shelfID, bookID int64) error
	RemoveBook(ctx context.Context, userID, shelfID, bookID int64) error
}

type shelfService struct {
	repo       repository.ShelfRepository
	books      repository.BookRepository
	users      repository.UserRepository
	activities ActivityService
}

func NewShelfService(
	repo repository.ShelfRepository,
	books repository.BookRepository,
	users repository.UserRepository,
	activities ActivityService,
) ShelfService {
	return &shelfService{repo: repo, books: books, users: users, activities: activities}
}

func (s *shelfService) List(ctx context.Context, userID int64, p repository.Pagination) ([]models.Shelf, int64, error) {
	return s.repo.ListByUser(ctx, userID, false, p)
}

func (s *shelfService) ListForUser(ctx context.Context, viewerID, ownerID int64, p repository.Pagination) ([]models.Shelf, int64, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, 0, notFound(err, "User not found")
	}
	return s.repo.ListByUser(ctx, ownerID, viewerID != ownerID, p)
}

func (s *shelfService) Create(ctx context.Context, userID int64, req dto.CreateShelfRequest) (*models.Shelf, error) {
	shelf := &models.Shelf{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if err := s.repo.Create(ctx, shelf); err != nil {
		return nil, err
	}

	s.activities.Log(ctx, userID, models.ActivityCreatedShelf, models.SubjectShelf, shelf.ID, nil)
	return shelf, nil
}

func (s *shelfService) Get(ctx context.Context, viewerID, shelfID int64) (*models.Shelf, error) {
	shelf, err := s.repo.FindWithBooks(ctx, shelfID)
	if err != nil {
		return nil, notFound(err, "Shelf not found")
	}
	if !shelf.CanBeViewedBy(viewerID) {
		return nil, apperror.Forbidden("")
	}
	return shelf, nil
}

// owned loads the shelf and checks that userID owns it.
func (s *shelfService) owned(ctx context.Context, userID, shelfID int64) (*models.Shelf, error) {
	shelf, err := s.repo.FindByID(ctx, shelfID)
	if err != nil {
		return nil, notFound(err, "Shelf not found")
	}
	if !shelf.IsOwnedBy(userID) {
		return nil, apperror.Forbidden("")
	}
	return shelf, nil
}

func (s *shelfService) Update(ctx context.Context, userID, shelfID int64, req dto.UpdateShelfRequest) (*models.Shelf, error) {
	shelf, err := s.owned(ctx, userID, shelfID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		shelf.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		shelf.Description = req.Description
	}
	if req.IsPublic != nil {
		shelf.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

func (s *shelfService) Delete(ctx context.Context, userID, shelfID int64) error {
	if _, err := s.owned(ctx, userID, shelfID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, shelfID)
}

func (s *shelfService) AddBook(ctx context.Context, userID, shelfID, bookID int64) error {
	shelf, err := s.owned(ctx, userID, shelfID)
	if err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}

	onShelf, err := s.repo.HasBook(ctx, shelf.ID, bookID)
	if err != nil {
		return err
	}
	if onShelf {
		return ErrBookAlreadyOnShelf
	}
	if err := s.repo.AddBook(ctx, shelf.ID, bookID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrBookAlreadyOnShelf
		}
		return err
	}

	s.activities.Log(ctx, userID, models.ActivityAddedToShelf, models.SubjectBook, bookID,
		map[string]any{"shelf_id": shelf.ID, "shelf_name": shelf.Name})
	return nil
}

func (s *shelfService) RemoveBook(ctx context.Context, userID, shelfID, bookID int64) error {
	shelf, err := s.owned(ctx, userID, shelfID)
	if err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}

	removed, err := s.repo.RemoveBook(ctx, shelf.ID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrBookNotOnShelf
	}
	return nil
}

func (s *shelfService) requireBook(ctx context.Context, bookID int64) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("Book not found")
	}
	return nil
}
