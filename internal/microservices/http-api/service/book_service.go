package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/pkg/isbn"
)

const defaultLanguage = "en"

var ErrISBNTaken = apperror.FieldError("isbn", "ISBN already exists")

type BookService interface {
	List(ctx context.Context, p repository.Pagination) ([]models.Book, int64, error)
	// Search applies the query filters; viewerID enables recommendations and may be zero.
	Search(ctx context.Context, viewerID int64, q dto.BookSearchQuery, p repository.Pagination) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, req dto.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id int64, req dto.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo       repository.BookRepository
	categories repository.CategoryRepository
}

func NewBookService(repo repository.BookRepository, categories repository.CategoryRepository) BookService {
	return &bookService{repo: repo, categories: categories}
}

func (s *bookService) List(ctx context.Context, p repository.Pagination) ([]models.Book, int64, error) {
	return s.repo.List(ctx, p)
}

func (s *bookService) Search(ctx context.Context, viewerID int64, q dto.BookSearchQuery, p repository.Pagination) ([]models.Book, int64, error) {
	f := repository.BookFilter{
		Search:        q.Search,
		Language:      q.Language,
		MinRating:     q.MinRating,
		MaxRating:     q.MaxRating,
		MinPages:      q.MinPages,
		MaxPages:      q.MaxPages,
		Publisher:     q.Publisher,
		SortBy:        q.SortBy,
		SortDirection: q.SortDirection,
	}

	if q.Categories != "" {
		ids, err := parseIDList(q.Categories)
		if err != nil {
			return nil, 0, apperror.FieldError("categories", "The categories must be a comma-separated list of ids.")
		}
		f.CategoryIDs = ids
	}
	if q.FromDate != "" {
		from, err := dto.ParseDate(q.FromDate)
		if err != nil {
			return nil, 0, apperror.FieldError("from_date", "The from date is not a valid date.")
		}
		f.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := dto.ParseDate(q.ToDate)
		if err != nil {
			return nil, 0, apperror.FieldError("to_date", "The to date is not a valid date.")
		}
		f.ToDate = &to
	}
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		return nil, 0, apperror.FieldError("to_date", "The to date must be a date after or equal to from date.")
	}
	if q.Recommended && viewerID != 0 {
		f.RecommendedFor = viewerID
	}

	return s.repo.Search(ctx, f, p)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Book not found")
	}
	return book, nil
}

func (s *bookService) Create(ctx context.Context, req dto.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Description: req.Description,
		Publisher:   req.Publisher,
		Language:    req.Language,
		TotalPages:  req.TotalPages,
		CoverImage:  req.CoverImage,
	}
	if book.Language == "" {
		book.Language = defaultLanguage
	}

	if err := s.setISBN(ctx, book, req.ISBN); err != nil {
		return nil, err
	}
	if err := setPublicationDate(book, req.PublicationDate); err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, book, categories); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrISBNTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, book.ID)
}

func (s *bookService) Update(ctx context.Context, id int64, req dto.UpdateBookRequest) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.Language != nil && *req.Language != "" {
		book.Language = *req.Language
	}
	if req.TotalPages != nil {
		book.TotalPages = *req.TotalPages
	}
	if req.CoverImage != nil {
		book.CoverImage = req.CoverImage
	}
	if req.ISBN != nil {
		if err := s.setISBN(ctx, book, req.ISBN); err != nil {
			return nil, err
		}
	}
	if req.PublicationDate != nil {
		if err := setPublicationDate(book, req.PublicationDate); err != nil {
			return nil, err
		}
	}

	var categories []models.Category
	if req.CategoryIDs != nil {
		if categories, err = s.resolveCategories(ctx, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, book, categories); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrISBNTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, book.ID)
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("Book not found")
	}
	return s.repo.Delete(ctx, id)
}

// setISBN stores the normalized ISBN, or clears it when raw is blank.
func (s *bookService) setISBN(ctx context.Context, book *models.Book, raw *string) error {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		book.ISBN = nil
		return nil
	}
	normalized := isbn.Normalize(*raw)
	if !isbn.Valid(normalized) {
		return apperror.FieldError("isbn", "The isbn must be a valid ISBN-10 or ISBN-13.")
	}
	taken, err := s.repo.ISBNTaken(ctx, normalized, book.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrISBNTaken
	}
	book.ISBN = &normalized
	return nil
}

func setPublicationDate(book *models.Book, raw *string) error {
	if raw == nil || *raw == "" {
		book.PublicationDate = nil
		return nil
	}
	d, err := dto.ParseDate(*raw)
	if err != nil {
		return apperror.FieldError("publication_date", "The publication date is not a valid date.")
	}
	book.PublicationDate = &d
	return nil
}

// resolveCategories loads ids, failing when any of them does not exist. The result is never nil.
func (s *bookService) resolveCategories(ctx context.Context, ids []int64) ([]models.Category, error) {
	unique := slices.Compact(slices.Sorted(slices.Values(ids)))
	if len(unique) == 0 {
		return []models.Category{}, nil
	}
	categories, err := s.categories.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, apperror.FieldError("category_ids", "The selected category ids is invalid.")
	}
	return categories, nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id < 1 {
			return nil, errors.New("invalid id " + strconv.Quote(part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
