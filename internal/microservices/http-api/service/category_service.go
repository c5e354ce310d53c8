package service

import (
	"context"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Books(ctx context.Context, categoryID int64, p repository.Pagination) ([]models.Book, int64, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	books repository.BookRepository
}

func NewCategoryService(repo repository.CategoryRepository, books repository.BookRepository) CategoryService {
	return &categoryService{repo: repo, books: books}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Books(ctx context.Context, categoryID int64, p repository.Pagination) ([]models.Book, int64, error) {
	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		return nil, 0, notFound(err, "Category not found")
	}
	return s.books.ListByCategory(ctx, categoryID, p)
}
