package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"

	"gorm.io/gorm"
)

const shelfWithCounts = "shelves.*, (SELECT COUNT(*) FROM book_shelf bs WHERE bs.shelf_id = shelves.id) AS books_count"

type ShelfRepository interface {
	Create(ctx context.Context, s *models.Shelf) error
	Update(ctx context.Context, s *models.Shelf) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Shelf, error)
	// FindWithBooks loads the shelf, its owner and its books.
	FindWithBooks(ctx context.Context, id int64) (*models.Shelf, error)
	ListByUser(ctx context.Context, userID int64, publicOnly bool, p Pagination) ([]models.Shelf, int64, error)
	HasBook(ctx context.Context, shelfID, bookID int64) (bool, error)
	AddBook(ctx context.Context, shelfID, bookID int64) error
	// RemoveBook reports false when the book was not on the shelf.
	RemoveBook(ctx context.Context, shelfID, bookID int64) (bool, error)
}

type shelfRepository struct {
	db *gorm.DB
}

func NewShelfRepository(db *gorm.DB) ShelfRepository {
	return &shelfRepository{db: db}
}

func (r *shelfRepository) Create(ctx context.Context, s *models.Shelf) error {
	return wrap("create shelf", r.db.WithContext(ctx).Omit("Books", "User").Create(s).Error)
}

func (r *shelfRepository) Update(ctx context.Context, s *models.Shelf) error {
	return wrap("update shelf", r.db.WithContext(ctx).Omit("Books", "User").Save(s).Error)
}

func (r *shelfRepository) Delete(ctx context.Context, id int64) error {
	return wrap("delete shelf", r.db.WithContext(ctx).Delete(&models.Shelf{}, id).Error)
}

func (r *shelfRepository) FindByID(ctx context.Context, id int64) (*models.Shelf, error) {
	var s models.Shelf
	if err := r.db.WithContext(ctx).Select(shelfWithCounts).First(&s, "shelves.id = ?", id).Error; err != nil {
		return nil, wrap("find shelf", err)
	}
	return &s, nil
}

func (r *shelfRepository) FindWithBooks(ctx context.Context, id int64) (*models.Shelf, error) {
	var s models.Shelf
	if err := r.db.WithContext(ctx).
		Select(shelfWithCounts).
		Preload("User").
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.title asc")
		}).
		Preload("Books.Categories").
		First(&s, "shelves.id = ?", id).Error; err != nil {
		return nil, wrap("find shelf", err)
	}
	return &s, nil
}

func (r *shelfRepository) ListByUser(ctx context.Context, userID int64, publicOnly bool, p Pagination) ([]models.Shelf, int64, error) {
	var list []models.Shelf
	var total int64

	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Shelf{}).Where("shelves.user_id = ?", userID)
		if publicOnly {
			q = q.Where("shelves.is_public = ?", true)
		}
		return q
	}

	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrap("count shelves", err)
	}
	if err := p.apply(scope().Select(shelfWithCounts).Order("shelves.created_at desc").Order("shelves.id desc")).
		Find(&list).Error; err != nil {
		return nil, 0, wrap("list shelves", err)
	}
	return list, total, nil
}

func (r *shelfRepository) HasBook(ctx context.Context, shelfID, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookShelf{}).
		Where("shelf_id = ? AND book_id = ?", shelfID, bookID).
		Count(&count).Error; err != nil {
		return false, wrap("check shelf book", err)
	}
	return count > 0, nil
}

func (r *shelfRepository) AddBook(ctx context.Context, shelfID, bookID int64) error {
	row := &models.BookShelf{ShelfID: shelfID, BookID: bookID}
	return wrap("add book to shelf", r.db.WithContext(ctx).Create(row).Error)
}

func (r *shelfRepository) RemoveBook(ctx context.Context, shelfID, bookID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("shelf_id = ? AND book_id = ?", shelfID, bookID).
		Delete(&models.BookShelf{})
	if res.Error != nil {
		return false, wrap("remove book from shelf", res.Error)
	}
	return res.RowsAffected > 0, nil
}
