package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.BookReview) error
	Save(ctx context.Context, review *models.BookReview) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.BookReview, error)
	ExistsForUserAndBook(ctx context.Context, userID, bookID int64) (bool, error)
	ListByBook(ctx context.Context, bookID int64, hideSpoilers bool, p Pagination) ([]models.BookReview, int64, error)
	ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.BookReview, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.BookReview) error {
	return wrap("create review", r.db.WithContext(ctx).Omit("User", "Book").Create(review).Error)
}

func (r *reviewRepository) Save(ctx context.Context, review *models.BookReview) error {
	return wrap("update review", r.db.WithContext(ctx).Omit("User", "Book").Save(review).Error)
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	return wrap("delete review", r.db.WithContext(ctx).Delete(&models.BookReview{}, id).Error)
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*models.BookReview, error) {
	var review models.BookReview
	if err := r.db.WithContext(ctx).Preload("User").First(&review, id).Error; err != nil {
		return nil, wrap("find review", err)
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForUserAndBook(ctx context.Context, userID, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookReview{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return false, wrap("check review", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64, hideSpoilers bool, p Pagination) ([]models.BookReview, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.BookReview{}).Where("book_id = ?", bookID)
		if hideSpoilers {
			q = q.Where("contains_spoilers = ?", false)
		}
		return q
	}
	return r.page(scope, "User", p)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.BookReview, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.BookReview{}).Where("user_id = ?", userID)
	}
	return r.page(scope, "Book", p)
}

func (r *reviewRepository) page(scope func() *gorm.DB, preload string, p Pagination) ([]models.BookReview, int64, error) {
	var list []models.BookReview
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrap("count reviews", err)
	}
	if err := p.apply(scope().Preload(preload).Order("created_at desc").Order("id desc")).Find(&list).Error; err != nil {
		return nil, 0, wrap("list reviews", err)
	}
	return list, total, nil
}
