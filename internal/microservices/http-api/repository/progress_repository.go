package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ReadingStats aggregates a user's reading progress rows.
type ReadingStats struct {
	TotalBooks       int64 `json:"total_books"`
	CompletedBooks   int64 `json:"completed_books"`
	InProgressBooks  int64 `json:"in_progress_books"`
	TotalPagesRead   int64 `json:"total_pages_read"`
	TotalReadingTime int64 `json:"total_reading_time"`
}

type ProgressRepository interface {
	FindByUserAndBook(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error)
	// FirstOrCreate returns the (user, book) row, creating a not_started one if none exists.
	FirstOrCreate(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error)
	Save(ctx context.Context, p *models.ReadingProgress) error
	ListByUser(ctx context.Context, userID int64, status string, p Pagination) ([]models.ReadingProgress, int64, error)
	Statistics(ctx context.Context, userID int64) (ReadingStats, error)
	// UpdateDates returns the last-update timestamp of every progress row of the user.
	UpdateDates(ctx context.Context, userID int64) ([]time.Time, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) FindByUserAndBook(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error) {
	var p models.ReadingProgress
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&p).Error; err != nil {
		return nil, wrap("find reading progress", err)
	}
	return &p, nil
}

func (r *progressRepository) FirstOrCreate(ctx context.Context, userID, bookID int64) (*models.ReadingProgress, error) {
	existing, err := r.FindByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p := &models.ReadingProgress{
		UserID: userID,
		BookID: bookID,
		Status: models.StatusNotStarted,
	}
	if err := r.db.WithContext(ctx).Omit("Book", "User").Create(p).Error; err != nil {
		// lost a race against a concurrent first write: the row exists now
		if IsUniqueViolation(err) {
			return r.FindByUserAndBook(ctx, userID, bookID)
		}
		return nil, wrap("create reading progress", err)
	}
	return r.FindByUserAndBook(ctx, userID, bookID)
}

func (r *progressRepository) Save(ctx context.Context, p *models.ReadingProgress) error {
	return wrap("save reading progress", r.db.WithContext(ctx).Omit("Book", "User").Save(p).Error)
}

func (r *progressRepository) ListByUser(ctx context.Context, userID int64, status string, p Pagination) ([]models.ReadingProgress, int64, error) {
	var list []models.ReadingProgress
	var total int64

	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.ReadingProgress{}).Where("user_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrap("count reading progress", err)
	}
	if err := p.apply(scope().Preload("Book").Order("updated_at desc").Order("id desc")).Find(&list).Error; err != nil {
		return nil, 0, wrap("list reading progress", err)
	}
	return list, total, nil
}

func (r *progressRepository) Statistics(ctx context.Context, userID int64) (ReadingStats, error) {
	var stats ReadingStats
	err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Select(`COUNT(*) AS total_books,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_books,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress_books,
			COALESCE(SUM(current_page), 0) AS total_pages_read,
			COALESCE(SUM(reading_time_minutes), 0) AS total_reading_time`,
			models.StatusCompleted, models.StatusInProgress).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return stats, wrap("reading statistics", err)
	}
	return stats, nil
}

func (r *progressRepository) UpdateDates(ctx context.Context, userID int64) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Pluck("updated_at", &dates).Error; err != nil {
		return nil, wrap("reading progress dates", err)
	}
	return dates, nil
}
