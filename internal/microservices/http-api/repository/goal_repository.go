package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(ctx context.Context, g *models.ReadingGoal) error
	Save(ctx context.Context, g *models.ReadingGoal) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.ReadingGoal, error)
	FindByUserAndYear(ctx context.Context, userID int64, year int) (*models.ReadingGoal, error)
	ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.ReadingGoal, int64, error)
	// TotalsForYear sums the books the user completed during year and their page counts.
	TotalsForYear(ctx context.Context, userID int64, year int) (models.GoalTotals, error)
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, g *models.ReadingGoal) error {
	return wrap("create reading goal", r.db.WithContext(ctx).Omit("User").Create(g).Error)
}

func (r *goalRepository) Save(ctx context.Context, g *models.ReadingGoal) error {
	return wrap("save reading goal", r.db.WithContext(ctx).Omit("User").Save(g).Error)
}

func (r *goalRepository) Delete(ctx context.Context, id int64) error {
	return wrap("delete reading goal", r.db.WithContext(ctx).Delete(&models.ReadingGoal{}, id).Error)
}

func (r *goalRepository) FindByID(ctx context.Context, id int64) (*models.ReadingGoal, error) {
	var g models.ReadingGoal
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, wrap("find reading goal", err)
	}
	return &g, nil
}

func (r *goalRepository) FindByUserAndYear(ctx context.Context, userID int64, year int) (*models.ReadingGoal, error) {
	var g models.ReadingGoal
	if err := r.db.WithContext(ctx).Where("user_id = ? AND year = ?", userID, year).First(&g).Error; err != nil {
		return nil, wrap("find reading goal", err)
	}
	return &g, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.ReadingGoal, int64, error) {
	var list []models.ReadingGoal
	var total int64

	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.ReadingGoal{}).Where("user_id = ?", userID)
	}
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrap("count reading goals", err)
	}
	if err := p.apply(scope().Order("year desc")).Find(&list).Error; err != nil {
		return nil, 0, wrap("list reading goals", err)
	}
	return list, total, nil
}

func (r *goalRepository) TotalsForYear(ctx context.Context, userID int64, year int) (models.GoalTotals, error) {
	var totals models.GoalTotals
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	err := r.db.WithContext(ctx).
		Table("reading_progress rp").
		Select("COUNT(*) AS books_read, COALESCE(SUM(b.total_pages), 0) AS pages_read").
		Joins("JOIN books b ON b.id = rp.book_id AND b.deleted_at IS NULL").
		Where("rp.user_id = ? AND rp.status = ? AND rp.deleted_at IS NULL", userID, models.StatusCompleted).
		Where("rp.completed_at >= ? AND rp.completed_at < ?", from, to).
		Scan(&totals).Error
	if err != nil {
		return totals, wrap("reading goal totals", err)
	}
	return totals, nil
}
