package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Category, error)
	// FindOrCreate returns the category with slug, inserting it under name when missing.
	FindOrCreate(ctx context.Context, name, slug string) (*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, wrap("list categories", err)
	}
	return list, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &c, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	var list []models.Category
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&list).Error; err != nil {
		return nil, wrap("find categories", err)
	}
	return list, nil
}

func (r *categoryRepository) FindOrCreate(ctx context.Context, name, slug string) (*models.Category, error) {
	db := r.db.WithContext(ctx)
	c := models.Category{Name: name, Slug: slug}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
		return nil, wrap("create category", err)
	}
	if c.ID != 0 {
		return &c, nil
	}
	// lost the race or the name is taken under another slug
	if err := db.Where("slug = ? OR name = ?", slug, name).First(&c).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &c, nil
}
