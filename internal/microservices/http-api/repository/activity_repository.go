package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"

	"gorm.io/gorm"
)

// Subjects holds activity subjects loaded by type and id, soft-deleted rows included.
type Subjects struct {
	Books      map[int64]models.Book
	Shelves    map[int64]models.Shelf
	Reviews    map[int64]models.BookReview
	Goals      map[int64]models.ReadingGoal
	Challenges map[int64]models.ReadingChallenge
}

type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.Activity, int64, error)
	// Feed lists activities of every user that userID follows, newest first.
	Feed(ctx context.Context, userID int64, p Pagination) ([]models.Activity, int64, error)
	LoadSubjects(ctx context.Context, activities []models.Activity) (*Subjects, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) error {
	return wrap("create activity", r.db.WithContext(ctx).Omit("User").Create(a).Error)
}

func (r *activityRepository) ListByUser(ctx context.Context, userID int64, p Pagination) ([]models.Activity, int64, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("activities.user_id = ?", userID)
	}, p)
}

func (r *activityRepository) Feed(ctx context.Context, userID int64, p Pagination) ([]models.Activity, int64, error) {
	following := r.db.Model(&models.Follower{}).Select("following_id").Where("follower_id = ?", userID)
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("activities.user_id IN (?)", following)
	}, p)
}

func (r *activityRepository) page(ctx context.Context, filter func(*gorm.DB) *gorm.DB, p Pagination) ([]models.Activity, int64, error) {
	var list []models.Activity
	var total int64

	if err := filter(r.db.WithContext(ctx).Model(&models.Activity{})).Count(&total).Error; err != nil {
		return nil, 0, wrap("count activities", err)
	}
	q := filter(r.db.WithContext(ctx).Model(&models.Activity{})).
		Preload("User").
		Order("activities.created_at desc").
		Order("activities.id desc")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, 0, wrap("list activities", err)
	}
	return list, total, nil
}

func (r *activityRepository) LoadSubjects(ctx context.Context, activities []models.Activity) (*Subjects, error) {
	ids := map[string][]int64{}
	for _, a := range activities {
		ids[a.SubjectType] = append(ids[a.SubjectType], a.SubjectID)
	}

	db := r.db.WithContext(ctx).Unscoped()
	s := &Subjects{
		Books:      map[int64]models.Book{},
		Shelves:    map[int64]models.Shelf{},
		Reviews:    map[int64]models.BookReview{},
		Goals:      map[int64]models.ReadingGoal{},
		Challenges: map[int64]models.ReadingChallenge{},
	}

	if len(ids[models.SubjectBook]) > 0 {
		var books []models.Book
		if err := db.Where("id IN ?", ids[models.SubjectBook]).Find(&books).Error; err != nil {
			return nil, wrap("load activity books", err)
		}
		for _, b := range books {
			s.Books[b.ID] = b
		}
	}
	if len(ids[models.SubjectShelf]) > 0 {
		var shelves []models.Shelf
		if err := db.Where("id IN ?", ids[models.SubjectShelf]).Find(&shelves).Error; err != nil {
			return nil, wrap("load activity shelves", err)
		}
		for _, sh := range shelves {
			s.Shelves[sh.ID] = sh
		}
	}
	if len(ids[models.SubjectReview]) > 0 {
		var reviews []models.BookReview
		if err := db.Preload("Book", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
			Where("id IN ?", ids[models.SubjectReview]).Find(&reviews).Error; err != nil {
			return nil, wrap("load activity reviews", err)
		}
		for _, rv := range reviews {
			s.Reviews[rv.ID] = rv
		}
	}
	if len(ids[models.SubjectGoal]) > 0 {
		var goals []models.ReadingGoal
		if err := db.Where("id IN ?", ids[models.SubjectGoal]).Find(&goals).Error; err != nil {
			return nil, wrap("load activity goals", err)
		}
		for _, g := range goals {
			s.Goals[g.ID] = g
		}
	}
	if len(ids[models.SubjectChallenge]) > 0 {
		var challenges []models.ReadingChallenge
		if err := db.Where("id IN ?", ids[models.SubjectChallenge]).Find(&challenges).Error; err != nil {
			return nil, wrap("load activity challenges", err)
		}
		for _, c := range challenges {
			s.Challenges[c.ID] = c
		}
	}
	return s, nil
}
