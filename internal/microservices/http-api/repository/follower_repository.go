package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"

	"gorm.io/gorm"
)

type FollowerRepository interface {
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	Follow(ctx context.Context, followerID, followingID int64) error
	// Unfollow reports false when no edge existed.
	Unfollow(ctx context.Context, followerID, followingID int64) (bool, error)
	// Followers lists users following userID, most recent first.
	Followers(ctx context.Context, userID int64, p Pagination) ([]models.User, int64, error)
	// Following lists users that userID follows, most recent first.
	Following(ctx context.Context, userID int64, p Pagination) ([]models.User, int64, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, wrap("check follow", err)
	}
	return count > 0, nil
}

func (r *followerRepository) Follow(ctx context.Context, followerID, followingID int64) error {
	edge := &models.Follower{FollowerID: followerID, FollowingID: followingID}
	return wrap("follow user", r.db.WithContext(ctx).Omit("Follower", "Following").Create(edge).Error)
}

func (r *followerRepository) Unfollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return false, wrap("unfollow user", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followerRepository) Followers(ctx context.Context, userID int64, p Pagination) ([]models.User, int64, error) {
	return r.edges(ctx, "edge.follower_id", "edge.following_id", userID, p)
}

func (r *followerRepository) Following(ctx context.Context, userID int64, p Pagination) ([]models.User, int64, error) {
	return r.edges(ctx, "edge.following_id", "edge.follower_id", userID, p)
}

// edges joins users on joinColumn for every edge whose filterColumn equals userID.
func (r *followerRepository) edges(ctx context.Context, joinColumn, filterColumn string, userID int64, p Pagination) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Joins("JOIN followers edge ON "+joinColumn+" = users.id").
			Where(filterColumn+" = ?", userID)
	}

	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, wrap("count follow edges", err)
	}
	if err := p.apply(scope().Select(userWithCounts).Order("edge.created_at desc").Order("users.id desc")).
		Find(&users).Error; err != nil {
		return nil, 0, wrap("list follow edges", err)
	}
	return users, total, nil
}
