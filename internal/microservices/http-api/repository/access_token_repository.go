package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"time"

	"gorm.io/gorm"
)

// AccessTokenRepository handles database operations for login sessions
type AccessTokenRepository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	FindByID(ctx context.Context, id string) (*models.AccessToken, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
	// DeleteStale removes sessions that expired or were revoked before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type accessTokenRepository struct {
	db *gorm.DB
}

func NewAccessTokenRepository(db *gorm.DB) AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

func (r *accessTokenRepository) Create(ctx context.Context, token *models.AccessToken) error {
	return wrap("create access token", r.db.WithContext(ctx).Create(token).Error)
}

func (r *accessTokenRepository) FindByID(ctx context.Context, id string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&token).Error; err != nil {
		return nil, wrap("find access token", err)
	}
	return &token, nil
}

// Touch records the last time a session authenticated a request
func (r *accessTokenRepository) Touch(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.AccessToken{}).Where("id = ?", id).UpdateColumn("last_used_at", at).Error
	return wrap("touch access token", err)
}

// Revoke marks a session as revoked; revoking twice keeps the first timestamp
func (r *accessTokenRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.AccessToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		UpdateColumn("revoked_at", at)
	return wrap("revoke access token", res.Error)
}

func (r *accessTokenRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&models.AccessToken{})
	if res.Error != nil {
		return 0, wrap("delete stale access tokens", res.Error)
	}
	return res.RowsAffected, nil
}
