package models

import (
	"time"

	"gorm.io/gorm"
)

type BookReview struct {
	ID               int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID           int64          `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_book,where:deleted_at IS NULL"`
	BookID           int64          `json:"book_id" gorm:"not null;uniqueIndex:idx_reviews_user_book,where:deleted_at IS NULL;index"`
	Rating           int            `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review           *string        `json:"review" gorm:"type:text"`
	ContainsSpoilers bool           `json:"contains_spoilers" gorm:"not null;default:false"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (BookReview) TableName() string {
	return "book_reviews"
}
