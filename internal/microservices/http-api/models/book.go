package models

import (
	"time"

	"gorm.io/gorm"
)

type Book struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string         `json:"title" gorm:"size:255;not null;index"`
	Author          string         `json:"author" gorm:"size:255;not null;index"`
	ISBN            *string        `json:"isbn" gorm:"column:isbn;size:13;uniqueIndex:idx_books_isbn,where:deleted_at IS NULL"`
	Description     *string        `json:"description" gorm:"type:text"`
	Publisher       *string        `json:"publisher" gorm:"size:255"`
	Language        string         `json:"language" gorm:"size:2;not null;default:'en'"`
	TotalPages      int            `json:"total_pages" gorm:"not null"`
	PublicationDate *time.Time     `json:"publication_date" gorm:"type:date;index"`
	CoverImage      *string        `json:"cover_image" gorm:"size:255"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	Categories []Category   `json:"categories,omitempty" gorm:"many2many:book_category;"`
	Shelves    []Shelf      `json:"-" gorm:"many2many:book_shelf;"`
	Reviews    []BookReview `json:"-" gorm:"foreignKey:BookID"`

	// Aggregates selected by the book repository
	ReviewsCount     int64    `json:"reviews_count" gorm:"->;-:migration"`
	ShelvesCount     int64    `json:"shelves_count" gorm:"->;-:migration"`
	ReviewsAvgRating *float64 `json:"average_rating" gorm:"->;-:migration"`
}

func (Book) TableName() string {
	return "books"
}
