package models

import (
	"time"

	"gorm.io/gorm"
)

type Shelf struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64          `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	IsPublic    bool           `gorm:"default:false;not null" json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Books []Book `gorm:"many2many:book_shelf;" json:"books,omitempty"`

	BooksCount int64 `gorm:"->;-:migration" json:"books_count"`
}

// CanBeViewedBy reports whether userID may read the shelf. Zero means anonymous.
func (s *Shelf) CanBeViewedBy(userID int64) bool {
	return s.IsPublic || s.IsOwnedBy(userID)
}

func (s *Shelf) IsOwnedBy(userID int64) bool {
	return userID != 0 && s.UserID == userID
}

func (Shelf) TableName() string {
	return "shelves"
}

// BookShelf is the join row between shelves and books.
type BookShelf struct {
	ShelfID   int64     `gorm:"primaryKey;autoIncrement:false" json:"shelf_id"`
	BookID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (BookShelf) TableName() string {
	return "book_shelf"
}
