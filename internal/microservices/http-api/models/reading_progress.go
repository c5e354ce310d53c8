package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ReadingStatuses lists the accepted reading status values.
var ReadingStatuses = []string{StatusNotStarted, StatusInProgress, StatusCompleted}

// ReadingProgress tracks one user's reading of one book.
type ReadingProgress struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             int64          `gorm:"not null;uniqueIndex:idx_progress_user_book,where:deleted_at IS NULL" json:"user_id"`
	BookID             int64          `gorm:"not null;uniqueIndex:idx_progress_user_book,where:deleted_at IS NULL;index" json:"book_id"`
	Status             string         `gorm:"size:20;not null;default:'not_started';index" json:"status"`
	CurrentPage        int            `gorm:"not null;default:0" json:"current_page"`
	ReadingTimeMinutes int            `gorm:"not null;default:0" json:"reading_time_minutes"`
	Notes              *string        `gorm:"type:text" json:"notes"`
	StartedAt          *time.Time     `json:"started_at"`
	CompletedAt        *time.Time     `gorm:"index" json:"completed_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// ProgressPercentage is current_page over the book's total pages, rounded to two decimals.
func (p *ReadingProgress) ProgressPercentage() float64 {
	if p.Book == nil || p.Book.TotalPages <= 0 {
		return 0
	}
	return RoundPercent(float64(p.CurrentPage) / float64(p.Book.TotalPages) * 100)
}

func (p *ReadingProgress) ReadingTimeFormatted() string {
	return fmt.Sprintf("%dh %dm", p.ReadingTimeMinutes/60, p.ReadingTimeMinutes%60)
}

// RoundPercent rounds to two decimal places.
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
