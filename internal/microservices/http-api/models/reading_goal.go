package models

import (
	"time"

	"gorm.io/gorm"
)

type ReadingGoal struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64          `gorm:"not null;uniqueIndex:idx_goals_user_year,where:deleted_at IS NULL" json:"user_id"`
	Year        int            `gorm:"not null;uniqueIndex:idx_goals_user_year,where:deleted_at IS NULL" json:"year"`
	TargetBooks int            `gorm:"not null" json:"target_books"`
	TargetPages int            `gorm:"not null" json:"target_pages"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (ReadingGoal) TableName() string {
	return "reading_goals"
}

// GoalTotals is what a user actually read during a goal's year.
type GoalTotals struct {
	BooksRead int64
	PagesRead int64
}

// Met reports whether both targets are reached.
func (g *ReadingGoal) Met(t GoalTotals) bool {
	return t.BooksRead >= int64(g.TargetBooks) && t.PagesRead >= int64(g.TargetPages)
}

// TargetPercent is min(100, read/target*100) rounded to two decimals, 0 when target is 0.
func TargetPercent(read int64, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := RoundPercent(float64(read) / float64(target) * 100)
	if pct > 100 {
		return 100
	}
	return pct
}
