package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

type CreateGoalRequest struct {
	Year        int `json:"year" binding:"required"`
	TargetBooks int `json:"target_books" binding:"required,min=1"`
	TargetPages int `json:"target_pages" binding:"required,min=1"`
}

type UpdateGoalRequest struct {
	TargetBooks *int `json:"target_books" binding:"omitempty,min=1"`
	TargetPages *int `json:"target_pages" binding:"omitempty,min=1"`
}

type GoalResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Year          int       `json:"year"`
	TargetBooks   int       `json:"target_books"`
	TargetPages   int       `json:"target_pages"`
	IsCompleted   bool      `json:"is_completed"`
	BooksRead     int64     `json:"books_read"`
	PagesRead     int64     `json:"pages_read"`
	BooksProgress float64   `json:"books_progress"`
	PagesProgress float64   `json:"pages_progress"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToGoalResponse(g models.ReadingGoal, t models.GoalTotals) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Year:          g.Year,
		TargetBooks:   g.TargetBooks,
		TargetPages:   g.TargetPages,
		IsCompleted:   g.IsCompleted,
		BooksRead:     t.BooksRead,
		PagesRead:     t.PagesRead,
		BooksProgress: models.TargetPercent(t.BooksRead, g.TargetBooks),
		PagesProgress: models.TargetPercent(t.PagesRead, g.TargetPages),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
