package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// UpdateProgressRequest: payload of PUT /reading-progress/books/:book.
// An omitted status keeps the stored one; current_page is range-checked by the service.
type UpdateProgressRequest struct {
	Status             *string `json:"status" binding:"omitempty,oneof=not_started in_progress completed"`
	CurrentPage        *int    `json:"current_page"`
	ReadingTimeMinutes *int    `json:"reading_time_minutes" binding:"omitempty,min=0"`
	Notes              *string `json:"notes"`
}

type ProgressResponse struct {
	ID                   int64        `json:"id"`
	UserID               int64        `json:"user_id"`
	BookID               int64        `json:"book_id"`
	Status               string       `json:"status"`
	CurrentPage          int          `json:"current_page"`
	ReadingTimeMinutes   int          `json:"reading_time_minutes"`
	Notes                *string      `json:"notes"`
	StartedAt            *time.Time   `json:"started_at"`
	CompletedAt          *time.Time   `json:"completed_at"`
	ProgressPercentage   float64      `json:"progress_percentage"`
	ReadingTimeFormatted string       `json:"reading_time_formatted"`
	Book                 *BookSummary `json:"book,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// StatisticsResponse: GET /reading-progress/statistics
type StatisticsResponse struct {
	TotalBooks        int64 `json:"total_books"`
	CompletedBooks    int64 `json:"completed_books"`
	InProgressBooks   int64 `json:"in_progress_books"`
	TotalPagesRead    int64 `json:"total_pages_read"`
	TotalReadingTime  int64 `json:"total_reading_time"`
	ReadingStreakDays int   `json:"reading_streak_days"`
}

func ToProgressResponse(p models.ReadingProgress) ProgressResponse {
	return ProgressResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		BookID:               p.BookID,
		Status:               p.Status,
		CurrentPage:          p.CurrentPage,
		ReadingTimeMinutes:   p.ReadingTimeMinutes,
		Notes:                p.Notes,
		StartedAt:            p.StartedAt,
		CompletedAt:          p.CompletedAt,
		ProgressPercentage:   p.ProgressPercentage(),
		ReadingTimeFormatted: p.ReadingTimeFormatted(),
		Book:                 ToBookSummary(p.Book),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
