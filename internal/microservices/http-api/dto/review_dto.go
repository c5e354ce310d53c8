package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

type CreateReviewRequest struct {
	Rating           int     `json:"rating" binding:"required,min=1,max=5"`
	Review           *string `json:"review" binding:"omitempty,min=3,max=10000"`
	ContainsSpoilers bool    `json:"contains_spoilers"`
}

type UpdateReviewRequest struct {
	Rating           *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Review           *string `json:"review" binding:"omitempty,min=3,max=10000"`
	ContainsSpoilers *bool   `json:"contains_spoilers"`
}

type ReviewResponse struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	BookID           int64        `json:"book_id"`
	Rating           int          `json:"rating"`
	Review           *string      `json:"review"`
	ContainsSpoilers bool         `json:"contains_spoilers"`
	User             *UserSummary `json:"user,omitempty"`
	Book             *BookSummary `json:"book,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func ToReviewResponse(r models.BookReview) ReviewResponse {
	return ReviewResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		BookID:           r.BookID,
		Rating:           r.Rating,
		Review:           r.Review,
		ContainsSpoilers: r.ContainsSpoilers,
		User:             ToUserSummary(r.User),
		Book:             ToBookSummary(r.Book),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
