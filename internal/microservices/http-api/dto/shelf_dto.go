package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

type CreateShelfRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

type UpdateShelfRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type ShelfBookRequest struct {
	BookID int64 `json:"book_id" binding:"required,min=1"`
}

type ShelfResponse struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	IsPublic    bool           `json:"is_public"`
	BooksCount  int64          `json:"books_count"`
	User        *UserSummary   `json:"user,omitempty"`
	Books       []BookResponse `json:"books,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func ToShelfResponse(s models.Shelf) ShelfResponse {
	resp := ShelfResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Description: s.Description,
		IsPublic:    s.IsPublic,
		BooksCount:  s.BooksCount,
		User:        ToUserSummary(s.User),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Books != nil {
		resp.Books = Map(s.Books, ToBookResponse)
		resp.BooksCount = int64(len(s.Books))
	}
	return resp
}
