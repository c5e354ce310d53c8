package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

const DateLayout = "2006-01-02"

// CreateBookRequest: payload to add a book to the catalog
type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required,max=255"`
	Author          string  `json:"author" binding:"required,max=255"`
	ISBN            *string `json:"isbn" binding:"omitempty,book_isbn"`
	Description     *string `json:"description"`
	Publisher       *string `json:"publisher" binding:"omitempty,max=255"`
	Language        string  `json:"language" binding:"omitempty,max=2"`
	TotalPages      int     `json:"total_pages" binding:"required,min=1"`
	PublicationDate *string `json:"publication_date" binding:"omitempty,datetime=2006-01-02"`
	CoverImage      *string `json:"cover_image" binding:"omitempty,max=255"`
	CategoryIDs     []int64 `json:"category_ids" binding:"omitempty,dive,min=1"`
}

// UpdateBookRequest: every field is optional; category_ids replaces the categories when present
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=255"`
	Author          *string `json:"author" binding:"omitempty,min=1,max=255"`
	ISBN            *string `json:"isbn" binding:"omitempty,book_isbn"`
	Description     *string `json:"description"`
	Publisher       *string `json:"publisher" binding:"omitempty,max=255"`
	Language        *string `json:"language" binding:"omitempty,max=2"`
	TotalPages      *int    `json:"total_pages" binding:"omitempty,min=1"`
	PublicationDate *string `json:"publication_date" binding:"omitempty,datetime=2006-01-02"`
	CoverImage      *string `json:"cover_image" binding:"omitempty,max=255"`
	CategoryIDs     []int64 `json:"category_ids" binding:"omitempty,dive,min=1"`
}

// BookSearchQuery: query string of GET /books/search
type BookSearchQuery struct {
	Search        string   `form:"search" json:"search"`
	Categories    string   `form:"categories" json:"categories"`
	FromDate      string   `form:"from_date" json:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate        string   `form:"to_date" json:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Language      string   `form:"language" json:"language" binding:"omitempty,max=2"`
	MinRating     *float64 `form:"min_rating" json:"min_rating" binding:"omitempty,min=1,max=5"`
	MaxRating     *float64 `form:"max_rating" json:"max_rating" binding:"omitempty,min=1,max=5"`
	MinPages      *int     `form:"min_pages" json:"min_pages" binding:"omitempty,min=1"`
	MaxPages      *int     `form:"max_pages" json:"max_pages" binding:"omitempty,min=1"`
	Publisher     string   `form:"publisher" json:"publisher"`
	SortBy        string   `form:"sort_by" json:"sort_by" binding:"omitempty,oneof=title author publication_date created_at reviews_count shelves_count reviews_avg_rating"`
	SortDirection string   `form:"sort_direction" json:"sort_direction" binding:"omitempty,oneof=asc desc"`
	Recommended   bool     `form:"recommended" json:"recommended"`
}

type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

type BookResponse struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Author          string             `json:"author"`
	ISBN            *string            `json:"isbn"`
	Description     *string            `json:"description"`
	Publisher       *string            `json:"publisher"`
	Language        string             `json:"language"`
	TotalPages      int                `json:"total_pages"`
	PublicationDate *string            `json:"publication_date"`
	CoverImage      *string            `json:"cover_image"`
	Categories      []CategoryResponse `json:"categories"`
	ReviewsCount    int64              `json:"reviews_count"`
	ShelvesCount    int64              `json:"shelves_count"`
	AverageRating   *float64           `json:"average_rating"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// BookSummary is the short form embedded in progress, reviews and activities.
type BookSummary struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	TotalPages int     `json:"total_pages"`
	CoverImage *string `json:"cover_image"`
}

func ToCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func ToBookResponse(b models.Book) BookResponse {
	var avg *float64
	if b.ReviewsAvgRating != nil {
		v := models.RoundPercent(*b.ReviewsAvgRating)
		avg = &v
	}
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Publisher:       b.Publisher,
		Language:        b.Language,
		TotalPages:      b.TotalPages,
		PublicationDate: formatDate(b.PublicationDate),
		CoverImage:      b.CoverImage,
		Categories:      Map(b.Categories, ToCategoryResponse),
		ReviewsCount:    b.ReviewsCount,
		ShelvesCount:    b.ShelvesCount,
		AverageRating:   avg,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToBookSummary(b *models.Book) *BookSummary {
	if b == nil {
		return nil
	}
	return &BookSummary{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		TotalPages: b.TotalPages,
		CoverImage: b.CoverImage,
	}
}

// ParseDate reads a YYYY-MM-DD value as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
