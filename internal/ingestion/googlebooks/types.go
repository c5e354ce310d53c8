package googlebooks

import (
	"strings"
	"time"
	"unicode/utf8"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/pkg/isbn"
)

const unknownAuthor = "Unknown Author"

type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	Language            string               `json:"language"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// ISBN returns the first valid ISBN-13 or ISBN-10, normalized, or "".
func (v VolumeInfo) ISBN() string {
	for _, id := range v.IndustryIdentifiers {
		if id.Type != "ISBN_13" && id.Type != "ISBN_10" {
			continue
		}
		if n := isbn.Normalize(id.Identifier); isbn.Valid(n) {
			return n
		}
	}
	return ""
}

// Thumbnail is the cover URL, or "" when the volume has none.
func (v VolumeInfo) Thumbnail() string {
	if v.ImageLinks == nil {
		return ""
	}
	if v.ImageLinks.Thumbnail != "" {
		return v.ImageLinks.Thumbnail
	}
	return v.ImageLinks.SmallThumbnail
}

// ToBook maps the volume onto a catalog entry; the cover is set by the importer.
func (v VolumeInfo) ToBook() models.Book {
	b := models.Book{
		Title:      limit(strings.TrimSpace(v.Title), 255),
		Author:     unknownAuthor,
		Language:   "en",
		TotalPages: v.PageCount,
	}
	if len(v.Authors) > 0 && strings.TrimSpace(v.Authors[0]) != "" {
		b.Author = limit(strings.TrimSpace(v.Authors[0]), 255)
	}
	if b.TotalPages < 1 {
		b.TotalPages = 1
	}
	if lang := strings.ToLower(v.Language); len(lang) == 2 {
		b.Language = lang
	}
	if code := v.ISBN(); code != "" {
		b.ISBN = &code
	}
	if v.Description != "" {
		desc := v.Description
		b.Description = &desc
	}
	if v.Publisher != "" {
		pub := limit(v.Publisher, 255)
		b.Publisher = &pub
	}
	if d, ok := ParsePublishedDate(v.PublishedDate); ok {
		b.PublicationDate = &d
	}
	return b
}

// ParsePublishedDate accepts the YYYY, YYYY-MM and YYYY-MM-DD forms the API returns.
func ParsePublishedDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func limit(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
