package dto

import (
	"net/url"
	"strconv"
)

// PageMeta describes the page that was returned. From and To are null for an empty page.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	From        *int  `json:"from"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	To          *int  `json:"to"`
	Total       int64 `json:"total"`
}

type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Paginated is the envelope of every list endpoint.
type Paginated[T any] struct {
	Data  []T       `json:"data"`
	Meta  PageMeta  `json:"meta"`
	Links PageLinks `json:"links"`
}

// NewPaginated wraps one page of items. Links reuse the request URL with the page parameter replaced.
func NewPaginated[T any](items []T, total int64, page, perPage int, u *url.URL) Paginated[T] {
	if items == nil {
		items = []T{}
	}

	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	meta := PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		meta.From = &from
		meta.To = &to
	}

	links := PageLinks{
		First: pageURL(u, 1),
		Last:  pageURL(u, lastPage),
	}
	if page > 1 {
		prev := pageURL(u, page-1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageURL(u, page+1)
		links.Next = &next
	}

	return Paginated[T]{Data: items, Meta: meta, Links: links}
}

func pageURL(u *url.URL, page int) string {
	if u == nil {
		return "?page=" + strconv.Itoa(page)
	}
	next := *u
	q := next.Query()
	q.Set("page", strconv.Itoa(page))
	next.RawQuery = q.Encode()
	return next.String()
}

// Map converts each element with fn.
func Map[M, T any](items []M, fn func(M) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
