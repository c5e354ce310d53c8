package dto

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginated_MiddlePage(t *testing.T) {
	u, err := url.Parse("/api/v1/books?page=2&per_page=10&sort_by=title")
	require.NoError(t, err)

	page := NewPaginated([]int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, 35, 2, 10, u)

	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Equal(t, 4, page.Meta.LastPage)
	assert.Equal(t, int64(35), page.Meta.Total)
	require.NotNil(t, page.Meta.From)
	require.NotNil(t, page.Meta.To)
	assert.Equal(t, 11, *page.Meta.From)
	assert.Equal(t, 20, *page.Meta.To)

	assert.Equal(t, "/api/v1/books?page=1&per_page=10&sort_by=title", page.Links.First)
	assert.Equal(t, "/api/v1/books?page=4&per_page=10&sort_by=title", page.Links.Last)
	require.NotNil(t, page.Links.Prev)
	require.NotNil(t, page.Links.Next)
	assert.Equal(t, "/api/v1/books?page=3&per_page=10&sort_by=title", *page.Links.Next)
}

func TestNewPaginated_Empty(t *testing.T) {
	page := NewPaginated[string](nil, 0, 1, 15, &url.URL{Path: "/api/v1/feed"})

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Nil(t, page.Meta.From)
	assert.Nil(t, page.Meta.To)
	assert.Equal(t, 1, page.Meta.LastPage)
	assert.Nil(t, page.Links.Prev)
	assert.Nil(t, page.Links.Next)
}
