package service

import (
	"net/http"
	"testing"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShelfService_Books(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	book := env.book(t, "Dune", 300)

	shelf, err := env.shelves.Create(bg, owner.ID, dto.CreateShelfRequest{Name: "  Favourites ", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "Favourites", shelf.Name)
	assert.Equal(t, int64(1), env.countActivities(t, owner.ID, models.ActivityCreatedShelf))

	require.NoError(t, env.shelves.AddBook(bg, owner.ID, shelf.ID, book.ID))
	assert.Equal(t, ErrBookAlreadyOnShelf, env.shelves.AddBook(bg, owner.ID, shelf.ID, book.ID))
	assertStatus(t, env.shelves.AddBook(bg, owner.ID, shelf.ID, 9999), http.StatusNotFound)
	assert.Equal(t, int64(1), env.countActivities(t, owner.ID, models.ActivityAddedToShelf))

	got, err := env.shelves.Get(bg, 0, shelf.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 1)
	assert.Equal(t, book.ID, got.Books[0].ID)

	require.NoError(t, env.shelves.RemoveBook(bg, owner.ID, shelf.ID, book.ID))
	assert.Equal(t, ErrBookNotOnShelf, env.shelves.RemoveBook(bg, owner.ID, shelf.ID, book.ID))
}

func TestShelfService_Visibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	viewer := env.user(t, "viewer")

	private, err := env.shelves.Create(bg, owner.ID, dto.CreateShelfRequest{Name: "Secret"})
	require.NoError(t, err)
	_, err = env.shelves.Create(bg, owner.ID, dto.CreateShelfRequest{Name: "Public", IsPublic: true})
	require.NoError(t, err)

	_, err = env.shelves.Get(bg, viewer.ID, private.ID)
	assertStatus(t, err, http.StatusForbidden)
	_, err = env.shelves.Get(bg, owner.ID, private.ID)
	require.NoError(t, err)

	_, err = env.shelves.Update(bg, viewer.ID, private.ID, dto.UpdateShelfRequest{IsPublic: ptr(true)})
	assertStatus(t, err, http.StatusForbidden)
	assertStatus(t, env.shelves.Delete(bg, viewer.ID, private.ID), http.StatusForbidden)

	_, total, err := env.shelves.ListForUser(bg, viewer.ID, owner.ID, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = env.shelves.ListForUser(bg, owner.ID, owner.ID, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = env.shelves.ListForUser(bg, viewer.ID, 9999, defaultPage)
	assertStatus(t, err, http.StatusNotFound)
}

func TestReviewService(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")
	other := env.user(t, "other")
	book := env.book(t, "Dune", 300)
	otherBook := env.book(t, "Emma", 200)

	review, err := env.reviews.Create(bg, author.ID, book.ID, dto.CreateReviewRequest{Rating: 4, Review: ptr("Sandy but great")})
	require.NoError(t, err)
	require.NotNil(t, review.User)
	assert.Equal(t, author.ID, review.User.ID)
	assert.Equal(t, int64(1), env.countActivities(t, author.ID, models.ActivityReviewed))

	_, err = env.reviews.Create(bg, author.ID, book.ID, dto.CreateReviewRequest{Rating: 5})
	assert.Equal(t, ErrAlreadyReviewed, err)

	_, err = env.reviews.Create(bg, author.ID, 9999, dto.CreateReviewRequest{Rating: 5})
	assertStatus(t, err, http.StatusNotFound)

	_, err = env.reviews.Update(bg, other.ID, book.ID, review.ID, dto.UpdateReviewRequest{Rating: ptr(1)})
	assertStatus(t, err, http.StatusForbidden)
	_, err = env.reviews.Update(bg, author.ID, otherBook.ID, review.ID, dto.UpdateReviewRequest{Rating: ptr(1)})
	assertStatus(t, err, http.StatusNotFound)

	updated, err := env.reviews.Update(bg, author.ID, book.ID, review.ID, dto.UpdateReviewRequest{Rating: ptr(2), ContainsSpoilers: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.True(t, updated.ContainsSpoilers)

	_, total, err := env.reviews.ListForBook(bg, book.ID, true, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	require.NoError(t, env.reviews.Delete(bg, author.ID, book.ID, review.ID))
	_, total, err = env.reviews.ListForBook(bg, book.ID, false, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestFollowerService(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	assert.Equal(t, ErrFollowSelf, env.followers.Follow(bg, alice.ID, alice.ID))
	assertStatus(t, env.followers.Follow(bg, alice.ID, 9999), http.StatusNotFound)

	require.NoError(t, env.followers.Follow(bg, alice.ID, bob.ID))
	assert.Equal(t, ErrAlreadyFollowing, env.followers.Follow(bg, alice.ID, bob.ID))

	profile, err := env.followers.Profile(bg, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, int64(0), profile.FollowingCount)

	followers, total, err := env.followers.Followers(bg, bob.ID, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	assert.Equal(t, ErrUnfollowSelf, env.followers.Unfollow(bg, bob.ID, bob.ID))
	assert.Equal(t, ErrNotFollowing, env.followers.Unfollow(bg, bob.ID, alice.ID))
	require.NoError(t, env.followers.Unfollow(bg, alice.ID, bob.ID))

	_, total, err = env.followers.Following(bg, alice.ID, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestActivityFeed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	book := env.book(t, "Dune", 300)

	require.NoError(t, env.followers.Follow(bg, alice.ID, bob.ID))
	shelf, err := env.shelves.Create(bg, bob.ID, dto.CreateShelfRequest{Name: "Classics", IsPublic: true})
	require.NoError(t, err)
	_, err = env.reviews.Create(bg, bob.ID, book.ID, dto.CreateReviewRequest{Rating: 5})
	require.NoError(t, err)

	items, total, err := env.activities.Feed(bg, alice.ID, defaultPage)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	titles := map[string]string{}
	for _, item := range items {
		require.NotNil(t, item.Subject)
		titles[item.Activity.Type] = item.Subject.Title
	}
	assert.Equal(t, shelf.Name, titles[models.ActivityCreatedShelf])
	assert.Equal(t, "Review of Dune", titles[models.ActivityReviewed])

	require.NoError(t, env.shelves.Delete(bg, bob.ID, shelf.ID))
	items, _, err = env.activities.ListByUser(bg, bob.ID, defaultPage)
	require.NoError(t, err)
	for _, item := range items {
		if item.Activity.Type == models.ActivityCreatedShelf {
			require.NotNil(t, item.Subject)
			assert.True(t, item.Subject.Deleted)
		}
	}
}
