package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_DecodesAuthResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		_ = json.NewEncoder(w).Encode(dto.AuthResponse{AccessToken: "tok", TokenType: "Bearer"})
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL+"/").Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
}

func TestDo_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "tolkien", r.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode(dto.NewPaginated([]dto.BookResponse{{ID: 1, Title: "The Hobbit"}}, 16, 2, 15, nil))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("secret")
	page, err := c.SearchBooks(context.Background(), url.Values{"search": {"tolkien"}}, 2)

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "The Hobbit", page.Data[0].Title)
	assert.Equal(t, 2, page.Meta.LastPage)
}

func TestDo_DecodesValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The given data was invalid.","errors":{"year":["The year has already been taken."]}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).CreateGoal(context.Background(), dto.CreateGoalRequest{Year: 2025, TargetBooks: 1, TargetPages: 1})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, []string{"The year has already been taken."}, apiErr.Fields["year"])
	assert.Contains(t, apiErr.Error(), "year: The year has already been taken.")
}

func TestDo_FallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).JoinChallenge(context.Background(), 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
