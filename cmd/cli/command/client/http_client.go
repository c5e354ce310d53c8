package client

// http_client.go talks to the bookhub HTTP API on behalf of the CLI commands.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/dto"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx answer decoded from the {message, errors} envelope.
type APIError struct {
	StatusCode int
	Message    string              `json:"message"`
	Fields     map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, k := range keys {
		for _, msg := range e.Fields[k] {
			fmt.Fprintf(&b, "\n  %s: %s", k, msg)
		}
	}
	return b.String()
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/") + apiPrefix,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Books

func (c *HTTPClient) ListBooks(ctx context.Context, page int) (*dto.Paginated[dto.BookResponse], error) {
	var out dto.Paginated[dto.BookResponse]
	if err := c.do(ctx, http.MethodGet, "/books", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchBooks passes filters through as query parameters.
func (c *HTTPClient) SearchBooks(ctx context.Context, filters url.Values, page int) (*dto.Paginated[dto.BookResponse], error) {
	q := pageQuery(page)
	for k, v := range filters {
		q[k] = v
	}
	var out dto.Paginated[dto.BookResponse]
	if err := c.do(ctx, http.MethodGet, "/books/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*dto.BookResponse, error) {
	var out dto.BookResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, req dto.CreateBookRequest) (*dto.BookResponse, error) {
	var out dto.BookResponse
	if err := c.do(ctx, http.MethodPost, "/books", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reading progress and goals

func (c *HTTPClient) GetProgress(ctx context.Context, bookID int64) (*dto.ProgressResponse, error) {
	var out dto.ProgressResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reading-progress/books/%d", bookID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProgress(ctx context.Context, bookID int64, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	var out dto.ProgressResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reading-progress/books/%d", bookID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	var out dto.StatisticsResponse
	if err := c.do(ctx, http.MethodGet, "/reading-progress/statistics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CurrentGoal(ctx context.Context) (*dto.GoalResponse, error) {
	var out dto.GoalResponse
	if err := c.do(ctx, http.MethodGet, "/reading-goals/current", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*dto.GoalResponse, error) {
	var out dto.GoalResponse
	if err := c.do(ctx, http.MethodPost, "/reading-goals", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Social

func (c *HTTPClient) Feed(ctx context.Context, page int) (*dto.Paginated[dto.ActivityResponse], error) {
	var out dto.Paginated[dto.ActivityResponse]
	if err := c.do(ctx, http.MethodGet, "/feed", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Challenges

func (c *HTTPClient) ListChallenges(ctx context.Context, activeOnly bool, page int) (*dto.Paginated[dto.ChallengeResponse], error) {
	q := pageQuery(page)
	if activeOnly {
		q.Set("active_only", "true")
	}
	var out dto.Paginated[dto.ChallengeResponse]
	if err := c.do(ctx, http.MethodGet, "/reading-challenges", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) JoinChallenge(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/reading-challenges/%d/join", id), nil, nil, nil)
}

// ChallengeProgress is the answer to adding or removing a challenge book.
type ChallengeProgress struct {
	Message     string         `json:"message"`
	Progress    map[string]int `json:"progress"`
	IsCompleted bool           `json:"is_completed"`
}

func (c *HTTPClient) AddChallengeBook(ctx context.Context, challengeID, bookID int64, requirementKey string) (*ChallengeProgress, error) {
	var out ChallengeProgress
	path := fmt.Sprintf("/reading-challenges/%d/books/%d", challengeID, bookID)
	if err := c.do(ctx, http.MethodPost, path, nil, dto.ChallengeBookRequest{RequirementKey: requirementKey}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
