package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/microservices/http-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// stubAuth accepts the tokens it knows, each standing for one user.
type stubAuth map[string]int64

func (s stubAuth) Authenticate(_ context.Context, token string) (*service.Session, error) {
	userID, ok := s[token]
	if !ok {
		return nil, apperror.Unauthorized("")
	}
	return &service.Session{UserID: userID, SessionID: "session-" + token}, nil
}

const userToken = "token-7"

func testGuards() Guards {
	auth := stubAuth{userToken: 7}
	return Guards{
		Auth:     middleware.RequireAuth(auth),
		Optional: middleware.OptionalAuth(auth),
		Throttle: func(c *gin.Context) { c.Next() },
	}
}

func setupRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	validation.Register()
	r := gin.New()
	return r, r.Group("/api/v1")
}

type call struct {
	method string
	path   string
	body   any
	token  string
}

func do(t *testing.T, r http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := c.body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(c.method, c.path, reader)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func isJSON(w *httptest.ResponseRecorder) bool {
	return strings.HasPrefix(w.Header().Get("Content-Type"), "application/json")
}
