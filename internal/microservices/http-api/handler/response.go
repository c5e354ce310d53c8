package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/validation"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

// Guards are the middleware handlers attach to their routes.
type Guards struct {
	// Auth requires a valid session.
	Auth gin.HandlerFunc
	// Optional identifies the caller when a token is sent.
	Optional gin.HandlerFunc
	// Throttle limits credential endpoints per client IP.
	Throttle gin.HandlerFunc
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError writes err as {message} or {message, errors}. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		body := gin.H{"message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		c.JSON(appErr.Code, body)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable"})
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", middleware.RequestIDFrom(c),
		"error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// bindJSON decodes and validates the body into req, answering 422 or 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates the query string into req.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	if fields, ok := validation.FieldErrors(err); ok {
		respondError(c, apperror.Validation(fields))
		return
	}
	var syntaxErr *json.SyntaxError
	if errors.Is(err, io.EOF) || errors.As(err, &syntaxErr) {
		respondError(c, apperror.BadRequest("Malformed JSON body"))
		return
	}
	respondError(c, apperror.BadRequest(err.Error()))
}

// pathID parses a positive integer path parameter; invalid ids answer 404 like a missing row.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		respondError(c, apperror.NotFound(""))
		return 0, false
	}
	return id, true
}

// pagination reads page and per_page, clamped to the accepted range.
func pagination(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return repository.NewPagination(page, perPage)
}

func respondPage[M, T any](c *gin.Context, items []M, total int64, p repository.Pagination, fn func(M) T) {
	c.JSON(http.StatusOK, dto.NewPaginated(dto.Map(items, fn), total, p.Page, p.PerPage, requestURL(c)))
}

// requestURL rebuilds the absolute URL of the current request for pagination links.
func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	return &u
}
