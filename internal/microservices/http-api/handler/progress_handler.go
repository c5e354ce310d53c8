package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers the reading-progress routes; all of them act on the caller's own rows.
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	progress := rg.Group("/reading-progress", g.Auth)
	progress.GET("", h.List)
	progress.GET("/statistics", h.Statistics)
	progress.GET("/books/:book", h.Get)
	progress.PUT("/books/:book", h.Update)
}

func (h *ProgressHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.progressService.List(ctx, middleware.UserID(c), c.Query("status"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToProgressResponse)
}

func (h *ProgressHandler) Get(c *gin.Context) {
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	progress, err := h.progressService.Get(ctx, middleware.UserID(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProgressResponse(*progress))
}

func (h *ProgressHandler) Update(c *gin.Context) {
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}
	var req dto.UpdateProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	progress, err := h.progressService.Update(ctx, middleware.UserID(c), bookID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProgressResponse(*progress))
}

func (h *ProgressHandler) Statistics(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.progressService.Statistics(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
