package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	books := rg.Group("/books")
	books.GET("", h.List)
	books.GET("/search", g.Optional, h.Search)
	books.GET("/:id", h.Get)

	// the catalog is shared, any signed-in user may edit it
	books.POST("", g.Auth, h.Create)
	books.PUT("/:id", g.Auth, h.Update)
	books.DELETE("/:id", g.Auth, h.Delete)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.List(ctx, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToBookResponse)
}

func (h *BookHandler) Search(c *gin.Context) {
	var q dto.BookSearchQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.Search(ctx, middleware.UserID(c), q, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToBookResponse)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	book, err := h.svc.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(*book))
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	book, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBookResponse(*book))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	book, err := h.svc.Update(ctx, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(*book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
