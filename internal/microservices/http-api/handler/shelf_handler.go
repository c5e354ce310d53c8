package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ShelfHandler struct {
	svc service.ShelfService
}

func NewShelfHandler(svc service.ShelfService) *ShelfHandler {
	return &ShelfHandler{svc: svc}
}

func (h *ShelfHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	shelves := rg.Group("/shelves")
	shelves.GET("", g.Auth, h.List)
	shelves.POST("", g.Auth, h.Create)
	shelves.GET("/:id", g.Optional, h.Get)
	shelves.PUT("/:id", g.Auth, h.Update)
	shelves.DELETE("/:id", g.Auth, h.Delete)
	shelves.POST("/:id/books", g.Auth, h.AddBook)
	shelves.DELETE("/:id/books/:book", g.Auth, h.RemoveBook)

	rg.GET("/users/:id/shelves", g.Optional, h.ListForUser)
}

func (h *ShelfHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.List(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToShelfResponse)
}

func (h *ShelfHandler) ListForUser(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.ListForUser(ctx, middleware.UserID(c), ownerID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToShelfResponse)
}

func (h *ShelfHandler) Create(c *gin.Context) {
	var req dto.CreateShelfRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	shelf, err := h.svc.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToShelfResponse(*shelf))
}

func (h *ShelfHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	shelf, err := h.svc.Get(ctx, middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShelfResponse(*shelf))
}

func (h *ShelfHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateShelfRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	shelf, err := h.svc.Update(ctx, middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShelfResponse(*shelf))
}

func (h *ShelfHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShelfHandler) AddBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ShelfBookRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.AddBook(ctx, middleware.UserID(c), id, req.BookID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Book added to shelf")
}

func (h *ShelfHandler) RemoveBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.RemoveBook(ctx, middleware.UserID(c), id, bookID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Book removed from shelf")
}
