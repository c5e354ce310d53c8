package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, _ Guards) {
	rg.GET("/categories", h.List)
	rg.GET("/categories/:id/books", h.Books)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	categories, err := h.svc.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.Map(categories, dto.ToCategoryResponse)})
}

func (h *CategoryHandler) Books(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.Books(ctx, id, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToBookResponse)
}
