package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	rg.GET("/books/:id/reviews", h.ListForBook)
	rg.POST("/books/:id/reviews", g.Auth, h.Create)
	rg.PUT("/books/:id/reviews/:review", g.Auth, h.Update)
	rg.DELETE("/books/:id/reviews/:review", g.Auth, h.Delete)
	rg.GET("/user/reviews", g.Auth, h.ListMine)
}

// ListForBook hides reviews flagged as spoilers when spoilers=false.
func (h *ReviewHandler) ListForBook(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	hideSpoilers := c.Query("spoilers") == "false" || c.Query("spoilers") == "0"
	list, total, err := h.svc.ListForBook(ctx, bookID, hideSpoilers, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToReviewResponse)
}

func (h *ReviewHandler) ListMine(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.ListByUser(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, dto.ToReviewResponse)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Create(ctx, middleware.UserID(c), bookID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReviewResponse(*review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Update(ctx, middleware.UserID(c), bookID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReviewResponse(*review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.UserID(c), bookID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
