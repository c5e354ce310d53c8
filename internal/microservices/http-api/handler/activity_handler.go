package handler

import (
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc service.ActivityService
}

func NewActivityHandler(svc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	rg.GET("/feed", g.Auth, h.Feed)
	rg.GET("/activities", g.Auth, h.Mine)
}

func feedItem(item service.FeedItem) dto.ActivityResponse {
	return dto.ToActivityResponse(item.Activity, item.Subject)
}

// Feed lists what the users the caller follows have been doing.
func (h *ActivityHandler) Feed(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	items, total, err := h.svc.Feed(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p, feedItem)
}

func (h *ActivityHandler) Mine(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	items, total, err := h.svc.ListByUser(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p, feedItem)
}
