package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves public profiles and the follower graph.
type UserHandler struct {
	svc service.FollowerService
}

func NewUserHandler(svc service.FollowerService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	rg.GET("/users/:id", h.Profile)
	rg.POST("/users/:id/follow", g.Auth, h.Follow)
	rg.DELETE("/users/:id/unfollow", g.Auth, h.Unfollow)
	rg.GET("/followers", g.Auth, h.Followers)
	rg.GET("/following", g.Auth, h.Following)
}

func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.svc.Profile(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

func (h *UserHandler) Follow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Follow(ctx, middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Successfully followed user")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Unfollow(ctx, middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Successfully unfollowed user")
}

func (h *UserHandler) Followers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	users, total, err := h.svc.Followers(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, users, total, p, dto.ToUserResponse)
}

func (h *UserHandler) Following(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	users, total, err := h.svc.Following(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, users, total, p, dto.ToUserResponse)
}
