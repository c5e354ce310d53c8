package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	svc service.GoalService
}

func NewGoalHandler(svc service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

func (h *GoalHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	goals := rg.Group("/reading-goals", g.Auth)
	goals.GET("", h.List)
	goals.POST("", h.Create)
	goals.GET("/current", h.Current)
	goals.GET("/:id", h.Get)
	goals.PUT("/:id", h.Update)
	goals.DELETE("/:id", h.Delete)
}

func goalResponse(v service.GoalView) dto.GoalResponse {
	return dto.ToGoalResponse(v.Goal, v.Totals)
}

func (h *GoalHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	views, total, err := h.svc.List(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, views, total, p, goalResponse)
}

func (h *GoalHandler) Current(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.svc.Current(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(*view))
}

func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.svc.Get(ctx, middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(*view))
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req dto.CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.svc.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalResponse(*view))
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.svc.Update(ctx, middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(*view))
}

func (h *GoalHandler) Delete(c *gin.Context) {
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
