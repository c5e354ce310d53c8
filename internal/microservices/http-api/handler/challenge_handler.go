package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	svc service.ChallengeService
}

func NewChallengeHandler(svc service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

func (h *ChallengeHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	challenges := rg.Group("/reading-challenges")
	challenges.GET("", g.Optional, h.List)
	challenges.POST("", g.Auth, h.Create)
	challenges.GET("/:id", g.Optional, h.Get)
	challenges.PUT("/:id", g.Auth, h.Update)
	challenges.DELETE("/:id", g.Auth, h.Delete)
	challenges.POST("/:id/join", g.Auth, h.Join)
	challenges.POST("/:id/books/:book", g.Auth, h.AddBook)
	challenges.DELETE("/:id/books/:book", g.Auth, h.RemoveBook)

	rg.GET("/user/reading-challenges", g.Auth, h.ListJoined)
}

func (h *ChallengeHandler) render(c models.ReadingChallenge) dto.ChallengeResponse {
	return dto.ToChallengeResponse(c, h.svc.Today(), nil)
}

func (h *ChallengeHandler) List(c *gin.Context) {
	var q dto.ChallengeListQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.List(ctx, middleware.UserID(c), q, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, h.render)
}

func (h *ChallengeHandler) ListJoined(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p := pagination(c)
	list, total, err := h.svc.ListJoined(ctx, middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, h.render)
}

func (h *ChallengeHandler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, dto.ToChallengeResponse(view.Challenge, h.svc.Today(), view.Viewer))
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	var req dto.CreateChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	challenge, err := h.svc.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.render(*challenge))
}

func (h *ChallengeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	challenge, err := h.svc.Update(ctx, middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(*challenge))
}

func (h *ChallengeHandler) Delete(c *gin.Context) {
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

func (h *ChallengeHandler) Join(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Join(ctx, middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Successfully joined the challenge")
}

func (h *ChallengeHandler) AddBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}
	var req dto.ChallengeBookRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	participant, err := h.svc.AddBook(ctx, middleware.UserID(c), id, bookID, req.RequirementKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participantMessage("Book added to challenge", participant))
}

func (h *ChallengeHandler) RemoveBook(c *gin.Context) {
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

	participant, err := h.svc.RemoveBook(ctx, middleware.UserID(c), id, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participantMessage("Book removed from challenge", participant))
}

func participantMessage(message string, p *models.ChallengeParticipant) gin.H {
	return gin.H{
		"message":      message,
		"progress":     p.Progress.Data(),
		"is_completed": p.IsCompleted,
	}
}
