package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

type CreateChallengeRequest struct {
	Title        string         `json:"title" binding:"required,max=255"`
	Description  string         `json:"description" binding:"required,max=1000"`
	StartDate    string         `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string         `json:"end_date" binding:"required,datetime=2006-01-02"`
	Requirements map[string]int `json:"requirements" binding:"required,min=1,dive,keys,required,max=100,endkeys,min=1"`
	IsPublic     *bool          `json:"is_public"`
	IsFeatured   bool           `json:"is_featured"`
}

type UpdateChallengeRequest struct {
	Title        *string        `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string        `json:"description" binding:"omitempty,max=1000"`
	StartDate    *string        `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string        `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Requirements map[string]int `json:"requirements" binding:"omitempty,min=1,dive,keys,required,max=100,endkeys,min=1"`
	IsPublic     *bool          `json:"is_public"`
	IsFeatured   *bool          `json:"is_featured"`
}

type ChallengeBookRequest struct {
	RequirementKey string `json:"requirement_key" binding:"required,max=100"`
}

// ChallengeListQuery: query string of GET /reading-challenges
type ChallengeListQuery struct {
	ShowAll    bool `form:"show_all" json:"show_all"`
	ActiveOnly bool `form:"active_only" json:"active_only"`
	Featured   bool `form:"featured" json:"featured"`
}

type ParticipantResponse struct {
	User        *UserSummary        `json:"user,omitempty"`
	Progress    models.Requirements `json:"progress"`
	IsCompleted bool                `json:"is_completed"`
	CompletedAt *time.Time          `json:"completed_at"`
	JoinedAt    time.Time           `json:"joined_at"`
}

type ChallengeResponse struct {
	ID                int64                 `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	Requirements      models.Requirements   `json:"requirements"`
	IsPublic          bool                  `json:"is_public"`
	IsFeatured        bool                  `json:"is_featured"`
	CreatedBy         int64                 `json:"created_by"`
	Creator           *UserSummary          `json:"creator,omitempty"`
	ParticipantsCount int64                 `json:"participants_count"`
	IsActive          bool                  `json:"is_active"`
	Status            string                `json:"status"`
	Participants      []ParticipantResponse `json:"participants,omitempty"`
	UserProgress      models.Requirements   `json:"user_progress,omitempty"`
	IsCompleted       *bool                 `json:"is_completed,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func ToParticipantResponse(p models.ChallengeParticipant) ParticipantResponse {
	return ParticipantResponse{
		User:        ToUserSummary(p.User),
		Progress:    p.Progress.Data(),
		IsCompleted: p.IsCompleted,
		CompletedAt: p.CompletedAt,
		JoinedAt:    p.CreatedAt,
	}
}

// ToChallengeResponse renders c as seen on today. viewer is the caller's participation, if any.
func ToChallengeResponse(c models.ReadingChallenge, today time.Time, viewer *models.ChallengeParticipant) ChallengeResponse {
	resp := ChallengeResponse{
		ID:                c.ID,
		Title:             c.Title,
		Description:       c.Description,
		StartDate:         c.StartDate.Format(DateLayout),
		EndDate:           c.EndDate.Format(DateLayout),
		Requirements:      c.Requirements.Data(),
		IsPublic:          c.IsPublic,
		IsFeatured:        c.IsFeatured,
		CreatedBy:         c.CreatedBy,
		Creator:           ToUserSummary(c.Creator),
		ParticipantsCount: c.ParticipantsCount,
		IsActive:          c.IsActiveOn(today),
		Status:            c.StatusOn(today),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.Participants != nil {
		resp.Participants = Map(c.Participants, ToParticipantResponse)
	}
	if viewer != nil {
		completed := viewer.IsCompleted
		resp.UserProgress = viewer.Progress.Data()
		resp.IsCompleted = &completed
	}
	return resp
}
