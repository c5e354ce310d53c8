package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// SubjectSummary names the thing an activity is about. Deleted is set when the subject was soft-deleted since.
type SubjectSummary struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Deleted bool   `json:"deleted,omitempty"`
}

type ActivityResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	User        *UserSummary    `json:"user,omitempty"`
	SubjectType string          `json:"subject_type"`
	SubjectID   int64           `json:"subject_id"`
	Subject     *SubjectSummary `json:"subject"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ToActivityResponse(a models.Activity, subject *SubjectSummary) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description(),
		User:        ToUserSummary(a.User),
		SubjectType: a.SubjectType,
		SubjectID:   a.SubjectID,
		Subject:     subject,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
	}
}
