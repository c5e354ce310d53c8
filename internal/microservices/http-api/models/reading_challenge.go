package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ChallengeUpcoming  = "upcoming"
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
)

// Requirements maps a requirement key to its target count (or, on a participant, the current count).
type Requirements map[string]int

type ReadingChallenge struct {
	ID           int64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedBy    int64                            `gorm:"not null;index" json:"created_by"`
	Title        string                           `gorm:"size:255;not null" json:"title"`
	Description  string                           `gorm:"type:text;not null" json:"description"`
	StartDate    time.Time                        `gorm:"type:date;not null;index" json:"start_date"`
	EndDate      time.Time                        `gorm:"type:date;not null;index" json:"end_date"`
	Requirements datatypes.JSONType[Requirements] `gorm:"not null" json:"requirements"`
	IsPublic     bool                             `gorm:"not null;default:true" json:"is_public"`
	IsFeatured   bool                             `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt                   `gorm:"index" json:"-"`

	Creator      *User                  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE;" json:"creator,omitempty"`
	Participants []ChallengeParticipant `gorm:"foreignKey:ReadingChallengeID" json:"participants,omitempty"`

	ParticipantsCount int64 `gorm:"->;-:migration" json:"participants_count"`
}

func (ReadingChallenge) TableName() string {
	return "reading_challenges"
}

// VisibleTo reports whether userID may see the challenge. Zero means anonymous.
func (c *ReadingChallenge) VisibleTo(userID int64) bool {
	return c.IsPublic || (userID != 0 && c.CreatedBy == userID)
}

// StatusOn derives the challenge window for the given day; both bounds are inclusive.
func (c *ReadingChallenge) StatusOn(day time.Time) string {
	d := DateOnly(day)
	switch {
	case d.Before(DateOnly(c.StartDate)):
		return ChallengeUpcoming
	case d.After(DateOnly(c.EndDate)):
		return ChallengeCompleted
	default:
		return ChallengeActive
	}
}

func (c *ReadingChallenge) IsActiveOn(day time.Time) bool {
	return c.StatusOn(day) == ChallengeActive
}

// IsFulfilled reports whether every requirement's count in progress reaches its target.
func (c *ReadingChallenge) IsFulfilled(progress Requirements) bool {
	for key, target := range c.Requirements.Data() {
		if progress[key] < target {
			return false
		}
	}
	return true
}

// ZeroProgress returns a progress map with every requirement key at zero.
func (c *ReadingChallenge) ZeroProgress() Requirements {
	reqs := c.Requirements.Data()
	progress := make(Requirements, len(reqs))
	for key := range reqs {
		progress[key] = 0
	}
	return progress
}

// ChallengeParticipant is the pivot between a challenge and a joined user.
type ChallengeParticipant struct {
	ID                 int64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	ReadingChallengeID int64                            `gorm:"not null;uniqueIndex:idx_participants_challenge_user" json:"reading_challenge_id"`
	UserID             int64                            `gorm:"not null;uniqueIndex:idx_participants_challenge_user;index" json:"user_id"`
	Progress           datatypes.JSONType[Requirements] `gorm:"not null" json:"progress"`
	IsCompleted        bool                             `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt        *time.Time                       `json:"completed_at"`
	CreatedAt          time.Time                        `json:"created_at"`
	UpdatedAt          time.Time                        `json:"updated_at"`

	User      *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Challenge *ReadingChallenge `gorm:"foreignKey:ReadingChallengeID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (ChallengeParticipant) TableName() string {
	return "reading_challenge_participants"
}

// ChallengeBook records a book a participant counted toward one requirement.
type ChallengeBook struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             int64     `gorm:"not null;uniqueIndex:idx_challenge_books_user_challenge_book" json:"user_id"`
	ReadingChallengeID int64     `gorm:"not null;uniqueIndex:idx_challenge_books_user_challenge_book;index" json:"reading_challenge_id"`
	BookID             int64     `gorm:"not null;uniqueIndex:idx_challenge_books_user_challenge_book" json:"book_id"`
	RequirementKey     string    `gorm:"size:100;not null" json:"requirement_key"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (ChallengeBook) TableName() string {
	return "reading_challenge_books"
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
