package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActivityStartedReading      = "started_reading"
	ActivityFinishedReading     = "finished_reading"
	ActivityReviewed            = "reviewed"
	ActivityAddedToShelf        = "added_to_shelf"
	ActivityCreatedShelf        = "created_shelf"
	ActivitySetReadingGoal      = "set_reading_goal"
	ActivityAchievedReadingGoal = "achieved_reading_goal"
	ActivityCreatedChallenge    = "created_challenge"
	ActivityJoinedChallenge     = "joined_challenge"
	ActivityCompletedChallenge  = "completed_challenge"
)

// Subject types stored in activities.subject_type.
const (
	SubjectBook      = "book"
	SubjectShelf     = "shelf"
	SubjectReview    = "book_review"
	SubjectGoal      = "reading_goal"
	SubjectChallenge = "reading_challenge"
)

// Activity is an append-only log entry of something a user did.
type Activity struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64             `gorm:"not null;index" json:"user_id"`
	Type        string            `gorm:"size:50;not null;index" json:"type"`
	SubjectType string            `gorm:"size:50;not null;index:idx_activities_subject" json:"subject_type"`
	SubjectID   int64             `gorm:"not null;index:idx_activities_subject" json:"subject_id"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) Description() string {
	switch a.Type {
	case ActivityStartedReading:
		return "started reading a book"
	case ActivityFinishedReading:
		return "finished reading a book"
	case ActivityReviewed:
		return "wrote a review"
	case ActivityAddedToShelf:
		return "added a book to shelf"
	case ActivityCreatedShelf:
		return "created a new shelf"
	case ActivitySetReadingGoal:
		return "set a new reading goal"
	case ActivityAchievedReadingGoal:
		return "achieved their reading goal"
	case ActivityCreatedChallenge:
		return "created a reading challenge"
	case ActivityJoinedChallenge:
		return "joined a reading challenge"
	case ActivityCompletedChallenge:
		return "completed a reading challenge"
	default:
		return "performed an action"
	}
}
