package models

import "time"

// Follower is a directed follow edge: FollowerID follows FollowingID.
type Follower struct {
	FollowerID  int64     `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowingID int64     `gorm:"primaryKey;autoIncrement:false;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Follower) TableName() string {
	return "followers"
}
