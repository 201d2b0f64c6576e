package models

import "time"

// UserProfile extends a User with forum-facing profile data. Profiles are
// created lazily on first access and never deleted independently of the
// user account. PostCount is denormalized; see ProfileService for the
// refresh policy.
type UserProfile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio        string    `gorm:"size:500" json:"bio"`
	Location   string    `gorm:"size:100" json:"location"`
	Website    string    `gorm:"size:255" json:"website"`
	Wechat     string    `gorm:"size:50" json:"wechat"`
	AvatarURL  string    `gorm:"size:512" json:"avatar_url"`
	Signature  string    `gorm:"size:200" json:"signature"`
	PostCount  int64     `gorm:"not null;default:0" json:"post_count"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	LastSeen   time.Time `json:"last_seen"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}
