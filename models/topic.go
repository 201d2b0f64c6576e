package models

import "time"

// Topic types mirror the kinds of threads the forum supports.
const (
	TopicDiscussion   = "discussion"
	TopicQuestion     = "question"
	TopicSharing      = "sharing"
	TopicAnnouncement = "announcement"
)

// TopicTypes lists every valid topic_type value.
var TopicTypes = []string{TopicDiscussion, TopicQuestion, TopicSharing, TopicAnnouncement}

// Topic is a discussion thread. Its opening message is duplicated as the
// first Post at creation time. Topics are soft-deleted via IsActive, never
// removed; LastPostAt/LastPostBy track the most recent active reply.
type Topic struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Slug         string    `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	TopicType    string    `gorm:"size:20;not null;default:'discussion'" json:"topic_type"`
	CategoryID   uint      `gorm:"index;not null" json:"category_id"`
	AuthorID     uint      `gorm:"index;not null" json:"author_id"`
	IsPinned     bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked     bool      `gorm:"not null;default:false" json:"is_locked"`
	IsActive     bool      `gorm:"index;not null;default:true" json:"is_active"`
	Views        uint      `gorm:"not null;default:0" json:"views"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastPostAt   time.Time `gorm:"index" json:"last_post_at"`
	LastPostByID *uint     `json:"last_post_by_id"`

	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
	Author     User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	LastPostBy *User    `gorm:"foreignKey:LastPostByID;constraint:OnDelete:SET NULL;" json:"last_post_by,omitempty"`
	Posts      []Post   `json:"posts,omitempty"`
}

// ValidTopicType reports whether t is one of the declared topic types.
func ValidTopicType(t string) bool {
	for _, v := range TopicTypes {
		if v == t {
			return true
		}
	}
	return false
}
