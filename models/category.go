package models

import "time"

// Category is a node in the forum's topic-classification tree. Categories
// form a forest via ParentID; siblings are ordered by (sort_order, name).
type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Slug        string     `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *uint      `gorm:"index" json:"parent_id"`
	SortOrder   int        `gorm:"not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
