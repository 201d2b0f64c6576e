package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
)

// TopicService owns the topic/post lifecycle: atomic topic+first-post
// creation, replies with last-post bookkeeping, view counting, and the
// soft-delete cascade.
type TopicService struct {
	db *gorm.DB
}

// NewTopicService creates a new TopicService instance.
func NewTopicService(db *gorm.DB) *TopicService {
	return &TopicService{db: db}
}

// CreateTopic validates the input, derives a unique slug from the title and,
// in a single transaction, creates the topic together with its first post
// carrying identical content. The first post is what reply counting is
// anchored on.
func (s *TopicService) CreateTopic(actor *models.User, categoryID uint, title, content, topicType string) (*models.Topic, *models.Post, error) {
	if actor == nil {
		return nil, nil, fmt.Errorf("%w: authentication required to create a topic", ErrPermissionDenied)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	if topicType == "" {
		topicType = models.TopicDiscussion
	}
	if !models.ValidTopicType(topicType) {
		return nil, nil, fmt.Errorf("%w: invalid topic type %q", ErrValidation, topicType)
	}

	var category models.Category
	err := s.db.Where("id = ? AND is_active = ?", categoryID, true).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
		}
		return nil, nil, err
	}

	topicSlug, err := uniqueSlug(s.db, &models.Topic{}, title, "topic")
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	topic := models.Topic{
		Title:        title,
		Slug:         topicSlug,
		Content:      content,
		TopicType:    topicType,
		CategoryID:   category.ID,
		AuthorID:     actor.ID,
		IsActive:     true,
		LastPostAt:   now,
		LastPostByID: &actor.ID,
	}
	firstPost := models.Post{
		AuthorID: actor.ID,
		Content:  content,
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&topic).Error; err != nil {
			return err
		}
		firstPost.TopicID = topic.ID
		return tx.Create(&firstPost).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &topic, &firstPost, nil
}

// Reply appends a post to an active, unlocked topic and advances the
// topic's last_post_at/last_post_by in the same transaction, so readers
// never observe one without the other.
func (s *TopicService) Reply(actor *models.User, topicID uint, content string) (*models.Post, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required to reply", ErrPermissionDenied)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}

	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: topic %d", ErrNotFound, topicID)
		}
		return nil, err
	}
	if !topic.IsActive {
		return nil, fmt.Errorf("%w: topic %d", ErrNotFound, topicID)
	}
	if topic.IsLocked {
		return nil, fmt.Errorf("%w: topic %d does not accept replies", ErrTopicLocked, topicID)
	}

	post := models.Post{
		TopicID:  topic.ID,
		AuthorID: actor.ID,
		Content:  content,
		IsActive: true,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.Topic{}).Where("id = ?", topic.ID).Updates(map[string]interface{}{
			"last_post_at":    time.Now(),
			"last_post_by_id": actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RecordView bumps the topic's view counter with a single atomic SQL
// increment so simultaneous readers never lose updates. The per-row
// updated_at is left alone; a page read is not an edit.
func (s *TopicService) RecordView(topicID uint) error {
	return s.db.Model(&models.Topic{}).
		Where("id = ? AND is_active = ?", topicID, true).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// SoftDelete marks the topic and all of its posts inactive in one
// transaction. Only the author or staff may delete; repeating the call on an
// already-deleted topic is a no-op. There is no resurrection operation.
func (s *TopicService) SoftDelete(actor *models.User, topicID uint) error {
	if actor == nil {
		return fmt.Errorf("%w: authentication required to delete a topic", ErrPermissionDenied)
	}

	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: topic %d", ErrNotFound, topicID)
		}
		return err
	}
	if actor.ID != topic.AuthorID && !actor.IsStaff {
		return fmt.Errorf("%w: only the author or staff may delete topic %d", ErrPermissionDenied, topicID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Topic{}).Where("id = ?", topic.ID).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("topic_id = ?", topic.ID).Update("is_active", false).Error
	})
}

// GetBySlug loads an active topic by slug with its author, category and
// last poster preloaded.
func (s *TopicService) GetBySlug(topicSlug string) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.Preload("Author").Preload("Category").Preload("LastPostBy").
		Where("slug = ? AND is_active = ?", topicSlug, true).
		First(&topic).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: topic %q", ErrNotFound, topicSlug)
		}
		return nil, err
	}
	return &topic, nil
}

// GetAnyBySlug loads a topic by slug regardless of soft-delete state, for
// operations that must stay idempotent on deleted topics.
func (s *TopicService) GetAnyBySlug(topicSlug string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.Where("slug = ?", topicSlug).First(&topic).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: topic %q", ErrNotFound, topicSlug)
		}
		return nil, err
	}
	return &topic, nil
}

// ListByCategory returns active topics in a category in the default list
// order: pinned first, then most recently replied.
func (s *TopicService) ListByCategory(categoryID uint, page, pageSize int) ([]models.Topic, int64, error) {
	q := s.db.Model(&models.Topic{}).
		Where("category_id = ? AND is_active = ?", categoryID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var topics []models.Topic
	err := q.Preload("Author").Preload("LastPostBy").
		Order("is_pinned DESC, last_post_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&topics).Error
	if err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}

// ListPosts returns a topic's active posts oldest-first.
func (s *TopicService) ListPosts(topicID uint, page, pageSize int) ([]models.Post, int64, error) {
	q := s.db.Model(&models.Post{}).
		Where("topic_id = ? AND is_active = ?", topicID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.Preload("Author").
		Order("created_at, id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByAuthor returns a user's most recent active topics, for profile pages.
func (s *TopicService) ListByAuthor(userID uint, limit int) ([]models.Topic, error) {
	var topics []models.Topic
	err := s.db.Preload("Category").
		Where("author_id = ? AND is_active = ?", userID, true).
		Order("is_pinned DESC, last_post_at DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

// ListPostsByAuthor returns a user's most recent active posts, for profile
// pages.
func (s *TopicService) ListPostsByAuthor(userID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Where("author_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
