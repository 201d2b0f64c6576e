package services

import (
	"sort"

	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
)

// replyWeight is the trending-score weight of one reply relative to one
// view: a reply signals deeper engagement than a passive read.
const replyWeight = 3

// RankingService derives ordered views and aggregate counters from topic
// and post state. It never mutates; everything is recomputed on demand from
// the authoritative store.
type RankingService struct {
	db *gorm.DB
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

// TrendingTopic pairs a topic with its derived popularity numbers.
type TrendingTopic struct {
	models.Topic
	ReplyCount int64 `json:"reply_count"`
	Score      int64 `json:"score"`
}

// Totals holds the forum-wide counters shown on the index page.
type Totals struct {
	Topics int64 `json:"total_topics"`
	Posts  int64 `json:"total_posts"`
	Users  int64 `json:"total_users"`
}

// ReplyCount returns the number of active replies under a topic: active
// posts minus the opening post, clamped at zero in case the cascade left
// every post inactive.
func (s *RankingService) ReplyCount(topicID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Post{}).
		Where("topic_id = ? AND is_active = ?", topicID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return clampReplies(count), nil
}

// TrendingScore computes views + replies*replyWeight for one topic.
func (s *RankingService) TrendingScore(topic *models.Topic) (int64, error) {
	replies, err := s.ReplyCount(topic.ID)
	if err != nil {
		return 0, err
	}
	return int64(topic.Views) + replies*replyWeight, nil
}

// Trending returns up to limit active topics ordered by trending score
// descending, ties broken by newest first. Scores are recomputed on every
// call; at forum scale the grouped count plus an in-memory sort is cheap and
// cannot drift.
func (s *RankingService) Trending(limit int) ([]TrendingTopic, error) {
	var topics []models.Topic
	err := s.db.Preload("Author").Preload("Category").Preload("LastPostBy").
		Where("is_active = ?", true).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	type postCount struct {
		TopicID uint
		Total   int64
	}
	var counts []postCount
	err = s.db.Model(&models.Post{}).
		Select("topic_id, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("topic_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byTopic := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byTopic[c.TopicID] = c.Total
	}

	ranked := make([]TrendingTopic, 0, len(topics))
	for _, t := range topics {
		replies := clampReplies(byTopic[t.ID])
		ranked = append(ranked, TrendingTopic{
			Topic:      t,
			ReplyCount: replies,
			Score:      int64(t.Views) + replies*replyWeight,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Recent returns up to limit active topics, newest first.
func (s *RankingService) Recent(limit int) ([]models.Topic, error) {
	var topics []models.Topic
	err := s.db.Preload("Author").Preload("Category").Preload("LastPostBy").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

// TotalCounts recomputes the forum-wide counters: active topics, active
// posts, and registered profiles. No cached mutable globals, so the numbers
// can never drift from the store.
func (s *RankingService) TotalCounts() (Totals, error) {
	var t Totals
	if err := s.db.Model(&models.Topic{}).Where("is_active = ?", true).Count(&t.Topics).Error; err != nil {
		return t, err
	}
	if err := s.db.Model(&models.Post{}).Where("is_active = ?", true).Count(&t.Posts).Error; err != nil {
		return t, err
	}
	if err := s.db.Model(&models.UserProfile{}).Count(&t.Users).Error; err != nil {
		return t, err
	}
	return t, nil
}

// clampReplies converts an active-post count into a reply count, never
// negative even when the opening post itself is inactive.
func clampReplies(activePosts int64) int64 {
	if activePosts <= 0 {
		return 0
	}
	return activePosts - 1
}
