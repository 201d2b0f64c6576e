package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
)

// SearchService runs naive case-insensitive substring search over active
// topics and posts. No relevance ranking and no dedup: topics come first in
// their default list order, then posts oldest-first.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// likeEscaper neutralizes LIKE metacharacters so a query containing %, _
// or the escape char itself matches literally. '|' is the escape char
// because a backslash inside a SQL string literal reads differently on
// MySQL and SQLite.
var likeEscaper = strings.NewReplacer("|", "||", "%", "|%", "_", "|_")

// SearchResults carries both halves of the merged result set.
type SearchResults struct {
	Query  string         `json:"query"`
	Topics []models.Topic `json:"topics"`
	Posts  []models.Post  `json:"posts"`
}

// Search returns active topics whose title or content contains query and
// active posts whose content contains it, case-insensitively. An empty
// query yields an empty result set, not an error.
func (s *SearchService) Search(query string) (SearchResults, error) {
	results := SearchResults{
		Query:  query,
		Topics: []models.Topic{},
		Posts:  []models.Post{},
	}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	err := s.db.Preload("Author").Preload("Category").
		Where("is_active = ? AND (LOWER(title) LIKE ? ESCAPE '|' OR LOWER(content) LIKE ? ESCAPE '|')", true, pattern, pattern).
		Order("is_pinned DESC, last_post_at DESC").
		Find(&results.Topics).Error
	if err != nil {
		return results, err
	}

	err = s.db.Preload("Author").
		Where("is_active = ? AND LOWER(content) LIKE ? ESCAPE '|'", true, pattern).
		Order("created_at, id").
		Find(&results.Posts).Error
	if err != nil {
		return results, err
	}
	return results, nil
}
