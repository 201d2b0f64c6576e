package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturehub/forum/models"
)

func TestUniqueSlugFallback(t *testing.T) {
	db := newTestDB(t)

	// A title with no slug-safe characters falls back to the model label.
	got, err := uniqueSlug(db, &models.Topic{}, "???", "topic")
	require.NoError(t, err)
	assert.Equal(t, "topic", got)
}

func TestUniqueSlugSuffixSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewTopicService(db)
	alice := createUser(t, db, "alice", false)
	category := createCategory(t, db, "Startups", nil, 0)

	want := []string{"same-title", "same-title-1", "same-title-2"}
	for _, expected := range want {
		topic, _, err := svc.CreateTopic(alice, category.ID, "Same Title", "body", "")
		require.NoError(t, err)
		assert.Equal(t, expected, topic.Slug)
	}
}

func TestUniqueSlugScopedPerModel(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	categories := NewCategoryService(db)
	alice := createUser(t, db, "alice", false)

	category, err := categories.Create(CreateCategoryInput{Name: "Shared Name"})
	require.NoError(t, err)
	topic, _, err := topics.CreateTopic(alice, category.ID, "Shared Name", "body", "")
	require.NoError(t, err)

	// Slug uniqueness is per table, so the two can coincide.
	assert.Equal(t, "shared-name", category.Slug)
	assert.Equal(t, "shared-name", topic.Slug)
}
