package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturehub/forum/models"
)

func TestReplyCountNeverNegative(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	category := createCategory(t, db, "Startups", nil, 0)

	topic, first, err := topics.CreateTopic(alice, category.ID, "Idea A", "the pitch", "")
	require.NoError(t, err)

	count, err := svc.ReplyCount(topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = topics.Reply(alice, topic.ID, "first reply")
	require.NoError(t, err)
	count, err = svc.ReplyCount(topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Knocking out just the opening post leaves one active post, which
	// still reads as zero replies.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", first.ID).Update("is_active", false).Error)
	count, err = svc.ReplyCount(topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// After the full cascade there are no active posts at all and the
	// count stays at zero rather than going negative.
	require.NoError(t, topics.SoftDelete(alice, topic.ID))
	count, err = svc.ReplyCount(topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestTrendingScoreFormula(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	category := createCategory(t, db, "Startups", nil, 0)

	topic, _, err := topics.CreateTopic(alice, category.ID, "Idea A", "the pitch", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, topics.RecordView(topic.ID))
	}
	score, err := svc.TrendingScore(topic)
	require.NoError(t, err)
	assert.EqualValues(t, 0, score) // topic struct still holds views=0

	var reloaded models.Topic
	require.NoError(t, db.First(&reloaded, topic.ID).Error)
	score, err = svc.TrendingScore(&reloaded)
	require.NoError(t, err)
	assert.EqualValues(t, 5, score)

	// One reply is worth three views.
	_, err = topics.Reply(bob, topic.ID, "Nice!")
	require.NoError(t, err)
	score, err = svc.TrendingScore(&reloaded)
	require.NoError(t, err)
	assert.EqualValues(t, 8, score)
}

func TestTrendingOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	category := createCategory(t, db, "Startups", nil, 0)

	quiet, _, err := topics.CreateTopic(alice, category.ID, "Quiet", "body", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	viewed, _, err := topics.CreateTopic(alice, category.ID, "Viewed", "body", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	discussed, _, err := topics.CreateTopic(alice, category.ID, "Discussed", "body", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	deleted, _, err := topics.CreateTopic(alice, category.ID, "Deleted", "body", "")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, topics.RecordView(viewed.ID))
	}
	_, err = topics.Reply(bob, discussed.ID, "one")
	require.NoError(t, err)
	_, err = topics.Reply(alice, discussed.ID, "two")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, topics.RecordView(deleted.ID))
	}
	require.NoError(t, topics.SoftDelete(alice, deleted.ID))

	ranked, err := svc.Trending(10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Discussed", ranked[0].Title) // 2 replies -> 6
	assert.EqualValues(t, 6, ranked[0].Score)
	assert.EqualValues(t, 2, ranked[0].ReplyCount)
	assert.Equal(t, "Viewed", ranked[1].Title) // 4 views -> 4
	assert.EqualValues(t, 4, ranked[1].Score)
	assert.Equal(t, quiet.Title, ranked[2].Title)
	assert.EqualValues(t, 0, ranked[2].Score)

	top, err := svc.Trending(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Discussed", top[0].Title)
}

func TestTrendingTieBreakNewestFirst(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	category := createCategory(t, db, "Startups", nil, 0)

	_, _, err := topics.CreateTopic(alice, category.ID, "Earlier", "body", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, _, err = topics.CreateTopic(alice, category.ID, "Later", "body", "")
	require.NoError(t, err)

	ranked, err := svc.Trending(10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Later", ranked[0].Title)
	assert.Equal(t, "Earlier", ranked[1].Title)
}

func TestRecentExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	category := createCategory(t, db, "Startups", nil, 0)

	_, _, err := topics.CreateTopic(alice, category.ID, "Keep", "body", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	doomed, _, err := topics.CreateTopic(alice, category.ID, "Drop", "body", "")
	require.NoError(t, err)
	require.NoError(t, topics.SoftDelete(alice, doomed.ID))

	recent, err := svc.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Keep", recent[0].Title)
}

func TestTotalCounts(t *testing.T) {
	db := newTestDB(t)
	topics := NewTopicService(db)
	profiles := NewProfileService(db)
	svc := NewRankingService(db)
	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	category := createCategory(t, db, "Startups", nil, 0)

	topic, _, err := topics.CreateTopic(alice, category.ID, "Idea A", "body", "")
	require.NoError(t, err)
	_, err = topics.Reply(bob, topic.ID, "Nice!")
	require.NoError(t, err)
	_, err = profiles.GetOrCreate(alice.ID)
	require.NoError(t, err)
	_, err = profiles.GetOrCreate(bob.ID)
	require.NoError(t, err)

	totals, err := svc.TotalCounts()
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Topics)
	assert.EqualValues(t, 2, totals.Posts)
	assert.EqualValues(t, 2, totals.Users)

	require.NoError(t, topics.SoftDelete(alice, topic.ID))
	totals, err = svc.TotalCounts()
	require.NoError(t, err)
	assert.EqualValues(t, 0, totals.Topics)
	assert.EqualValues(t, 0, totals.Posts)
}
