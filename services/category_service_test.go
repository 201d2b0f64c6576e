package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturehub/forum/models"
)

func TestCreateCategorySlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	first, err := svc.Create(CreateCategoryInput{Name: "Startups"})
	require.NoError(t, err)
	assert.Equal(t, "startups", first.Slug)

	second, err := svc.Create(CreateCategoryInput{Name: "Startups"})
	require.NoError(t, err)
	assert.Equal(t, "startups-1", second.Slug)

	third, err := svc.Create(CreateCategoryInput{Name: "startups"})
	require.NoError(t, err)
	assert.Equal(t, "startups-2", third.Slug)
}

func TestCreateCategoryValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.Create(CreateCategoryInput{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	missing := uint(4242)
	_, err = svc.Create(CreateCategoryInput{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChildrenOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	root := createCategory(t, db, "Community", nil, 0)
	createCategory(t, db, "Banana", &root.ID, 2)
	createCategory(t, db, "Apple", &root.ID, 1)
	createCategory(t, db, "Cherry", &root.ID, 1)

	children, err := svc.ChildrenOf(root.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "Apple", children[0].Name)
	assert.Equal(t, "Cherry", children[1].Name)
	assert.Equal(t, "Banana", children[2].Name)
}

func TestActiveRootsSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	createCategory(t, db, "Visible", nil, 1)
	hidden := createCategory(t, db, "Hidden", nil, 0)

	off := false
	_, err := svc.Update(hidden.ID, UpdateCategoryInput{IsActive: &off})
	require.NoError(t, err)

	roots, err := svc.ActiveRoots()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Visible", roots[0].Name)
}

func TestSubtreeCountsIncludeDescendants(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	topics := NewTopicService(db)
	alice := createUser(t, db, "alice", false)

	root := createCategory(t, db, "Tech", nil, 0)
	child := createCategory(t, db, "Go", &root.ID, 0)
	grandchild := createCategory(t, db, "Generics", &child.ID, 0)

	_, _, err := topics.CreateTopic(alice, child.ID, "In the child", "body", models.TopicDiscussion)
	require.NoError(t, err)
	deep, _, err := topics.CreateTopic(alice, grandchild.ID, "Deep down", "body", models.TopicDiscussion)
	require.NoError(t, err)
	_, err = topics.Reply(alice, deep.ID, "a reply")
	require.NoError(t, err)

	count, err := svc.TopicCount(root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = svc.TopicCount(child.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = svc.TopicCount(grandchild.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	posts, err := svc.PostCount(root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, posts)

	// Removing a topic drops it and its posts from every ancestor count.
	require.NoError(t, topics.SoftDelete(alice, deep.ID))

	count, err = svc.TopicCount(root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	posts, err = svc.PostCount(root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, posts)
}

func TestUpdateRejectsCyclicReparent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	root := createCategory(t, db, "Root", nil, 0)
	child := createCategory(t, db, "Child", &root.ID, 0)
	grandchild := createCategory(t, db, "Grandchild", &child.ID, 0)

	_, err := svc.Update(root.ID, UpdateCategoryInput{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(root.ID, UpdateCategoryInput{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrValidation)

	// Moving a leaf under a sibling subtree stays legal.
	other := createCategory(t, db, "Other", nil, 0)
	moved, err := svc.Update(grandchild.ID, UpdateCategoryInput{ParentID: &other.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, other.ID, *moved.ParentID)
}

func TestDeleteCascadesHard(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	topics := NewTopicService(db)
	alice := createUser(t, db, "alice", false)

	root := createCategory(t, db, "Doomed", nil, 0)
	child := createCategory(t, db, "Doomed child", &root.ID, 0)
	keep := createCategory(t, db, "Keeper", nil, 0)

	topic, _, err := topics.CreateTopic(alice, child.ID, "Gone soon", "body", models.TopicDiscussion)
	require.NoError(t, err)
	_, err = topics.Reply(alice, topic.ID, "also gone")
	require.NoError(t, err)
	kept, _, err := topics.CreateTopic(alice, keep.ID, "Survivor", "body", models.TopicDiscussion)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(root.ID))

	var categories, topicRows, postRows int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Topic{}).Count(&topicRows).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postRows).Error)
	assert.EqualValues(t, 1, categories)
	assert.EqualValues(t, 1, topicRows)
	assert.EqualValues(t, 1, postRows)

	_, err = svc.Get(child.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	still, err := topics.GetBySlug(kept.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Survivor", still.Title)

	// Deleting again reports the category as gone.
	assert.ErrorIs(t, svc.Delete(root.ID), ErrNotFound)
}
