package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturehub/forum/models"
)

func TestSeedDefaultCategories(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedDefaultCategories(db))

	svc := NewCategoryService(db)
	roots, err := svc.ActiveRoots()
	require.NoError(t, err)
	require.Len(t, roots, 5)
	assert.Equal(t, "创业讨论", roots[0].Name)
	assert.Equal(t, "社区公告", roots[4].Name)

	children, err := svc.ChildrenOf(roots[0].ID)
	require.NoError(t, err)
	assert.Len(t, children, 3)

	// Re-running the seed neither duplicates nor renames anything.
	require.NoError(t, SeedDefaultCategories(db))
	var total int64
	require.NoError(t, db.Model(&models.Category{}).Count(&total).Error)
	assert.EqualValues(t, 17, total)
}
