package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/venturehub/forum/models"
)

// newTestDB opens a private in-memory SQLite database and migrates the
// forum schema. A single connection keeps concurrent test writes
// serialized the way a real MySQL row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Topic{},
		&models.Post{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		IsStaff:  staff,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string, parentID *uint, order int) *models.Category {
	t.Helper()
	category, err := NewCategoryService(db).Create(CreateCategoryInput{
		Name:      name,
		ParentID:  parentID,
		SortOrder: order,
	})
	require.NoError(t, err)
	return category
}
