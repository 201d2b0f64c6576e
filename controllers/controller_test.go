package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/venturehub/forum/middleware"
	"github.com/venturehub/forum/models"
	"github.com/venturehub/forum/services"
)

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "controller-test-secret")
	t.Setenv("CACHE_DISABLED", "true")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Topic{},
		&models.Post{},
	))
	return db
}

// jsonContext builds a request context with a JSON body and the identity
// keys the auth middleware would have set.
func jsonContext(t *testing.T, user *models.User, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	ctx.Params = params

	if user != nil {
		ctx.Set(middleware.ContextUserIDKey, user.ID)
		ctx.Set(middleware.ContextUsernameKey, user.Username)
		ctx.Set(middleware.ContextIsStaffKey, user.IsStaff)
	}
	return ctx, w
}

func TestReplyEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	topics := services.NewTopicService(db)

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(alice).Error)
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, db.Create(bob).Error)

	category, err := services.NewCategoryService(db).Create(services.CreateCategoryInput{Name: "Startups"})
	require.NoError(t, err)
	topic, _, err := topics.CreateTopic(alice, category.ID, "Idea A", "the pitch", "")
	require.NoError(t, err)

	ctrl := NewTopicController(db)
	ctx, w := jsonContext(t, bob, gin.H{"content": "Nice!"}, gin.Params{{Key: "slug", Value: topic.Slug}})
	ctrl.Reply(ctx)

	assert.Equal(t, http.StatusOK, w.Code)

	var total int64
	require.NoError(t, db.Model(&models.Post{}).Where("topic_id = ?", topic.ID).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestAdjustReputationAcceptsZeroDelta(t *testing.T) {
	db := newControllerTestDB(t)

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(alice).Error)
	staff := &models.User{Username: "mod", Email: "mod@example.com", IsStaff: true}
	require.NoError(t, db.Create(staff).Error)

	ctrl := NewProfileController(db)
	params := gin.Params{{Key: "id", Value: strconv.Itoa(int(alice.ID))}}

	ctx, w := jsonContext(t, staff, gin.H{"delta": 0}, params)
	ctrl.AdjustReputation(ctx)
	assert.Equal(t, http.StatusOK, w.Code)

	ctx, w = jsonContext(t, staff, gin.H{"delta": 5}, params)
	ctrl.AdjustReputation(ctx)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&profile).Error)
	assert.Equal(t, 5, profile.Reputation)

	// Omitting delta entirely is still a binding error.
	ctx, w = jsonContext(t, staff, gin.H{}, params)
	ctrl.AdjustReputation(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
