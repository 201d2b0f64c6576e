package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// TopicController handles the topic/post lifecycle: create, read (with view
// recording), reply, and soft-delete.
type TopicController struct {
	topics     *services.TopicService
	categories *services.CategoryService
	ranking    *services.RankingService
}

// NewTopicController creates a new TopicController instance.
func NewTopicController(db *gorm.DB) *TopicController {
	return &TopicController{
		topics:     services.NewTopicService(db),
		categories: services.NewCategoryService(db),
		ranking:    services.NewRankingService(db),
	}
}

// CreateTopic opens a new thread in a category. The opening post is created
// atomically with the topic.
func (t *TopicController) CreateTopic(ctx *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required,min=1"`
		Content   string `json:"content" binding:"required"`
		TopicType string `json:"topic_type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	category, err := t.categories.GetBySlug(ctx.Param("slug"))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	topic, firstPost, err := t.topics.CreateTopic(
		currentUser(ctx),
		category.ID,
		utils.StripTags(req.Title),
		utils.Sanitize(req.Content),
		req.TopicType,
	)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:category:" + category.Slug + ":")
	utils.InvalidateByPrefix("cache:forum:index")
	utils.InvalidateByPrefix("cache:categories:")

	utils.Success(ctx, gin.H{"topic": topic, "first_post": firstPost})
}

// GetTopic returns a topic with a page of its posts and records one view.
// The payload is never cached: every read moves the view counter.
func (t *TopicController) GetTopic(ctx *gin.Context) {
	slug := ctx.Param("slug")
	topic, err := t.topics.GetBySlug(slug)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	if err := t.topics.RecordView(topic.ID); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("record view failed topic=%d err=%v", topic.ID, err)
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	posts, total, err := t.topics.ListPosts(topic.ID, page, pageSize)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	replyCount, err := t.ranking.ReplyCount(topic.ID)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"topic":       topic,
		"reply_count": replyCount,
		"posts":       posts,
		"pagination":  paginationPayload(page, pageSize, total),
	})
}

// Reply appends a post to a topic.
func (t *TopicController) Reply(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	topic, err := t.topics.GetBySlug(ctx.Param("slug"))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	post, err := t.topics.Reply(currentUser(ctx), topic.ID, utils.Sanitize(req.Content))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:category:" + topic.Category.Slug + ":")
	utils.InvalidateByPrefix("cache:forum:index")
	utils.InvalidateByPrefix("cache:categories:")

	utils.Success(ctx, gin.H{"post": post})
}

// DeleteTopic soft-deletes a topic and its posts. Author or staff only;
// repeated deletion is a no-op.
func (t *TopicController) DeleteTopic(ctx *gin.Context) {
	topic, err := t.topics.GetAnyBySlug(ctx.Param("slug"))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	if err := t.topics.SoftDelete(currentUser(ctx), topic.ID); err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:category:")
	utils.InvalidateByPrefix("cache:forum:index")
	utils.InvalidateByPrefix("cache:categories:")

	utils.Success(ctx, gin.H{"message": "topic deleted"})
}
