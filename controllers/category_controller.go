package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// CategoryController exposes the category tree: roots, children, per-node
// counts, and the staff-only create/update/delete operations.
type CategoryController struct {
	categories *services.CategoryService
	topics     *services.TopicService
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{
		categories: services.NewCategoryService(db),
		topics:     services.NewTopicService(db),
	}
}

type categoryView struct {
	models.Category
	TopicCount int64          `json:"topic_count"`
	PostCount  int64          `json:"post_count"`
	ChildNodes []categoryView `json:"children"`
}

func (c *CategoryController) buildView(category models.Category, withChildren bool) (categoryView, error) {
	view := categoryView{Category: category, ChildNodes: []categoryView{}}

	topicCount, err := c.categories.TopicCount(category.ID)
	if err != nil {
		return view, err
	}
	postCount, err := c.categories.PostCount(category.ID)
	if err != nil {
		return view, err
	}
	view.TopicCount = topicCount
	view.PostCount = postCount

	if withChildren {
		children, err := c.categories.ChildrenOf(category.ID)
		if err != nil {
			return view, err
		}
		for _, child := range children {
			if !child.IsActive {
				continue
			}
			childView, err := c.buildView(child, false)
			if err != nil {
				return view, err
			}
			view.ChildNodes = append(view.ChildNodes, childView)
		}
	}
	return view, nil
}

// ListRoots returns active top-level categories with derived counts and
// their direct children.
func (c *CategoryController) ListRoots(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:categories:roots"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	roots, err := c.categories.ActiveRoots()
	if err != nil {
		serviceError(ctx, err)
		return
	}

	views := make([]categoryView, 0, len(roots))
	for _, root := range roots {
		view, err := c.buildView(root, true)
		if err != nil {
			serviceError(ctx, err)
			return
		}
		views = append(views, view)
	}

	payload := gin.H{"items": views}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:categories:roots", wrapper, 10*time.Minute)
	utils.Success(ctx, payload)
}

// GetCategory returns one active category with its children and a page of
// its topics in default order.
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	category, err := c.categories.GetBySlug(ctx.Param("slug"))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:category:%s:topics:page=%d:size=%d", category.Slug, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	view, err := c.buildView(*category, true)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	topics, total, err := c.topics.ListByCategory(category.ID, page, pageSize)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	payload := gin.H{
		"category":   view,
		"topics":     topics,
		"pagination": paginationPayload(page, pageSize, total),
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 0)
	utils.Success(ctx, payload)
}

// CreateCategory adds a category node. Staff only.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil || !user.IsStaff {
		utils.Error(ctx, http.StatusForbidden, 40302, "category management is staff-only")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		Description string `json:"description"`
		ParentID    *uint  `json:"parent_id"`
		Order       int    `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	category, err := c.categories.Create(services.CreateCategoryInput{
		Name:        utils.StripTags(req.Name),
		Description: utils.Sanitize(req.Description),
		ParentID:    req.ParentID,
		SortOrder:   req.Order,
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:categories:")
	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory edits name/description/order/active/parent. Staff only.
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil || !user.IsStaff {
		utils.Error(ctx, http.StatusForbidden, 40302, "category management is staff-only")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid category id")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Order       *int    `json:"order"`
		IsActive    *bool   `json:"is_active"`
		ParentID    *uint   `json:"parent_id"`
		ClearParent bool    `json:"clear_parent"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	in := services.UpdateCategoryInput{
		SortOrder:   req.Order,
		IsActive:    req.IsActive,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	}
	if req.Name != nil {
		name := utils.StripTags(*req.Name)
		in.Name = &name
	}
	if req.Description != nil {
		description := utils.Sanitize(*req.Description)
		in.Description = &description
	}

	category, err := c.categories.Update(uint(id), in)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:categories:")
	utils.InvalidateByPrefix("cache:category:")
	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory removes a category subtree and everything scoped to it.
// Staff only; unlike topic deletion this is permanent.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil || !user.IsStaff {
		utils.Error(ctx, http.StatusForbidden, 40302, "category management is staff-only")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid category id")
		return
	}

	if err := c.categories.Delete(uint(id)); err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:")
	utils.Success(ctx, gin.H{"message": "category deleted"})
}
