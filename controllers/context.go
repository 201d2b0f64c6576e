package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/venturehub/forum/middleware"
	"github.com/venturehub/forum/models"
	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// currentUser rebuilds the authenticated-user handle stored by the auth
// middleware. Returns nil for anonymous requests.
func currentUser(ctx *gin.Context) *models.User {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return nil
	}

	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case int:
		id = uint(v)
	case int64:
		id = uint(v)
	case float64:
		id = uint(v)
	default:
		return nil
	}

	user := &models.User{ID: id}
	if v, ok := ctx.Get(middleware.ContextUsernameKey); ok {
		user.Username, _ = v.(string)
	}
	if v, ok := ctx.Get(middleware.ContextIsStaffKey); ok {
		user.IsStaff, _ = v.(bool)
	}
	return user
}

// serviceError maps a forum-core error kind onto the JSON error envelope.
func serviceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		utils.Error(ctx, http.StatusForbidden, 40301, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, services.ErrTopicLocked):
		utils.Error(ctx, http.StatusLocked, 42301, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("unexpected service error: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
	}
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseLimit(limitStr string, def, most int) int {
	limit := def
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		limit = l
	}
	if limit > most {
		limit = most
	}
	return limit
}

func paginationPayload(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
