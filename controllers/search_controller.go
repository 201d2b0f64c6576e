package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// SearchController exposes substring search across topics and posts.
type SearchController struct {
	search *services.SearchService
}

// NewSearchController creates a new SearchController instance.
func NewSearchController(db *gorm.DB) *SearchController {
	return &SearchController{search: services.NewSearchService(db)}
}

// Search runs a case-insensitive substring search. An empty query returns
// an empty result set rather than an error.
func (s *SearchController) Search(ctx *gin.Context) {
	results, err := s.search.Search(ctx.Query("q"))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, results)
}
