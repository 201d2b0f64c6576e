package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// StatsController serves the derived views: forum-wide counters, trending
// and recent topic lists, and the combined index payload.
type StatsController struct {
	ranking    *services.RankingService
	categories *services.CategoryService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		ranking:    services.NewRankingService(db),
		categories: services.NewCategoryService(db),
	}
}

// GetStats returns aggregate statistics for the forum.
func (s *StatsController) GetStats(ctx *gin.Context) {
	totals, err := s.ranking.TotalCounts()
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, totals)
}

// GetTrending returns active topics ranked by popularity score.
func (s *StatsController) GetTrending(ctx *gin.Context) {
	limit := parseLimit(ctx.Query("limit"), 10, 50)
	topics, err := s.ranking.Trending(limit)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": topics})
}

// GetRecent returns the newest active topics.
func (s *StatsController) GetRecent(ctx *gin.Context) {
	limit := parseLimit(ctx.Query("limit"), 10, 50)
	topics, err := s.ranking.Recent(limit)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": topics})
}

// ForumIndex returns the homepage payload: active root categories, recent
// and trending topics, and global counters, cached briefly as one unit.
func (s *StatsController) ForumIndex(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:forum:index"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	roots, err := s.categories.ActiveRoots()
	if err != nil {
		serviceError(ctx, err)
		return
	}
	recent, err := s.ranking.Recent(10)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	trending, err := s.ranking.Trending(10)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	totals, err := s.ranking.TotalCounts()
	if err != nil {
		serviceError(ctx, err)
		return
	}

	payload := gin.H{
		"categories":      roots,
		"recent_topics":   recent,
		"trending_topics": trending,
		"totals":          totals,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:forum:index", wrapper, 0)
	utils.Success(ctx, payload)
}
