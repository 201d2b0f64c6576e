package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/venturehub/forum/config"
	"github.com/venturehub/forum/controllers"
	"github.com/venturehub/forum/middleware"
	"github.com/venturehub/forum/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	categoryController := controllers.NewCategoryController(db)
	topicController := controllers.NewTopicController(db)
	statsController := controllers.NewStatsController(db)
	searchController := controllers.NewSearchController(db)
	profileController := controllers.NewProfileController(db)

	api := r.Group("/api/v1")

	// Public reads
	api.GET("/index", statsController.ForumIndex)
	api.GET("/stats", statsController.GetStats)
	api.GET("/topics/trending", statsController.GetTrending)
	api.GET("/topics/recent", statsController.GetRecent)
	api.GET("/search", searchController.Search)
	api.GET("/categories", categoryController.ListRoots)
	api.GET("/categories/:slug", categoryController.GetCategory)
	api.GET("/topics/:slug", topicController.GetTopic)
	api.GET("/users/:username/profile", profileController.GetByUsername)

	// Authenticated mutations
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/categories", categoryController.CreateCategory)
	protected.PATCH("/categories/:id", categoryController.UpdateCategory)
	protected.DELETE("/categories/:id", categoryController.DeleteCategory)
	protected.POST("/categories/:slug/topics", topicController.CreateTopic)
	protected.POST("/topics/:slug/replies", topicController.Reply)
	protected.DELETE("/topics/:slug", topicController.DeleteTopic)
	protected.GET("/profile", profileController.GetOwn)
	protected.PATCH("/profile", profileController.UpdateProfile)
	protected.POST("/profile/avatar", profileController.UploadAvatar)
	protected.POST("/users/:id/reputation", profileController.AdjustReputation)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
