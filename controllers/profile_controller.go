package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venturehub/forum/config"
	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

// ProfileController serves user profile pages and owner edits, including
// avatar uploads.
type ProfileController struct {
	profiles *services.ProfileService
	topics   *services.TopicService
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{
		profiles: services.NewProfileService(db),
		topics:   services.NewTopicService(db),
	}
}

// GetByUsername returns a user's public profile page: profile (lazily
// created on first access), recent topics, and recent posts.
func (p *ProfileController) GetByUsername(ctx *gin.Context) {
	user, err := p.profiles.UserByUsername(ctx.Param("username"))
	if err != nil {
		serviceError(ctx, err)
		return
	}

	profile, err := p.profiles.GetOrCreate(user.ID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	recentTopics, err := p.topics.ListByAuthor(user.ID, 5)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	recentPosts, err := p.topics.ListPostsByAuthor(user.ID, 10)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"profile":       profile,
		"recent_topics": recentTopics,
		"recent_posts":  recentPosts,
	})
}

// GetOwn returns the caller's profile and refreshes last_seen.
func (p *ProfileController) GetOwn(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	profile, err := p.profiles.GetOrCreate(user.ID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if err := p.profiles.TouchLastSeen(user.ID); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("touch last_seen failed user=%d err=%v", user.ID, err)
	}

	utils.Success(ctx, gin.H{"profile": profile})
}

// UpdateProfile applies owner edits to the caller's profile.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Bio       *string `json:"bio"`
		Location  *string `json:"location"`
		Website   *string `json:"website"`
		Wechat    *string `json:"wechat"`
		Signature *string `json:"signature"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	in := services.UpdateProfileInput{}
	if req.Bio != nil {
		v := utils.Sanitize(*req.Bio)
		in.Bio = &v
	}
	if req.Location != nil {
		v := utils.StripTags(*req.Location)
		in.Location = &v
	}
	if req.Website != nil {
		v := utils.StripTags(*req.Website)
		in.Website = &v
	}
	if req.Wechat != nil {
		v := utils.StripTags(*req.Wechat)
		in.Wechat = &v
	}
	if req.Signature != nil {
		v := utils.StripTags(*req.Signature)
		in.Signature = &v
	}

	profile, err := p.profiles.Update(user, user.ID, in)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"profile": profile})
}

// UploadAvatar stores an avatar image and points the caller's profile at it.
func (p *ProfileController) UploadAvatar(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.AvatarMaxSizeMB) * 1024 * 1024
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40042, fmt.Sprintf("file size exceeds %dMB", cfg.AvatarMaxSizeMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40043, "unsupported image type")
		return
	}

	baseDir := filepath.Join(cfg.UploadDir, "avatars")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create upload directory")
		return
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)
	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40042, fmt.Sprintf("file size exceeds %dMB", cfg.AvatarMaxSizeMB))
		return
	}

	avatarURL := "/static/uploads/avatars/" + name
	profile, err := p.profiles.Update(user, user.ID, services.UpdateProfileInput{AvatarURL: &avatarURL})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"url": avatarURL, "profile": profile})
}

// AdjustReputation moves a user's reputation by a delta. Staff only.
func (p *ProfileController) AdjustReputation(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid user id")
		return
	}

	var req struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid request payload")
		return
	}

	profile, err := p.profiles.AdjustReputation(currentUser(ctx), uint(id), *req.Delta)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"profile": profile})
}
