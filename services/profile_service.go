package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
)

// ProfileService manages forum user profiles. Profiles are created lazily
// on first access and only ever edited by their owner (reputation excepted,
// which is a staff operation).
//
// The stored post_count column is denormalized and NOT maintained on the
// post write path. Policy: recompute from active posts on every profile
// read and write the fresh value back, so a stale value self-heals the next
// time anyone looks at the profile. Cascading topic soft-deletes therefore
// need no profile bookkeeping at all.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// UserByUsername resolves the identity handle for a public profile page.
func (s *ProfileService) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreate returns the user's profile, creating an empty one on first
// access. The denormalized post_count is refreshed from the store before
// returning.
func (s *ProfileService) GetOrCreate(userID uint) (*models.UserProfile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	var profile models.UserProfile
	err := s.db.Where(models.UserProfile{UserID: userID}).
		Attrs(models.UserProfile{LastSeen: time.Now()}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}

	var posts int64
	err = s.db.Model(&models.Post{}).
		Where("author_id = ? AND is_active = ?", userID, true).
		Count(&posts).Error
	if err != nil {
		return nil, err
	}
	if posts != profile.PostCount {
		profile.PostCount = posts
		if err := s.db.Model(&profile).UpdateColumn("post_count", posts).Error; err != nil {
			return nil, err
		}
	}

	profile.User = user
	return &profile, nil
}

// UpdateProfileInput carries owner-editable profile fields; nil means
// unchanged.
type UpdateProfileInput struct {
	Bio       *string
	Location  *string
	Website   *string
	Wechat    *string
	AvatarURL *string
	Signature *string
}

// Update applies profile edits. Only the owning user may edit their
// profile.
func (s *ProfileService) Update(actor *models.User, userID uint, in UpdateProfileInput) (*models.UserProfile, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required to edit a profile", ErrPermissionDenied)
	}
	if actor.ID != userID {
		return nil, fmt.Errorf("%w: profiles can only be edited by their owner", ErrPermissionDenied)
	}

	profile, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.Wechat != nil {
		profile.Wechat = *in.Wechat
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = *in.AvatarURL
	}
	if in.Signature != nil {
		profile.Signature = *in.Signature
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// AdjustReputation moves a user's reputation by delta. Staff only.
func (s *ProfileService) AdjustReputation(actor *models.User, userID uint, delta int) (*models.UserProfile, error) {
	if actor == nil || !actor.IsStaff {
		return nil, fmt.Errorf("%w: reputation adjustments are staff-only", ErrPermissionDenied)
	}
	profile, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	err = s.db.Model(profile).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
	if err != nil {
		return nil, err
	}
	profile.Reputation += delta
	return profile, nil
}

// TouchLastSeen records profile activity. Best effort: missing profiles are
// created lazily elsewhere and a failed touch is not worth failing a
// request over, so callers usually ignore the error.
func (s *ProfileService) TouchLastSeen(userID uint) error {
	return s.db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("last_seen", time.Now()).Error
}
