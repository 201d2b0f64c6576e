package services

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// maxSlugAttempts bounds the collision suffix loop; exhausting it reports a
// validation error rather than spinning forever.
const maxSlugAttempts = 100

// uniqueSlug derives a URL-safe slug from title and appends an incrementing
// numeric suffix until no row of model carries it.
func uniqueSlug(db *gorm.DB, model interface{}, title, fallback string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = fallback
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		var count int64
		if err := db.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: could not derive a unique slug from %q", ErrValidation, title)
}
