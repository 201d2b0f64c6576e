package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/venturehub/forum/models"
)

// CategoryService manages the hierarchical category tree. Categories are an
// adjacency-list forest: each node keeps a nullable parent reference and
// subtree queries walk the parent links iteratively.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategoryInput carries the admin-supplied fields for a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
	SortOrder   int
}

// Create inserts a category with a slug derived from its name. Slug
// collisions are resolved with an incrementing numeric suffix.
func (s *CategoryService) Create(in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}

	if in.ParentID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *in.ParentID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *in.ParentID)
		}
	}

	categorySlug, err := uniqueSlug(s.db, &models.Category{}, name, "category")
	if err != nil {
		return nil, err
	}

	category := models.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: in.Description,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
		IsActive:    true,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategoryInput carries optional admin edits; nil fields are left
// untouched. ClearParent promotes the category to a root.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	SortOrder   *int
	IsActive    *bool
	ParentID    *uint
	ClearParent bool
}

// Update applies admin edits. Reparenting refuses the node itself and any
// of its descendants as the new parent so the forest stays cycle-free.
func (s *CategoryService) Update(id uint, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if *in.ParentID == id {
			return nil, fmt.Errorf("%w: category cannot be its own parent", ErrValidation)
		}
		subtree, err := s.subtreeIDs(id)
		if err != nil {
			return nil, err
		}
		for _, sid := range subtree {
			if sid == *in.ParentID {
				return nil, fmt.Errorf("%w: new parent %d is a descendant of category %d", ErrValidation, *in.ParentID, id)
			}
		}
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *in.ParentID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *in.ParentID)
		}
		category.ParentID = in.ParentID
	} else if in.ClearParent {
		category.ParentID = nil
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.SortOrder != nil {
		category.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Get loads a category by id.
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug loads an active category by slug.
func (s *CategoryService) GetBySlug(categorySlug string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("slug = ? AND is_active = ?", categorySlug, true).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, categorySlug)
		}
		return nil, err
	}
	return &category, nil
}

// ChildrenOf returns the direct children of a category ordered by
// (sort_order, name).
func (s *CategoryService) ChildrenOf(id uint) ([]models.Category, error) {
	var children []models.Category
	err := s.db.Where("parent_id = ?", id).Order("sort_order, name").Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// ActiveRoots returns top-level active categories ordered by sort_order,
// then name.
func (s *CategoryService) ActiveRoots() ([]models.Category, error) {
	var roots []models.Category
	err := s.db.Where("parent_id IS NULL AND is_active = ?", true).Order("sort_order, name").Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// TopicCount recomputes the number of active topics scoped under the
// category's whole subtree. No caching: topic churn outpaces category edits.
func (s *CategoryService) TopicCount(id uint) (int64, error) {
	ids, err := s.subtreeIDs(id)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.Model(&models.Topic{}).
		Where("category_id IN ? AND is_active = ?", ids, true).
		Count(&count).Error
	return count, err
}

// PostCount recomputes the number of active posts across the active topics
// in the category's subtree.
func (s *CategoryService) PostCount(id uint) (int64, error) {
	ids, err := s.subtreeIDs(id)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.Model(&models.Post{}).
		Joins("JOIN topics ON topics.id = posts.topic_id").
		Where("topics.category_id IN ? AND posts.is_active = ?", ids, true).
		Count(&count).Error
	return count, err
}

// Delete hard-deletes the category, every descendant category, and every
// topic (with its posts) scoped to any of them, in one transaction. Unlike
// topic soft-deletion this is irreversible.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	ids, err := s.subtreeIDs(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var topicIDs []uint
		if err := tx.Model(&models.Topic{}).Where("category_id IN ?", ids).Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		if len(topicIDs) > 0 {
			if err := tx.Where("topic_id IN ?", topicIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", topicIDs).Delete(&models.Topic{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id IN ?", ids).Delete(&models.Category{}).Error
	})
}

// subtreeIDs collects the category id and every descendant id with an
// iterative breadth-first walk over parent links. The seen set guards
// against malformed data containing a cycle.
func (s *CategoryService) subtreeIDs(id uint) ([]uint, error) {
	ids := []uint{id}
	seen := map[uint]bool{id: true}
	frontier := []uint{id}

	for len(frontier) > 0 {
		var next []uint
		if err := s.db.Model(&models.Category{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, cid := range next {
			if seen[cid] {
				continue
			}
			seen[cid] = true
			ids = append(ids, cid)
			frontier = append(frontier, cid)
		}
	}
	return ids, nil
}
