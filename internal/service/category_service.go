package service

import (
	"errors"
	"strings"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// ErrCategoryExists is returned when a category name is already taken.
var ErrCategoryExists = errors.New("category already exists")

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches a category by its slug.
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category. The slug is derived from the name unless
// one is supplied explicitly.
func (s *CategoryService) Create(name, slug string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "This field is required.")
	}

	var existing db.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name, Slug: strings.TrimSpace(slug)}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update renames a category while keeping uniqueness. The slug stays
// stable unless a new one is submitted.
func (s *CategoryService) Update(slug, name, newSlug string) (*db.Category, error) {
	category, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "This field is required.")
	}

	var existing db.Category
	if err := s.db.Where("name = ? AND id <> ?", name, category.ID).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	if trimmed := strings.TrimSpace(newSlug); trimmed != "" {
		category.Slug = trimmed
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Posts referencing it survive with a null
// category, enforced by the SET NULL constraint.
func (s *CategoryService) Delete(slug string) error {
	category, err := s.GetBySlug(slug)
	if err != nil {
		return err
	}
	return s.db.Unscoped().Delete(category).Error
}
