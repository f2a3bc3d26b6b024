package db

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Post status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog article owned by exactly one author profile.
type Post struct {
	gorm.Model
	AuthorID   uint          `gorm:"not null;index" json:"author_id"`
	Author     AuthorProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	Slug       string        `gorm:"size:300;uniqueIndex" json:"slug"`
	Content    string        `gorm:"type:text" json:"content"`
	CoverImage string        `json:"cover_image,omitempty"`
	Status     string        `gorm:"size:10;default:draft;index" json:"status"`
	CategoryID *uint         `json:"category_id,omitempty"`
	Category   *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags       []Tag         `gorm:"many2many:post_tags" json:"tags,omitempty"`

	ViewsCount uint `gorm:"default:0" json:"views_count"`
	Likes      uint `gorm:"default:0" json:"likes"`
	Dislikes   uint `gorm:"default:0" json:"dislikes"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// BeforeSave derives the slug from the title when none was supplied and
// stamps PublishedAt the first time the post reaches published status.
// Re-saving an already published post keeps the original timestamp.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}

	if p.Status == StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	return nil
}

// IsPublished reports whether the post is visible to readers.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// TotalReactions returns the combined like and dislike count.
func (p *Post) TotalReactions() uint {
	return p.Likes + p.Dislikes
}
