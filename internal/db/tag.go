package db

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Tag is a free-form label attached to posts.
type Tag struct {
	gorm.Model
	Name string `gorm:"size:50;unique;not null" json:"name"`
	Slug string `gorm:"size:70;uniqueIndex" json:"slug"`

	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}

// BeforeSave derives the slug from the name when none was supplied.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	return nil
}
