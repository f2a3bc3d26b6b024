package db

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category groups posts by broad topic. Deleting a category detaches its
// posts instead of deleting them.
type Category struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null" json:"name"`
	Slug string `gorm:"size:120;uniqueIndex" json:"slug"`

	Posts []Post `json:"-"`
}

// BeforeSave derives the slug from the name when none was supplied.
// An explicit slug is kept verbatim.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
