package db

import "gorm.io/gorm"

// Comment is a remark on a post, optionally replying to another comment.
// Replies form a tree through ParentID; deleting a parent removes its whole
// reply subtree via the cascade, and deleting the post removes everything.
type Comment struct {
	gorm.Model
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Post     Post   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`

	Replies []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

// IsParent reports whether this is a top-level comment.
func (c *Comment) IsParent() bool {
	return c.ParentID == nil
}
