package db

import "gorm.io/gorm"

// AuthorProfile extends a User who writes posts.
//
// TotalPosts is a cache of the author's published post count. It is only
// ever written by the recount in the post service, never adjusted in place.
type AuthorProfile struct {
	gorm.Model
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bio          string `gorm:"type:text" json:"bio"`
	Website      string `json:"website,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Verified     bool   `gorm:"default:false" json:"verified"`
	TotalPosts   uint   `gorm:"default:0" json:"total_posts"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"-"`
}

// ReaderProfile extends a User who reads and favorites posts.
type ReaderProfile struct {
	gorm.Model
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Subscribed   bool   `gorm:"default:false" json:"subscribed"`
	ProfileImage string `json:"profile_image,omitempty"`

	FavoritePosts []Post `gorm:"many2many:reader_favorites" json:"-"`
}
