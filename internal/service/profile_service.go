package service

import (
	"errors"
	"strings"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// ProfileService maintains author and reader profile records.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// AuthorProfileInput holds the fields an author may edit on their profile.
// Nil pointers mean the field was not submitted and keeps its value.
type AuthorProfileInput struct {
	Bio          *string
	Website      *string
	ProfileImage *string
}

// ReaderProfileInput holds the fields a reader may edit on their profile.
type ReaderProfileInput struct {
	Subscribed   *bool
	ProfileImage *string
}

// ListAuthors returns all author profiles with their accounts loaded.
func (s *ProfileService) ListAuthors() ([]db.AuthorProfile, error) {
	var profiles []db.AuthorProfile
	if err := s.db.Preload("User").Order("id asc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetAuthor fetches a single author profile by id.
func (s *ProfileService) GetAuthor(id uint) (*db.AuthorProfile, error) {
	var profile db.AuthorProfile
	if err := s.db.Preload("User").First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetAuthorByUser fetches the author profile owned by userID.
func (s *ProfileService) GetAuthorByUser(userID uint) (*db.AuthorProfile, error) {
	var profile db.AuthorProfile
	if err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateAuthor applies the submitted fields to an author profile. The
// verified flag and post counter are not editable here; verification is an
// administrative action and the counter belongs to the recount.
func (s *ProfileService) UpdateAuthor(id uint, input AuthorProfileInput) (*db.AuthorProfile, error) {
	profile, err := s.GetAuthor(id)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Website != nil {
		profile.Website = strings.TrimSpace(*input.Website)
	}
	if input.ProfileImage != nil {
		profile.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ListReaders returns all reader profiles with their accounts loaded.
func (s *ProfileService) ListReaders() ([]db.ReaderProfile, error) {
	var profiles []db.ReaderProfile
	if err := s.db.Preload("User").Order("id asc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetReader fetches a single reader profile by id.
func (s *ProfileService) GetReader(id uint) (*db.ReaderProfile, error) {
	var profile db.ReaderProfile
	if err := s.db.Preload("User").First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetReaderByUser fetches the reader profile owned by userID.
func (s *ProfileService) GetReaderByUser(userID uint) (*db.ReaderProfile, error) {
	var profile db.ReaderProfile
	if err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateReader applies the submitted fields to a reader profile.
func (s *ProfileService) UpdateReader(id uint, input ReaderProfileInput) (*db.ReaderProfile, error) {
	profile, err := s.GetReader(id)
	if err != nil {
		return nil, err
	}

	if input.Subscribed != nil {
		profile.Subscribed = *input.Subscribed
	}
	if input.ProfileImage != nil {
		profile.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FavoritePost marks a post as a favorite of the reader. Adding the same
// post twice is a no-op.
func (s *ProfileService) FavoritePost(readerID, postID uint) error {
	profile, err := s.GetReader(readerID)
	if err != nil {
		return err
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Model(profile).Association("FavoritePosts").Append(&post)
}

// UnfavoritePost removes a post from the reader's favorites.
func (s *ProfileService) UnfavoritePost(readerID, postID uint) error {
	profile, err := s.GetReader(readerID)
	if err != nil {
		return err
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Model(profile).Association("FavoritePosts").Delete(&post)
}

// Favorites returns the reader's favorited posts. Order is not meaningful.
func (s *ProfileService) Favorites(readerID uint) ([]db.Post, error) {
	profile, err := s.GetReader(readerID)
	if err != nil {
		return nil, err
	}

	var posts []db.Post
	if err := s.db.Model(profile).Association("FavoritePosts").Find(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}
