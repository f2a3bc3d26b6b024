package service

import (
	"errors"
	"strings"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// ErrParentMismatch is returned when a reply's parent belongs to another post.
var ErrParentMismatch = errors.New("parent comment belongs to a different post")

// CommentService wraps comment related operations. Comments form a tree
// through the parent reference; direct replies are always returned in
// creation order.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentInput carries the fields for a new comment.
type CommentInput struct {
	PostID   uint
	UserID   uint
	Content  string
	ParentID *uint
}

// Create adds a comment to a post, optionally as a reply to an existing
// comment on the same post.
func (s *CommentService) Create(input CommentInput) (*db.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, NewValidationError("content", "This field is required.")
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentMismatch
		}
	}

	comment := db.Comment{
		PostID:   input.PostID,
		UserID:   input.UserID,
		Content:  content,
		ParentID: input.ParentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return s.Get(comment.ID)
}

// Get fetches a comment with its account and direct replies loaded.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	err := s.db.
		Preload("User").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc")
		}).
		Preload("Replies.User").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns the top-level comments of a post in creation order,
// each with its direct replies nested.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var comments []db.Comment
	err := s.db.
		Preload("User").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc")
		}).
		Preload("Replies.User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update replaces the comment's content.
func (s *CommentService) Update(id uint, content string) (*db.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValidationError("content", "This field is required.")
	}

	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}

	return s.Get(comment.ID)
}

// Delete removes a comment. The database cascade takes the whole reply
// subtree with it.
func (s *CommentService) Delete(id uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return s.db.Unscoped().Delete(&comment).Error
}
