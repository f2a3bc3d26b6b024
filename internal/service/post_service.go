package service

import (
	"errors"
	"log"
	"strings"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// PostService wraps post related database operations and keeps the
// author's published-post counter in sync with every write.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search       string
	CategorySlug string
	Status       string
	AuthorID     uint
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PostInput represents fields accepted when creating or updating a post.
// A nil CategoryID clears the category; an empty Slug derives one from the
// title at the model layer.
type PostInput struct {
	Title      string
	Slug       string
	Content    string
	CoverImage string
	Status     string
	CategoryID *uint
	TagIDs     []uint
	AuthorID   uint
}

// List returns posts matching the filter, newest first. The search term
// matches title, content, and category name, mirroring the public search.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}

	query := s.db.Model(&db.Post{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.
			Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.title LIKE ? OR posts.content LIKE ? OR categories.name LIKE ?", like, like, like)
	}

	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("posts.category_id IN (?)",
			s.db.Model(&db.Category{}).Select("id").Where("slug = ?", slug))
	}

	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []db.Post
	if err := query.
		Preload("Tags").Preload("Category").Preload("Author.User").
		Order("posts.created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &PostListResult{
		Posts:      posts,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// GetBySlug fetches a post by slug with its associations loaded.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	err := s.db.
		Preload("Tags").Preload("Category").Preload("Author.User").
		Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post, associates its tags, and recounts the author's
// published posts, all in one transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, NewValidationError("title", "Title and content cannot be empty.")
	}

	status := input.Status
	if status == "" {
		status = db.StatusDraft
	}
	if status != db.StatusDraft && status != db.StatusPublished {
		return nil, NewValidationError("status", "Status must be draft or published.")
	}

	post := db.Post{
		AuthorID:   input.AuthorID,
		Title:      title,
		Slug:       strings.TrimSpace(input.Slug),
		Content:    content,
		CoverImage: input.CoverImage,
		Status:     status,
		CategoryID: input.CategoryID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, &post, input.TagIDs); err != nil {
			return err
		}
		s.syncAuthorTotalPosts(tx, post.AuthorID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(post.Slug)
}

// Update applies changes to an existing post. The recount runs on every
// update, whether or not the status changed; assuming knowledge of the
// prior state would reintroduce drift.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, NewValidationError("title", "Title and content cannot be empty.")
	}

	if input.Status != "" {
		if input.Status != db.StatusDraft && input.Status != db.StatusPublished {
			return nil, NewValidationError("status", "Status must be draft or published.")
		}
		existing.Status = input.Status
	}

	existing.Title = title
	existing.Content = content
	existing.CategoryID = input.CategoryID
	if input.CoverImage != "" {
		existing.CoverImage = input.CoverImage
	}
	if trimmed := strings.TrimSpace(input.Slug); trimmed != "" {
		existing.Slug = trimmed
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		if input.TagIDs != nil {
			if err := s.replaceTags(tx, &existing, input.TagIDs); err != nil {
				return err
			}
		}
		s.syncAuthorTotalPosts(tx, existing.AuthorID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(existing.Slug)
}

// Delete removes a post and recounts the author's published posts.
func (s *PostService) Delete(id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("Tags").Unscoped().Delete(&post).Error; err != nil {
			return err
		}
		s.syncAuthorTotalPosts(tx, post.AuthorID)
		return nil
	})
}

// IncrementViews bumps the view counter without touching timestamps.
// It is a read-path side effect and does not trigger the recount.
func (s *PostService) IncrementViews(id uint) error {
	return s.db.Model(&db.Post{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// syncAuthorTotalPosts recomputes the author's published-post count from
// the posts table and persists it. Always a full recount: an increment or
// decrement would drift across status transitions and concurrent writers,
// while the recount is idempotent and self-correcting.
//
// A failed recount never fails the post write that triggered it; the error
// is logged and the next write re-derives the counter anyway.
func (s *PostService) syncAuthorTotalPosts(tx *gorm.DB, authorID uint) {
	var total int64
	if err := tx.Model(&db.Post{}).
		Where("author_id = ? AND status = ?", authorID, db.StatusPublished).
		Count(&total).Error; err != nil {
		log.Printf("sync total_posts for author %d: count failed: %v", authorID, err)
		return
	}

	if err := tx.Model(&db.AuthorProfile{}).
		Where("id = ?", authorID).
		Update("total_posts", total).Error; err != nil {
		log.Printf("sync total_posts for author %d: update failed: %v", authorID, err)
	}
}

func (s *PostService) replaceTags(tx *gorm.DB, post *db.Post, tagIDs []uint) error {
	if tagIDs == nil {
		return nil
	}

	var tags []db.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}

	return tx.Model(post).Association("Tags").Replace(tags)
}
