package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// PostHandler serves post CRUD. Reads are universal; creation requires a
// verified author and updates/deletes require the owning author.
type PostHandler struct {
	posts    *service.PostService
	comments *service.CommentService
	authz    *service.Authorizer
}

type postRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	CoverImage string `json:"cover_image"`
	Status     string `json:"status"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
}

// List returns published posts, filterable by search term and category
// slug. Authors may pass mine=1 to list their own posts in any status.
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))

	filter := service.PostFilter{
		Search:       c.Query("query"),
		CategorySlug: c.Query("category"),
		Status:       db.StatusPublished,
		Page:         page,
	}

	if c.Query("mine") == "1" {
		actor := currentActor(c)
		if actor.Author == nil {
			respondServiceError(c, service.ErrForbidden)
			return
		}
		filter.AuthorID = actor.Author.ID
		filter.Status = ""
	}

	result, err := h.posts.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(result.Posts))
	for i := range result.Posts {
		payload = append(payload, postPayload(&result.Posts[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"results":     payload,
	})
}

// Get returns one post by slug.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postPayload(post))
}

// Create adds a post for the requesting verified author.
func (h *PostHandler) Create(c *gin.Context) {
	actor := currentActor(c)
	if err := h.authz.CanCreatePost(actor); err != nil {
		respondServiceError(c, err)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	post, err := h.posts.Create(service.PostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
		AuthorID:   actor.Author.ID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, postPayload(post))
}

// Update applies changes to a post owned by the requesting author.
func (h *PostHandler) Update(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutatePost(currentActor(c), post); err != nil {
		respondServiceError(c, err)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	updated, err := h.posts.Update(post.ID, service.PostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
		AuthorID:   post.AuthorID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postPayload(updated))
}

// Delete removes a post owned by the requesting author.
func (h *PostHandler) Delete(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutatePost(currentActor(c), post); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func postPayload(post *db.Post) gin.H {
	tags := make([]gin.H, 0, len(post.Tags))
	for i := range post.Tags {
		tags = append(tags, gin.H{
			"id":   post.Tags[i].ID,
			"name": post.Tags[i].Name,
			"slug": post.Tags[i].Slug,
		})
	}

	payload := gin.H{
		"id":              post.ID,
		"title":           post.Title,
		"slug":            post.Slug,
		"content":         post.Content,
		"cover_image":     post.CoverImage,
		"status":          post.Status,
		"author":          post.Author.User.Username,
		"author_id":       post.AuthorID,
		"tags":            tags,
		"views_count":     post.ViewsCount,
		"likes":           post.Likes,
		"dislikes":        post.Dislikes,
		"total_reactions": post.TotalReactions(),
		"created_at":      post.CreatedAt,
		"updated_at":      post.UpdatedAt,
		"published_at":    post.PublishedAt,
	}

	if post.Category != nil {
		payload["category"] = categoryPayload(post.Category)
	}

	return payload
}
