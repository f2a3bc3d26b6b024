package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// CommentHandler serves comment CRUD. Reading is universal, creating
// requires authentication, and edits/deletes are limited to the owner,
// staff, or a superuser.
type CommentHandler struct {
	comments *service.CommentService
	authz    *service.Authorizer
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// ListForPost returns a post's top-level comments with nested replies.
// The post is addressed by numeric id under /posts/<post_id>/comments/.
func (h *CommentHandler) ListForPost(c *gin.Context) {
	postID, ok := parsePostIDParam(c)
	if !ok {
		return
	}

	comments, err := h.comments.ListForPost(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(comments))
	for i := range comments {
		payload = append(payload, commentPayload(&comments[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// Create adds a comment, or a reply when parent_id is set.
func (h *CommentHandler) Create(c *gin.Context) {
	actor := currentActor(c)
	if err := h.authz.CanCreateComment(actor); err != nil {
		respondServiceError(c, err)
		return
	}

	postID, ok := parsePostIDParam(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	comment, err := h.comments.Create(service.CommentInput{
		PostID:   postID,
		UserID:   actor.User.ID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentPayload(comment))
}

// Get returns one comment with its direct replies.
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.comments.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentPayload(comment))
}

// Update replaces a comment's content.
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.comments.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutateComment(currentActor(c), comment); err != nil {
		respondServiceError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	updated, err := h.comments.Update(id, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentPayload(updated))
}

// Delete removes a comment along with its reply subtree.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.comments.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutateComment(currentActor(c), comment); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.comments.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parsePostIDParam reads the numeric post id from the shared :slug path
// segment of the /posts routes.
func parsePostIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("slug")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid post id."})
		return 0, false
	}
	return uint(id), true
}

func commentPayload(comment *db.Comment) gin.H {
	replies := make([]gin.H, 0, len(comment.Replies))
	for i := range comment.Replies {
		replies = append(replies, gin.H{
			"id":         comment.Replies[i].ID,
			"post_id":    comment.Replies[i].PostID,
			"user":       comment.Replies[i].User.Username,
			"content":    comment.Replies[i].Content,
			"parent_id":  comment.Replies[i].ParentID,
			"created_at": comment.Replies[i].CreatedAt,
		})
	}

	return gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"user":       comment.User.Username,
		"content":    comment.Content,
		"parent_id":  comment.ParentID,
		"replies":    replies,
		"created_at": comment.CreatedAt,
		"updated_at": comment.UpdatedAt,
	}
}
