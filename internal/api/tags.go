package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// TagHandler serves tag CRUD. Like categories, reads are universal and
// writes are staff only.
type TagHandler struct {
	tags  *service.TagService
	authz *service.Authorizer
}

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// List returns all tags.
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(tags))
	for i := range tags {
		payload = append(payload, tagPayload(&tags[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one tag by slug.
func (h *TagHandler) Get(c *gin.Context) {
	tag, err := h.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagPayload(tag))
}

// Create adds a tag. Staff only.
func (h *TagHandler) Create(c *gin.Context) {
	if err := h.authz.CanMutateTag(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	tag, err := h.tags.Create(req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tagPayload(tag))
}

// Update renames a tag. Staff only.
func (h *TagHandler) Update(c *gin.Context) {
	if err := h.authz.CanMutateTag(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	tag, err := h.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	updated, err := h.tags.Update(tag.ID, req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagPayload(updated))
}

// Delete removes a tag. Staff only; refused while posts still carry it.
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.authz.CanMutateTag(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	tag, err := h.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.tags.Delete(tag.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func tagPayload(tag *db.Tag) gin.H {
	return gin.H{
		"id":   tag.ID,
		"name": tag.Name,
		"slug": tag.Slug,
	}
}
