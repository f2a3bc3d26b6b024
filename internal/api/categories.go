package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// CategoryHandler serves category CRUD. Reads are universal; every write
// is gated on staff.
type CategoryHandler struct {
	categories *service.CategoryService
	authz      *service.Authorizer
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// List returns all categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(categories))
	for i := range categories {
		payload = append(payload, categoryPayload(&categories[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one category by slug.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryPayload(category))
}

// Create adds a category. Staff only.
func (h *CategoryHandler) Create(c *gin.Context) {
	if err := h.authz.CanMutateCategory(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	category, err := h.categories.Create(req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryPayload(category))
}

// Update renames a category. Staff only.
func (h *CategoryHandler) Update(c *gin.Context) {
	if err := h.authz.CanMutateCategory(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	category, err := h.categories.Update(c.Param("slug"), req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryPayload(category))
}

// Delete removes a category. Staff only; posts keep living without it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.authz.CanMutateCategory(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.categories.Delete(c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func categoryPayload(category *db.Category) gin.H {
	return gin.H{
		"id":   category.ID,
		"name": category.Name,
		"slug": category.Slug,
	}
}
