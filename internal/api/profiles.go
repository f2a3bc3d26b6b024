package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// ProfileHandler serves the author and reader directories. Listing is
// restricted to authenticated actors; single profile reads are universal;
// writes are owner-only.
type ProfileHandler struct {
	profiles          *service.ProfileService
	authz             *service.Authorizer
	defaultProfileURL string
}

type authorUpdateRequest struct {
	Bio          *string `json:"bio"`
	Website      *string `json:"website"`
	ProfileImage *string `json:"profile_image"`
}

type readerUpdateRequest struct {
	Subscribed   *bool   `json:"subscribed"`
	ProfileImage *string `json:"profile_image"`
}

// ListAuthors returns every author profile.
func (h *ProfileHandler) ListAuthors(c *gin.Context) {
	if err := h.authz.CanListProfiles(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	profiles, err := h.profiles.ListAuthors()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		payload = append(payload, h.authorPayload(&profiles[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// GetAuthor returns one author profile. Reads are universal.
func (h *ProfileHandler) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetAuthor(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.authorPayload(profile))
}

// UpdateAuthor applies owner-submitted changes to an author profile.
func (h *ProfileHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetAuthor(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutateProfile(currentActor(c), profile.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	var req authorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	updated, err := h.profiles.UpdateAuthor(id, service.AuthorProfileInput{
		Bio:          req.Bio,
		Website:      req.Website,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.authorPayload(updated))
}

// ListReaders returns every reader profile.
func (h *ProfileHandler) ListReaders(c *gin.Context) {
	if err := h.authz.CanListProfiles(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	profiles, err := h.profiles.ListReaders()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		payload = append(payload, h.readerPayload(&profiles[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// GetReader returns one reader profile. Reads are universal.
func (h *ProfileHandler) GetReader(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetReader(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.readerPayload(profile))
}

// UpdateReader applies owner-submitted changes to a reader profile.
func (h *ProfileHandler) UpdateReader(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetReader(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authz.CanMutateProfile(currentActor(c), profile.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	var req readerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	updated, err := h.profiles.UpdateReader(id, service.ReaderProfileInput{
		Subscribed:   req.Subscribed,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.readerPayload(updated))
}

func (h *ProfileHandler) authorPayload(profile *db.AuthorProfile) gin.H {
	image := profile.ProfileImage
	if image == "" {
		image = h.defaultProfileURL
	}
	return gin.H{
		"id":            profile.ID,
		"username":      profile.User.Username,
		"bio":           profile.Bio,
		"website":       profile.Website,
		"profile_image": image,
		"verified":      profile.Verified,
		"total_posts":   profile.TotalPosts,
	}
}

func (h *ProfileHandler) readerPayload(profile *db.ReaderProfile) gin.H {
	image := profile.ProfileImage
	if image == "" {
		image = h.defaultProfileURL
	}
	return gin.H{
		"id":            profile.ID,
		"username":      profile.User.Username,
		"subscribed":    profile.Subscribed,
		"profile_image": image,
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid id."})
		return 0, false
	}
	return uint(id), true
}
