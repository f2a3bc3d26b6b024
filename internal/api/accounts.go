package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// AccountHandler serves registration, login, and token refresh.
type AccountHandler struct {
	accounts          *service.AccountService
	authz             *service.Authorizer
	tokens            *TokenManager
	defaultProfileURL string
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register creates an account plus its role profile. Only anonymous
// actors may register.
func (h *AccountHandler) Register(c *gin.Context) {
	if err := h.authz.RequireAnonymous(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	user, err := h.accounts.Register(service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "User registered successfully.",
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// Login verifies credentials and hands out the access/refresh pair along
// with the account's role summary.
func (h *AccountHandler) Login(c *gin.Context) {
	if err := h.authz.RequireAnonymous(currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	user, err := h.accounts.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue tokens."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"is_author":     user.AuthorProfile != nil,
		"is_reader":     user.ReaderProfile != nil,
		"profile_image": h.profileImageOf(user),
		"access":        access,
		"refresh":       refresh,
	})
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *AccountHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Refresh token is required."})
		return
	}

	claims, err := h.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired."})
		return
	}

	user, err := h.accounts.Get(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired."})
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue tokens."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

func (h *AccountHandler) profileImageOf(user *db.User) string {
	switch {
	case user.AuthorProfile != nil && user.AuthorProfile.ProfileImage != "":
		return user.AuthorProfile.ProfileImage
	case user.ReaderProfile != nil && user.ReaderProfile.ProfileImage != "":
		return user.ReaderProfile.ProfileImage
	default:
		return h.defaultProfileURL
	}
}
