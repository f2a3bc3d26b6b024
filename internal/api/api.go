package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/service"
	"gorm.io/gorm"
)

// API bundles the handlers for the /api/v1 surface.
type API struct {
	Accounts   *AccountHandler
	Profiles   *ProfileHandler
	Categories *CategoryHandler
	Tags       *TagHandler
	Posts      *PostHandler
	Comments   *CommentHandler

	tokens *TokenManager
	db     *gorm.DB
}

// Options carries the API-wide settings.
type Options struct {
	JWTSecret         string
	DefaultProfileURL string
}

// New wires the API handlers around a database handle.
func New(gdb *gorm.DB, opts Options) *API {
	tokens := NewTokenManager(opts.JWTSecret)
	authz := service.NewAuthorizer()

	return &API{
		Accounts: &AccountHandler{
			accounts:          service.NewAccountService(gdb),
			authz:             authz,
			tokens:            tokens,
			defaultProfileURL: opts.DefaultProfileURL,
		},
		Profiles: &ProfileHandler{
			profiles:          service.NewProfileService(gdb),
			authz:             authz,
			defaultProfileURL: opts.DefaultProfileURL,
		},
		Categories: &CategoryHandler{
			categories: service.NewCategoryService(gdb),
			authz:      authz,
		},
		Tags: &TagHandler{
			tags:  service.NewTagService(gdb),
			authz: authz,
		},
		Posts: &PostHandler{
			posts:    service.NewPostService(gdb),
			comments: service.NewCommentService(gdb),
			authz:    authz,
		},
		Comments: &CommentHandler{
			comments: service.NewCommentService(gdb),
			authz:    authz,
		},
		tokens: tokens,
		db:     gdb,
	}
}

// RegisterRoutes mounts the /api/v1 route tree on the router.
func (a *API) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.Use(ResolveActor(a.db, a.tokens))

	accounts := v1.Group("/accounts")
	{
		accounts.POST("/register/", a.Accounts.Register)
		accounts.POST("/login/", a.Accounts.Login)
		accounts.POST("/token/refresh/", a.Accounts.RefreshToken)

		accounts.GET("/authors/", a.Profiles.ListAuthors)
		accounts.GET("/authors/:id/", a.Profiles.GetAuthor)
		accounts.PUT("/authors/:id/", a.Profiles.UpdateAuthor)

		accounts.GET("/readers/", a.Profiles.ListReaders)
		accounts.GET("/readers/:id/", a.Profiles.GetReader)
		accounts.PUT("/readers/:id/", a.Profiles.UpdateReader)
	}

	blogs := v1.Group("/blogs")
	{
		blogs.GET("/categories/", a.Categories.List)
		blogs.POST("/categories/", a.Categories.Create)
		blogs.GET("/categories/:slug/", a.Categories.Get)
		blogs.PUT("/categories/:slug/", a.Categories.Update)
		blogs.DELETE("/categories/:slug/", a.Categories.Delete)

		blogs.GET("/tags/", a.Tags.List)
		blogs.POST("/tags/", a.Tags.Create)
		blogs.GET("/tags/:slug/", a.Tags.Get)
		blogs.PUT("/tags/:slug/", a.Tags.Update)
		blogs.DELETE("/tags/:slug/", a.Tags.Delete)

		blogs.GET("/posts/", a.Posts.List)
		blogs.POST("/posts/", a.Posts.Create)
		blogs.GET("/posts/:slug/", a.Posts.Get)
		blogs.PUT("/posts/:slug/", a.Posts.Update)
		blogs.DELETE("/posts/:slug/", a.Posts.Delete)

		blogs.GET("/posts/:slug/comments/", a.Comments.ListForPost)
		blogs.POST("/posts/:slug/comments/", a.Comments.Create)

		blogs.GET("/comments/:id/", a.Comments.Get)
		blogs.PUT("/comments/:id/", a.Comments.Update)
		blogs.DELETE("/comments/:id/", a.Comments.Delete)
	}
}

// respondServiceError maps service errors onto the API error contract:
// validation problems are 400 with a per-field map, permission problems
// are 403, missing resources are 404.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{err.Error()}})
	case errors.Is(err, service.ErrAlreadyAuthenticated),
		errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrCategoryExists),
		errors.Is(err, service.ErrTagExists),
		errors.Is(err, service.ErrTagInUse),
		errors.Is(err, service.ErrParentMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
