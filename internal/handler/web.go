package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/config"
	"github.com/mammadov115/codeshift-blog/internal/service"
	"gorm.io/gorm"
)

const sessionUserKey = "user_id"

// Web bundles shared dependencies for the session-authenticated HTML
// surface.
type Web struct {
	db         *gorm.DB
	accounts   *service.AccountService
	profiles   *service.ProfileService
	categories *service.CategoryService
	tags       *service.TagService
	posts      *service.PostService
	comments   *service.CommentService
	authz      *service.Authorizer
	cfg        config.AppConfig
}

// NewWeb constructs the web handler set with shared services.
func NewWeb(gdb *gorm.DB, cfg config.AppConfig) *Web {
	return &Web{
		db:         gdb,
		accounts:   service.NewAccountService(gdb),
		profiles:   service.NewProfileService(gdb),
		categories: service.NewCategoryService(gdb),
		tags:       service.NewTagService(gdb),
		posts:      service.NewPostService(gdb),
		comments:   service.NewCommentService(gdb),
		authz:      service.NewAuthorizer(),
		cfg:        cfg,
	}
}

// currentActor resolves the session's account into an Actor. A missing or
// stale session yields the anonymous actor.
func (w *Web) currentActor(c *gin.Context) service.Actor {
	session := sessions.Default(c)
	raw := session.Get(sessionUserKey)
	userID, ok := raw.(uint)
	if !ok {
		return service.Anonymous()
	}

	actor, err := service.ResolveActor(w.db, userID)
	if err != nil {
		return service.Anonymous()
	}
	return actor
}

// AuthRequired redirects unauthenticated visitors to the login page.
func (w *Web) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserKey) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// renderHTML renders a template with the actor's identity merged in so
// every page can show login state.
func (w *Web) renderHTML(c *gin.Context, status int, name string, data gin.H) {
	actor := w.currentActor(c)
	if data == nil {
		data = gin.H{}
	}
	if actor.IsAuthenticated() {
		data["currentUser"] = actor.User.Username
		data["isAuthor"] = actor.Author != nil
		data["isReader"] = actor.Reader != nil
	}
	c.HTML(status, name, data)
}
