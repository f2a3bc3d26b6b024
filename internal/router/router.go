package router

import (
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/api"
	"github.com/mammadov115/codeshift-blog/internal/config"
	"github.com/mammadov115/codeshift-blog/internal/handler"
	"gorm.io/gorm"
)

// Options controls optional router features that tests switch off.
type Options struct {
	LoadTemplates bool
}

// Setup configures the Gin engine with the session web surface and the
// JWT JSON API.
func Setup(gdb *gorm.DB, cfg config.AppConfig, opts Options) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("codeshift_session", store))

	if opts.LoadTemplates {
		r.SetFuncMap(template.FuncMap{
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		})
		r.LoadHTMLGlob("web/template/*.html")
		r.Static("/static", "./web/static")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// JSON API
	v1 := api.New(gdb, api.Options{
		JWTSecret:         cfg.JWTSecret,
		DefaultProfileURL: cfg.DefaultProfileURL,
	})
	v1.RegisterRoutes(r)

	// Web surface
	web := handler.NewWeb(gdb, cfg)

	r.GET("/login", web.ShowLoginPage)
	r.POST("/login", web.Login)
	r.GET("/signup", web.ShowSignupPage)
	r.POST("/signup", web.Signup)
	r.POST("/logout", web.Logout)

	auth := r.Group("")
	auth.Use(web.AuthRequired())
	{
		auth.GET("/profile", web.ShowProfilePage)
		auth.POST("/profile", web.UpdateProfile)
		auth.GET("/post-list/", web.ShowMyPosts)
		auth.GET("/create/", web.ShowCreatePage)
		auth.POST("/create/", web.CreatePost)
		auth.POST("/upload/image", web.UploadImage)
	}

	r.GET("/", web.ShowHome)
	r.GET("/:slug/", web.ShowPostDetail)
	r.POST("/:slug/", web.PostComment)
	r.GET("/:slug/edit/", web.ShowEditPage)
	r.POST("/:slug/edit/", web.UpdatePost)
	r.POST("/:slug/delete/", web.DeletePost)
	r.POST("/:slug/favorite", web.FavoritePost)
	r.POST("/:slug/unfavorite", web.UnfavoritePost)

	return r
}
