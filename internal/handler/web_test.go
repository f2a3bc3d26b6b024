package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/mammadov115/codeshift-blog/internal/config"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct{}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	return &stubHTMLInstance{name: name, data: data}
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func setupWebTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:web-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(db.ForeignKeyDSN(dsn)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := config.AppConfig{
		SessionSecret:     "test-secret",
		DefaultProfileURL: "/static/images/default_profile.png",
		UploadDir:         t.TempDir(),
		UploadURLPath:     "/media",
	}
	web := NewWeb(gdb, cfg)

	r := gin.New()
	r.HTMLRender = &stubHTMLRender{}
	r.Use(sessions.Sessions("codeshift_session", cookie.NewStore([]byte(cfg.SessionSecret))))

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
	}

	r.GET("/", web.ShowHome)
	r.GET("/:slug/", web.ShowPostDetail)
	r.POST("/:slug/", web.PostComment)
	r.GET("/:slug/edit/", web.ShowEditPage)
	r.POST("/:slug/edit/", web.UpdatePost)
	r.POST("/:slug/delete/", web.DeletePost)
	r.POST("/:slug/favorite", web.FavoritePost)
	r.POST("/:slug/unfavorite", web.UnfavoritePost)

	return r, gdb
}

func postForm(r *gin.Engine, path, sessionCookie string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionCookie != "" {
		req.Header.Set("Cookie", sessionCookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPage(r *gin.Engine, path, sessionCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionCookie != "" {
		req.Header.Set("Cookie", sessionCookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerWebUser creates an account straight through the service layer and
// logs in over the form to collect the session cookie.
func registerWebUser(t *testing.T, r *gin.Engine, gdb *gorm.DB, username, role string) string {
	t.Helper()

	_, err := service.NewAccountService(gdb).Register(service.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "StrongPass123",
		ConfirmPassword: "StrongPass123",
		Role:            role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return loginWebUser(t, r, username)
}

func loginWebUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := postForm(r, "/login", "", url.Values{
		"username": {username},
		"password": {"StrongPass123"},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("login %s: expected redirect, got %d", username, w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login %s: no session cookie issued", username)
	}
	return cookies[0].Name + "=" + cookies[0].Value
}

func verifyWebAuthor(t *testing.T, gdb *gorm.DB, username string) *db.AuthorProfile {
	t.Helper()
	var user db.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if err := gdb.Model(&db.AuthorProfile{}).Where("user_id = ?", user.ID).Update("verified", true).Error; err != nil {
		t.Fatalf("verify author: %v", err)
	}
	var profile db.AuthorProfile
	if err := gdb.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return &profile
}

func TestSignupOpensSessionAndProvisionsProfile(t *testing.T) {
	r, gdb := setupWebTest(t)

	w := postForm(r, "/signup", "", url.Values{
		"username":  {"form_reader"},
		"email":     {"form_reader@example.com"},
		"password1": {"StrongPass123"},
		"password2": {"StrongPass123"},
		"role":      {db.RoleReader},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after signup, got %d: %s", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatalf("signup should open a session")
	}

	var user db.User
	if err := gdb.Preload("ReaderProfile").Where("username = ?", "form_reader").First(&user).Error; err != nil {
		t.Fatalf("signup did not create the account: %v", err)
	}
	if user.ReaderProfile == nil {
		t.Fatalf("signup must provision the reader profile")
	}
}

func TestSignupMismatchedPasswordsRejected(t *testing.T) {
	r, gdb := setupWebTest(t)

	w := postForm(r, "/signup", "", url.Values{
		"username":  {"mismatch"},
		"email":     {"mismatch@example.com"},
		"password1": {"StrongPass123"},
		"password2": {"Different123"},
		"role":      {db.RoleReader},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var count int64
	gdb.Model(&db.User{}).Where("username = ?", "mismatch").Count(&count)
	if count != 0 {
		t.Fatalf("failed signup must not create an account")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, gdb := setupWebTest(t)
	registerWebUser(t, r, gdb, "careful_user", db.RoleReader)

	w := postForm(r, "/login", "", url.Values{
		"username": {"careful_user"},
		"password": {"WrongPass123"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad credentials, got %d", w.Code)
	}
}

func TestAuthRequiredRedirectsToLogin(t *testing.T) {
	r, _ := setupWebTest(t)

	w := getPage(r, "/create/", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestProfilePageRequiresSession(t *testing.T) {
	r, gdb := setupWebTest(t)
	cookie := registerWebUser(t, r, gdb, "profiled", db.RoleReader)

	w := getPage(r, "/profile", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", w.Code)
	}

	w = getPage(r, "/profile", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect without session, got %d", w.Code)
	}
}

func TestLogoutClosesSession(t *testing.T) {
	r, gdb := setupWebTest(t)
	cookie := registerWebUser(t, r, gdb, "leaving", db.RoleReader)

	w := postForm(r, "/logout", cookie, url.Values{})
	if w.Code != http.StatusFound {
		t.Fatalf("logout: expected redirect, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("logout must rewrite the session cookie")
	}
	cleared := cookies[0].Name + "=" + cookies[0].Value

	w = getPage(r, "/profile", cleared)
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect with cleared session, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestCreatePostRequiresVerifiedAuthor(t *testing.T) {
	r, gdb := setupWebTest(t)
	cookie := registerWebUser(t, r, gdb, "web_author", db.RoleAuthor)

	form := url.Values{
		"title":   {"From the form"},
		"content": {"body text"},
		"status":  {db.StatusPublished},
	}

	w := postForm(r, "/create/", cookie, form)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unverified author should get 403, got %d", w.Code)
	}

	verifyWebAuthor(t, gdb, "web_author")

	w = postForm(r, "/create/", cookie, form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after create, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/from-the-form/" {
		t.Fatalf("expected redirect to the new post, got %q", loc)
	}
}

func TestDraftVisibleOnlyToOwner(t *testing.T) {
	r, gdb := setupWebTest(t)
	ownerCookie := registerWebUser(t, r, gdb, "draft_owner", db.RoleAuthor)
	profile := verifyWebAuthor(t, gdb, "draft_owner")

	post, err := service.NewPostService(gdb).Create(service.PostInput{
		Title:    "Hidden Draft",
		Content:  "body",
		Status:   db.StatusDraft,
		AuthorID: profile.ID,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	w := getPage(r, "/"+post.Slug+"/", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("anonymous visitor should get 404 for a draft, got %d", w.Code)
	}

	w = getPage(r, "/"+post.Slug+"/", ownerCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("owner should see their draft, got %d", w.Code)
	}
}

func TestPostCommentViaForm(t *testing.T) {
	r, gdb := setupWebTest(t)
	registerWebUser(t, r, gdb, "host_author", db.RoleAuthor)
	profile := verifyWebAuthor(t, gdb, "host_author")
	readerCookie := registerWebUser(t, r, gdb, "form_commenter", db.RoleReader)

	post, err := service.NewPostService(gdb).Create(service.PostInput{
		Title:    "Open Thread",
		Content:  "body",
		Status:   db.StatusPublished,
		AuthorID: profile.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	w := postForm(r, "/"+post.Slug+"/", readerCookie, url.Values{"message": {"nice piece"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after comment, got %d", w.Code)
	}

	var count int64
	gdb.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 comment, got %d", count)
	}

	// Anonymous commenters are sent to the login page.
	w = postForm(r, "/"+post.Slug+"/", "", url.Values{"message": {"drive-by"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous comment should redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestEditForeignPostForbidden(t *testing.T) {
	r, gdb := setupWebTest(t)
	registerWebUser(t, r, gdb, "original_author", db.RoleAuthor)
	profile := verifyWebAuthor(t, gdb, "original_author")
	rivalCookie := registerWebUser(t, r, gdb, "rival_web_author", db.RoleAuthor)
	verifyWebAuthor(t, gdb, "rival_web_author")

	post, err := service.NewPostService(gdb).Create(service.PostInput{
		Title:    "Protected",
		Content:  "body",
		Status:   db.StatusPublished,
		AuthorID: profile.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	w := getPage(r, "/"+post.Slug+"/edit/", rivalCookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign edit page, got %d", w.Code)
	}

	w = postForm(r, "/"+post.Slug+"/delete/", rivalCookie, url.Values{})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign delete, got %d", w.Code)
	}
}

func TestFavoriteToggleFromDetailPage(t *testing.T) {
	r, gdb := setupWebTest(t)
	registerWebUser(t, r, gdb, "liked_author", db.RoleAuthor)
	profile := verifyWebAuthor(t, gdb, "liked_author")
	readerCookie := registerWebUser(t, r, gdb, "keen_reader", db.RoleReader)

	post, err := service.NewPostService(gdb).Create(service.PostInput{
		Title:    "Keeper",
		Content:  "body",
		Status:   db.StatusPublished,
		AuthorID: profile.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	w := postForm(r, "/"+post.Slug+"/favorite", readerCookie, url.Values{})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after favorite, got %d", w.Code)
	}

	var reader db.User
	if err := gdb.Preload("ReaderProfile").Where("username = ?", "keen_reader").First(&reader).Error; err != nil {
		t.Fatalf("load reader: %v", err)
	}
	favorites, err := service.NewProfileService(gdb).Favorites(reader.ReaderProfile.ID)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favorites))
	}

	w = postForm(r, "/"+post.Slug+"/unfavorite", readerCookie, url.Values{})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after unfavorite, got %d", w.Code)
	}
	favorites, err = service.NewProfileService(gdb).Favorites(reader.ReaderProfile.ID)
	if err != nil {
		t.Fatalf("favorites after removal: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites, got %d", len(favorites))
	}

	// Authors have no favorites surface.
	authorCookie := loginWebUser(t, r, "liked_author")
	w = postForm(r, "/"+post.Slug+"/favorite", authorCookie, url.Values{})
	if w.Code != http.StatusForbidden {
		t.Fatalf("author favoriting should be 403, got %d", w.Code)
	}
}
