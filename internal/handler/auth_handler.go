package handler

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

// ShowLoginPage renders the login form. Authenticated visitors are sent
// back home; login is anonymous-only.
func (w *Web) ShowLoginPage(c *gin.Context) {
	if w.currentActor(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	w.renderHTML(c, http.StatusOK, "login.html", gin.H{"title": "Log in"})
}

// Login verifies the submitted credentials and opens a session.
func (w *Web) Login(c *gin.Context) {
	if err := w.authz.RequireAnonymous(w.currentActor(c)); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := w.accounts.Login(username, password)
	if err != nil {
		w.renderHTML(c, http.StatusBadRequest, "login.html", gin.H{
			"title": "Log in",
			"error": "Invalid username or password. Please try again.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		w.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Log in",
			"error": "Could not save your session. Please try again.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowSignupPage renders the registration form.
func (w *Web) ShowSignupPage(c *gin.Context) {
	if w.currentActor(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	w.renderHTML(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// Signup registers a new account with its role profile and logs it in.
func (w *Web) Signup(c *gin.Context) {
	if err := w.authz.RequireAnonymous(w.currentActor(c)); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	input := service.RegisterInput{
		Username:        c.PostForm("username"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password1"),
		ConfirmPassword: c.PostForm("password2"),
		Role:            c.PostForm("role"),
	}

	user, err := w.accounts.Register(input)
	if err != nil {
		data := gin.H{"title": "Sign up", "error": "Registration failed. Please correct the errors below."}
		if ve, ok := service.AsValidationError(err); ok {
			data["fieldErrors"] = ve.Fields
		}
		w.renderHTML(c, http.StatusBadRequest, "signup.html", data)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout closes the session.
func (w *Web) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowProfilePage renders the visitor's own profile. Accounts without a
// profile get a 404, matching the profile-less account rule.
func (w *Web) ShowProfilePage(c *gin.Context) {
	actor := w.currentActor(c)
	if !actor.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	switch {
	case actor.Author != nil:
		w.renderHTML(c, http.StatusOK, "profile.html", gin.H{
			"title":   "My profile",
			"author":  actor.Author,
			"image":   w.profileImage(actor.Author.ProfileImage),
			"isOwner": true,
		})
	case actor.Reader != nil:
		w.renderHTML(c, http.StatusOK, "profile.html", gin.H{
			"title":   "My profile",
			"reader":  actor.Reader,
			"image":   w.profileImage(actor.Reader.ProfileImage),
			"isOwner": true,
		})
	default:
		c.AbortWithStatus(http.StatusNotFound)
	}
}

// UpdateProfile applies form changes to the visitor's own profile.
func (w *Web) UpdateProfile(c *gin.Context) {
	actor := w.currentActor(c)
	if !actor.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	switch {
	case actor.Author != nil:
		if err := w.authz.CanMutateProfile(actor, actor.Author.UserID); err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		bio := c.PostForm("bio")
		website := c.PostForm("website")
		input := service.AuthorProfileInput{Bio: &bio, Website: &website}
		if image := w.saveUploadedImage(c, "profile_image"); image != "" {
			input.ProfileImage = &image
		}
		if _, err := w.profiles.UpdateAuthor(actor.Author.ID, input); err != nil {
			w.renderHTML(c, http.StatusInternalServerError, "profile.html", gin.H{
				"title": "My profile",
				"error": "Could not update your profile.",
			})
			return
		}
	case actor.Reader != nil:
		if err := w.authz.CanMutateProfile(actor, actor.Reader.UserID); err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		subscribed := c.PostForm("subscribed") == "on"
		input := service.ReaderProfileInput{Subscribed: &subscribed}
		if image := w.saveUploadedImage(c, "profile_image"); image != "" {
			input.ProfileImage = &image
		}
		if _, err := w.profiles.UpdateReader(actor.Reader.ID, input); err != nil {
			w.renderHTML(c, http.StatusInternalServerError, "profile.html", gin.H{
				"title": "My profile",
				"error": "Could not update your profile.",
			})
			return
		}
	default:
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

func (w *Web) profileImage(stored string) string {
	if stored == "" {
		return w.cfg.DefaultProfileURL
	}
	return stored
}
