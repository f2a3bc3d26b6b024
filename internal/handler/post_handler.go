package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/service"
)

const postsPerPage = 10

// ShowHome lists published posts with search, category filter, and
// pagination from the query string.
func (w *Web) ShowHome(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))

	result, err := w.posts.List(service.PostFilter{
		Search:       c.Query("query"),
		CategorySlug: c.Query("category"),
		Status:       db.StatusPublished,
		Page:         page,
		PerPage:      postsPerPage,
	})
	if err != nil {
		w.renderHTML(c, http.StatusInternalServerError, "index.html", gin.H{
			"title": "Home",
			"error": "Could not load posts.",
		})
		return
	}

	categories, _ := w.categories.List()

	w.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title":      "Home",
		"posts":      result.Posts,
		"categories": categories,
		"query":      c.Query("query"),
		"category":   c.Query("category"),
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"year":       time.Now().Year(),
	})
}

// ShowMyPosts lists the logged-in author's own posts in every status.
func (w *Web) ShowMyPosts(c *gin.Context) {
	actor := w.currentActor(c)
	if actor.Author == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	result, err := w.posts.List(service.PostFilter{
		AuthorID: actor.Author.ID,
		Page:     page,
		PerPage:  postsPerPage,
	})
	if err != nil {
		w.renderHTML(c, http.StatusInternalServerError, "post_list.html", gin.H{
			"title": "My posts",
			"error": "Could not load your posts.",
		})
		return
	}

	w.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title":      "My posts",
		"posts":      result.Posts,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

// ShowCreatePage renders the post form for verified authors.
func (w *Web) ShowCreatePage(c *gin.Context) {
	actor := w.currentActor(c)
	if err := w.authz.CanCreatePost(actor); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	categories, _ := w.categories.List()
	tags, _ := w.tags.List()

	w.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":      "New post",
		"categories": categories,
		"tags":       tags,
	})
}

// CreatePost persists a new post for the logged-in verified author.
func (w *Web) CreatePost(c *gin.Context) {
	actor := w.currentActor(c)
	if err := w.authz.CanCreatePost(actor); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	input := service.PostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Status:     c.DefaultPostForm("status", db.StatusDraft),
		CategoryID: parseOptionalID(c.PostForm("category")),
		TagIDs:     parseIDList(c.PostFormArray("tags")),
		AuthorID:   actor.Author.ID,
	}
	if cover := w.saveUploadedImage(c, "cover_image"); cover != "" {
		input.CoverImage = cover
	}

	post, err := w.posts.Create(input)
	if err != nil {
		categories, _ := w.categories.List()
		tags, _ := w.tags.List()
		data := gin.H{
			"title":      "New post",
			"categories": categories,
			"tags":       tags,
			"error":      "Title and content cannot be empty.",
		}
		if ve, ok := service.AsValidationError(err); ok {
			data["fieldErrors"] = ve.Fields
		}
		w.renderHTML(c, http.StatusBadRequest, "post_form.html", data)
		return
	}

	c.Redirect(http.StatusFound, "/"+post.Slug+"/")
}

// ShowPostDetail renders a published post, bumping its view counter, and
// lists its comment tree. Authors can preview their own drafts here.
func (w *Web) ShowPostDetail(c *gin.Context) {
	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	actor := w.currentActor(c)
	if !post.IsPublished() && w.authz.CanMutatePost(actor, post) != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if post.IsPublished() {
		if err := w.posts.IncrementViews(post.ID); err == nil {
			post.ViewsCount++
		}
	}

	content, err := renderMarkdown(post.Content)
	if err != nil {
		w.renderHTML(c, http.StatusInternalServerError, "post_detail.html", gin.H{
			"title": post.Title,
			"error": "Could not render the post content.",
		})
		return
	}

	comments, _ := w.comments.ListForPost(post.ID)

	w.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":    post.Title,
		"post":     post,
		"content":  content,
		"comments": comments,
		"canEdit":  w.authz.CanMutatePost(actor, post) == nil,
		"year":     time.Now().Year(),
	})
}

// PostComment handles the detail page's comment form: a top-level comment,
// or a reply when parent_id is present.
func (w *Web) PostComment(c *gin.Context) {
	actor := w.currentActor(c)
	if err := w.authz.CanCreateComment(actor); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	input := service.CommentInput{
		PostID:   post.ID,
		UserID:   actor.User.ID,
		Content:  c.PostForm("message"),
		ParentID: parseOptionalID(c.PostForm("parent_id")),
	}

	if _, err := w.comments.Create(input); err != nil {
		c.Redirect(http.StatusFound, "/"+post.Slug+"/")
		return
	}

	c.Redirect(http.StatusFound, "/"+post.Slug+"/")
}

// ShowEditPage renders the edit form for the owning author.
func (w *Web) ShowEditPage(c *gin.Context) {
	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if err := w.authz.CanMutatePost(w.currentActor(c), post); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	categories, _ := w.categories.List()
	tags, _ := w.tags.List()

	w.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":      "Edit post",
		"post":       post,
		"categories": categories,
		"tags":       tags,
	})
}

// UpdatePost applies the edit form to a post owned by the actor.
func (w *Web) UpdatePost(c *gin.Context) {
	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if err := w.authz.CanMutatePost(w.currentActor(c), post); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	input := service.PostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Status:     c.DefaultPostForm("status", db.StatusDraft),
		CategoryID: parseOptionalID(c.PostForm("category")),
		TagIDs:     parseIDList(c.PostFormArray("tags")),
		AuthorID:   post.AuthorID,
	}
	if cover := w.saveUploadedImage(c, "cover_image"); cover != "" {
		input.CoverImage = cover
	}

	updated, err := w.posts.Update(post.ID, input)
	if err != nil {
		categories, _ := w.categories.List()
		tags, _ := w.tags.List()
		w.renderHTML(c, http.StatusBadRequest, "post_form.html", gin.H{
			"title":      "Edit post",
			"post":       post,
			"categories": categories,
			"tags":       tags,
			"error":      "Title and content cannot be empty.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/"+updated.Slug+"/")
}

// DeletePost removes a post owned by the actor.
func (w *Web) DeletePost(c *gin.Context) {
	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if err := w.authz.CanMutatePost(w.currentActor(c), post); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	if err := w.posts.Delete(post.ID); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/post-list/")
}

// FavoritePost marks a post as one of the reader's favorites.
func (w *Web) FavoritePost(c *gin.Context) {
	w.toggleFavorite(c, true)
}

// UnfavoritePost removes a post from the reader's favorites.
func (w *Web) UnfavoritePost(c *gin.Context) {
	w.toggleFavorite(c, false)
}

func (w *Web) toggleFavorite(c *gin.Context, add bool) {
	actor := w.currentActor(c)
	if actor.Reader == nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	post, err := w.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if add {
		err = w.profiles.FavoritePost(actor.Reader.ID, post.ID)
	} else {
		err = w.profiles.UnfavoritePost(actor.Reader.ID, post.ID)
	}
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/"+post.Slug+"/")
}

func parseOptionalID(raw string) *uint {
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return nil
	}
	id := uint(parsed)
	return &id
}

func parseIDList(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(parsed))
	}
	return ids
}
