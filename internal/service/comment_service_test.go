package service

import (
	"errors"
	"testing"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

func createPublishedPost(t *testing.T, gdb *gorm.DB, authorUsername, title string) *db.Post {
	t.Helper()
	author := createVerifiedAuthor(t, gdb, authorUsername)
	post, err := NewPostService(gdb).Create(PostInput{
		Title:    title,
		Content:  "body",
		Status:   db.StatusPublished,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func createReader(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()
	user, err := NewAccountService(gdb).Register(registerInput(username, db.RoleReader))
	if err != nil {
		t.Fatalf("register reader: %v", err)
	}
	return user
}

func TestCreateCommentAndReply(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := createPublishedPost(t, gdb, "comment_author", "Commented post")
	reader := createReader(t, gdb, "comment_reader")

	parent, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "first!"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if !parent.IsParent() {
		t.Fatalf("top-level comment must be a parent")
	}

	reply, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "replying", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if reply.IsParent() {
		t.Fatalf("reply must not be a parent")
	}

	loaded, err := svc.Get(parent.ID)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if len(loaded.Replies) != 1 || loaded.Replies[0].ID != reply.ID {
		t.Fatalf("expected one reply under parent, got %d", len(loaded.Replies))
	}
}

func TestCreateCommentUnknownPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	reader := createReader(t, gdb, "orphan_reader")

	_, err := svc.Create(CommentInput{PostID: 999, UserID: reader.ID, Content: "hello"})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestCreateReplyParentMismatch(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	first := createPublishedPost(t, gdb, "mismatch_author", "First post")
	second := createPublishedPost(t, gdb, "mismatch_author_two", "Second post")
	reader := createReader(t, gdb, "mismatch_reader")

	parent, err := svc.Create(CommentInput{PostID: first.ID, UserID: reader.ID, Content: "on the first"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	_, err = svc.Create(CommentInput{PostID: second.ID, UserID: reader.ID, Content: "wrong thread", ParentID: &parent.ID})
	if !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}

func TestListForPostReturnsTopLevelOnly(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := createPublishedPost(t, gdb, "thread_author", "Threaded post")
	reader := createReader(t, gdb, "thread_reader")

	first, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "first thread"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "nested", ParentID: &first.ID}); err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if _, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "second thread"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	comments, err := svc.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(comments))
	}
	if comments[0].Content != "first thread" {
		t.Fatalf("comments should come oldest first, got %q", comments[0].Content)
	}
	if len(comments[0].Replies) != 1 || comments[0].Replies[0].Content != "nested" {
		t.Fatalf("first thread should carry its reply")
	}
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := createPublishedPost(t, gdb, "cascade_author", "Cascade post")
	reader := createReader(t, gdb, "cascade_reader")

	parent, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "doomed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	reply, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "goes with it", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if err := svc.Delete(parent.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(parent.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("parent should be gone, got %v", err)
	}
	if _, err := svc.Get(reply.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("reply should cascade away, got %v", err)
	}
}

func TestUpdateComment(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := createPublishedPost(t, gdb, "edit_author", "Editable post")
	reader := createReader(t, gdb, "edit_reader")

	comment, err := svc.Create(CommentInput{PostID: post.ID, UserID: reader.ID, Content: "tpyo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(comment.ID, "typo")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "typo" {
		t.Fatalf("expected updated content, got %q", updated.Content)
	}
}
