package service

import (
	"errors"
	"testing"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

func readerProfileOf(t *testing.T, gdb *gorm.DB, userID uint) *db.ReaderProfile {
	t.Helper()
	profile, err := NewProfileService(gdb).GetReaderByUser(userID)
	if err != nil {
		t.Fatalf("load reader profile: %v", err)
	}
	return profile
}

func TestUpdateAuthorProfileFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)
	author := createVerifiedAuthor(t, gdb, "profile_author")

	bio := "  I write about Go.  "
	website := "https://example.com"
	updated, err := svc.UpdateAuthor(author.ID, AuthorProfileInput{Bio: &bio, Website: &website})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != "I write about Go." {
		t.Fatalf("bio should be trimmed, got %q", updated.Bio)
	}
	if updated.Website != website {
		t.Fatalf("website not applied, got %q", updated.Website)
	}
	// Fields left nil keep their values.
	if !updated.Verified {
		t.Fatalf("verification flag must survive the update")
	}
}

func TestUpdateAuthorIgnoresOmittedFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)
	author := createVerifiedAuthor(t, gdb, "sparse_author")

	bio := "set once"
	if _, err := svc.UpdateAuthor(author.ID, AuthorProfileInput{Bio: &bio}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	website := "https://only-website.example"
	updated, err := svc.UpdateAuthor(author.ID, AuthorProfileInput{Website: &website})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.Bio != "set once" {
		t.Fatalf("omitted bio must keep its value, got %q", updated.Bio)
	}
}

func TestUpdateReaderSubscription(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)
	reader := createReader(t, gdb, "sub_reader")
	profile := readerProfileOf(t, gdb, reader.ID)

	subscribed := true
	updated, err := svc.UpdateReader(profile.ID, ReaderProfileInput{Subscribed: &subscribed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Subscribed {
		t.Fatalf("subscription flag not applied")
	}
}

func TestGetAuthorMissing(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)

	if _, err := svc.GetAuthor(42); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestFavoriteLifecycle(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)
	post := createPublishedPost(t, gdb, "favorited_author", "Worth keeping")
	reader := createReader(t, gdb, "fav_reader")
	profile := readerProfileOf(t, gdb, reader.ID)

	if err := svc.FavoritePost(profile.ID, post.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	// Favoriting again stays a no-op.
	if err := svc.FavoritePost(profile.ID, post.ID); err != nil {
		t.Fatalf("favorite again: %v", err)
	}

	favorites, err := svc.Favorites(profile.ID)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != post.ID {
		t.Fatalf("expected exactly one favorite, got %d", len(favorites))
	}

	if err := svc.UnfavoritePost(profile.ID, post.ID); err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	favorites, err = svc.Favorites(profile.ID)
	if err != nil {
		t.Fatalf("favorites after removal: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites, got %d", len(favorites))
	}
}

func TestFavoriteUnknownPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewProfileService(gdb)
	reader := createReader(t, gdb, "fav_missing_reader")
	profile := readerProfileOf(t, gdb, reader.ID)

	if err := svc.FavoritePost(profile.ID, 999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
