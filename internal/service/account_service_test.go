package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(db.ForeignKeyDSN(dsn)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func registerInput(username, role string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "StrongPass123",
		ConfirmPassword: "StrongPass123",
		Role:            role,
	}
}

func TestRegisterAuthorProvisionsAuthorProfile(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Register(registerInput("author_user", db.RoleAuthor))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != db.RoleAuthor {
		t.Fatalf("expected role author, got %q", user.Role)
	}

	var authorCount, readerCount int64
	gdb.Model(&db.AuthorProfile{}).Where("user_id = ?", user.ID).Count(&authorCount)
	gdb.Model(&db.ReaderProfile{}).Where("user_id = ?", user.ID).Count(&readerCount)
	if authorCount != 1 || readerCount != 0 {
		t.Fatalf("expected exactly one author profile, got authors=%d readers=%d", authorCount, readerCount)
	}

	var profile db.AuthorProfile
	if err := gdb.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("load author profile: %v", err)
	}
	if profile.TotalPosts != 0 {
		t.Fatalf("fresh author should have total_posts 0, got %d", profile.TotalPosts)
	}
	if profile.Verified {
		t.Fatalf("fresh author must not be verified")
	}
}

func TestRegisterReaderProvisionsReaderProfile(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Register(registerInput("reader_user", db.RoleReader))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var authorCount, readerCount int64
	gdb.Model(&db.AuthorProfile{}).Where("user_id = ?", user.ID).Count(&authorCount)
	gdb.Model(&db.ReaderProfile{}).Where("user_id = ?", user.ID).Count(&readerCount)
	if authorCount != 0 || readerCount != 1 {
		t.Fatalf("expected exactly one reader profile, got authors=%d readers=%d", authorCount, readerCount)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	_, err := svc.Register(registerInput("odd_user", "admin"))
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, exists := ve.Fields["role"]; !exists {
		t.Fatalf("expected role field error, got %v", ve.Fields)
	}

	var count int64
	gdb.Model(&db.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected registration must not create accounts, got %d", count)
	}
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	input := registerInput("mismatch_user", db.RoleReader)
	input.ConfirmPassword = "SomethingElse123"

	_, err := svc.Register(input)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, exists := ve.Fields["confirm_password"]; !exists {
		t.Fatalf("expected confirm_password field error, got %v", ve.Fields)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	input := registerInput("short_user", db.RoleReader)
	input.Password = "short"
	input.ConfirmPassword = "short"

	_, err := svc.Register(input)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, exists := ve.Fields["password"]; !exists {
		t.Fatalf("expected password field error, got %v", ve.Fields)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Register(registerInput("first_user", db.RoleReader)); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input := registerInput("second_user", db.RoleReader)
	input.Email = "first_user@example.com"

	_, err := svc.Register(input)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, exists := ve.Fields["email"]; !exists {
		t.Fatalf("expected email field error, got %v", ve.Fields)
	}
}

func TestLoginVerifiesCredentials(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Register(registerInput("login_user", db.RoleAuthor)); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Login("login_user", "StrongPass123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.AuthorProfile == nil {
		t.Fatalf("expected author profile preloaded on login")
	}

	if _, err := svc.Login("login_user", "WrongPass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login("no_such_user", "StrongPass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
