package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Account roles. An empty role means the account has no profile; the core
// never changes a role after creation.
const (
	RoleAuthor = "author"
	RoleReader = "reader"
)

// User is the base account record shared by authors and readers.
// Role-specific data lives in AuthorProfile and ReaderProfile.
type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null" json:"username"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	Role        string `gorm:"size:10" json:"role"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	IsStaff     bool   `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool   `gorm:"default:false" json:"is_superuser"`

	AuthorProfile *AuthorProfile `json:"-"`
	ReaderProfile *ReaderProfile `json:"-"`
}

// SetPassword hashes the plaintext password with bcrypt and stores the hash.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// EnsureRootAdmin creates a staff+superuser account when the configured
// username does not exist yet. Empty credentials are a no-op so a fresh
// checkout can run without any environment set.
func EnsureRootAdmin(gdb *gorm.DB, username, email, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	err := gdb.Where("username = ?", trimmedUser).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := User{
		Username:    trimmedUser,
		Email:       strings.TrimSpace(email),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := admin.SetPassword(trimmedPassword); err != nil {
		return err
	}

	return gdb.Create(&admin).Error
}
