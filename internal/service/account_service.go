package service

import (
	"errors"
	"strings"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// AccountService handles registration, login, and role provisioning.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// RegisterInput is the payload accepted at registration.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// Register validates the input, creates the account, and provisions the
// profile matching the submitted role. Account and profile creation run in
// one transaction so a failure never leaves an account without its profile.
func (s *AccountService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	role := strings.TrimSpace(strings.ToLower(input.Role))

	if err := s.validateRegistration(username, email, role, input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch role {
		case db.RoleAuthor:
			return tx.Create(&db.AuthorProfile{UserID: user.ID}).Error
		case db.RoleReader:
			return tx.Create(&db.ReaderProfile{UserID: user.ID}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies the credentials and returns the matching account with its
// profiles loaded. Unknown usernames and wrong passwords produce the same
// error on purpose.
func (s *AccountService) Login(username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	err := s.db.Preload("AuthorProfile").Preload("ReaderProfile").
		Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Get returns the account behind id with profiles loaded.
func (s *AccountService) Get(id uint) (*db.User, error) {
	var user db.User
	err := s.db.Preload("AuthorProfile").Preload("ReaderProfile").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountService) validateRegistration(username, email, role, password, confirm string) error {
	fields := map[string]string{}

	if username == "" {
		fields["username"] = "This field is required."
	}
	if email == "" {
		fields["email"] = "This field is required."
	}
	if role != db.RoleAuthor && role != db.RoleReader {
		fields["role"] = "Role must be either author or reader."
	}
	if len(password) < 8 {
		fields["password"] = "Password must be at least 8 characters long."
	}
	if password != confirm {
		fields["confirm_password"] = "Passwords do not match."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("email", "A user with this email already exists.")
	}

	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("username", "A user with this username already exists.")
	}

	return nil
}
