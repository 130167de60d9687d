// Package auth provides the authentication service (sign-up, sign-in
// against stored credentials) and the cookie-session manager that
// carries the signed-in identity between requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"farmledger.dev/farmledger/internal/store"
)

// Service verifies and registers user credentials.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewService creates an authentication service over the given database.
func NewService(db *gorm.DB, logger *slog.Logger) (*Service, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Service{db: db, logger: logger}, nil
}

// SignUp registers a new user. The email must not already be
// registered; the password is stored as a bcrypt hash. The caller is
// expected to establish a session for the returned user immediately,
// so sign-up grants access in the same action.
func (s *Service) SignUp(ctx context.Context, email, password string) (*store.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &store.ValidationError{Fields: []string{"email", "password"}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &store.User{Email: email, PasswordHash: string(hash)}
	user.ID = uuid.NewString()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&store.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if n > 0 {
			return store.ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", email)
	return user, nil
}

// SignIn verifies the credentials and returns the matching user. On
// any mismatch it returns ErrInvalidCredentials and nothing else about
// which half was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (*store.User, error) {
	email = normalizeEmail(email)

	var user store.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, store.ErrInvalidCredentials
	}

	s.logger.Info("user signed in", "user_id", user.ID)
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
