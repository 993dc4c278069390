package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legalcase_app_go/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// User-related errors
var (
	ErrUserExists = errors.New("user with this email already exists")
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CreateUser registers an active case owner with a hashed password
func CreateUser(ctx context.Context, db *gorm.DB, name, email, password, role string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewValidationError("email", "must be a valid address")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleLawyer
	}
	if !models.IsValidRole(role) {
		return nil, models.NewValidationError("role", "is not a valid role")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, relationalError("check user email", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, relationalError("create user", err)
	}
	return user, nil
}

// DeactivateUser stops a user from owning new cases
func DeactivateUser(ctx context.Context, db *gorm.DB, userID string) error {
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", false)
	if result.Error != nil {
		return relationalError("deactivate user", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
