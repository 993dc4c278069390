package services

import (
	"fmt"
	"unicode"

	"legalcase_app_go/models"
)

// Password requirements
const (
	MinPasswordLength = 12
)

// ValidatePassword checks that a new user's password is long enough and
// mixes upper case, lower case, digits and symbols. Failures are
// ValidationErrors on the "password" field.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return models.NewValidationError("password", fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return models.NewValidationError("password", "must contain at least one uppercase letter")
	case !hasLower:
		return models.NewValidationError("password", "must contain at least one lowercase letter")
	case !hasNumber:
		return models.NewValidationError("password", "must contain at least one number")
	case !hasSpecial:
		return models.NewValidationError("password", "must contain at least one special character")
	}
	return nil
}
