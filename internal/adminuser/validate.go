package adminuser

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// MinPasswordLength is the shortest accepted password, in bytes
const MinPasswordLength = 6

// ErrPasswordTooShort is returned by ValidatePassword
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)

// ValidationErrors lists every rule an input broke
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(v, "; ")
}

// ValidateEmail checks that email is present, well formed and not taken yet.
// Rule failures come back as ValidationErrors, store failures are wrapped.
func ValidateEmail(ctx context.Context, store Store, email string) error {
	if email == "" {
		return ValidationErrors{"The email field is required."}
	}

	if !isEmailAddress(email) {
		return ValidationErrors{"The email must be a valid email address."}
	}

	taken, err := store.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}

	if taken {
		return ValidationErrors{"The email has already been taken."}
	}

	return nil
}

// ValidatePassword enforces MinPasswordLength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}

// IsValidationError reports whether err carries rule failures
func IsValidationError(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}

	return nil, false
}

// isEmailAddress accepts a bare addr-spec; display names are rejected.
func isEmailAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	return addr.Address == email
}
