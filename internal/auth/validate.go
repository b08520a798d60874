package auth

import (
	"fmt"
	"net/mail"
	"strings"
)

const minPasswordLength = 6

// ValidationError is a user input problem, rendered inline next to the field
// it names. These are never logged as system failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLogin checks login form input.
func ValidateLogin(email, password string) []ValidationError {
	var errs []ValidationError
	errs = appendEmailErrors(errs, email)
	if password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}
	return errs
}

// ValidateSignup checks signup form input.
func ValidateSignup(name, email, password, confirm string) []ValidationError {
	var errs []ValidationError
	if len(strings.TrimSpace(name)) < 2 {
		errs = append(errs, ValidationError{Field: "name", Message: "name must be at least 2 characters"})
	}
	errs = appendEmailErrors(errs, email)
	if len(password) < minPasswordLength {
		errs = append(errs, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
	}
	if password != confirm {
		errs = append(errs, ValidationError{Field: "confirm", Message: "passwords do not match"})
	}
	return errs
}

func appendEmailErrors(errs []ValidationError, email string) []ValidationError {
	email = strings.TrimSpace(email)
	if email == "" {
		return append(errs, ValidationError{Field: "email", Message: "email is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return append(errs, ValidationError{Field: "email", Message: "invalid email address"})
	}
	return errs
}
