package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted on any write.
const MinPasswordLength = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s has the basic local@domain.tld shape.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Name checks that the display name is not blank.
func Name(name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: FieldName, Message: "Full name is required"}
	}
	return nil
}

// Email checks presence and shape of an email address.
func Email(email string) *ValidationError {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: FieldEmail, Message: "Email is required"}
	}
	if !IsEmail(email) {
		return &ValidationError{Field: FieldEmail, Message: "Invalid email"}
	}
	return nil
}

// Password checks presence and minimum length.
func Password(pwd string) *ValidationError {
	if pwd == "" {
		return &ValidationError{Field: FieldPassword, Message: "Password is required"}
	}
	if utf8.RuneCountInString(pwd) < MinPasswordLength {
		return &ValidationError{Field: FieldPassword, Message: "Minimum 6 characters required"}
	}
	return nil
}

// NewPassword is Password plus the strength gate used on registration.
func NewPassword(pwd string) *ValidationError {
	if e := Password(pwd); e != nil {
		return e
	}
	if Classify(pwd) == Weak {
		return &ValidationError{Field: FieldPassword, Message: "Password is too weak"}
	}
	return nil
}

// Registration validates a whole registration form and reports every
// failing field, or nil.
func Registration(name, email, password string) error {
	var errs ValidationErrors
	errs.add(Name(name))
	errs.add(Email(email))
	errs.add(NewPassword(password))
	return errs.Err()
}

// AsError converts a possibly nil *ValidationError into an error without
// producing a typed nil.
func AsError(e *ValidationError) error {
	if e == nil {
		return nil
	}
	return e
}
