// Package validation checks account form input: name, email shape and
// password length and strength. Failures are field-scoped so a caller can
// show each message next to the input it belongs to.
package validation

import (
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// Form field names used in ValidationError.Field.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// ValidationError reports a problem with a single input field.
// errors.Is(err, common.ErrValidation) is true for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

// ValidationErrors collects the failures of one form, in field order.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (es ValidationErrors) Is(target error) bool {
	return target == common.ErrValidation
}

func (es ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(es))
	for _, e := range es {
		errs = append(errs, e)
	}
	return errs
}

// Message returns the message for field, or "" when the field passed.
func (es ValidationErrors) Message(field string) string {
	for _, e := range es {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Err returns es as an error, or nil when nothing failed.
func (es ValidationErrors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

func (es *ValidationErrors) add(e *ValidationError) {
	if e != nil {
		*es = append(*es, e)
	}
}
