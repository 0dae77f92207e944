package validation

import (
	"strings"

	"github.com/kbukum/trustauth/errors"
)

// FieldError is one failing field, named by its json tag.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldsError folds field errors into one INVALID_INPUT AppError. The
// message lists every field; details carry them structured under "fields".
func fieldsError(fields []FieldError) *errors.AppError {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Field)
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	return errors.Validation(b.String()).WithDetail("fields", fields)
}
