package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// ErrNotFound is returned for missing records and for records owned by
// another user.
var ErrNotFound = gorm.ErrRecordNotFound

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

// Error returns the message of the first rejected field in name order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "validation failed"
	}
	return e.Fields[names[0]]
}

func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// validate applies the same field rules the screens use.
func validate(schema entity.Schema, fields entity.Fields) error {
	if errs := schema.Validate(fields); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
