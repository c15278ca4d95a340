package authoring

import (
	"errors"
	"strings"

	"github.com/irsalhamdi/course-studio/validate"
)

var (
	ErrUnauthorized = errors.New("not authorized to modify this course")
	ErrNotFound     = errors.New("resource not found")
)

// ValidationError reports every rejected input field at once.
type ValidationError struct {
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Fields.Error()
}

// PreconditionError is returned by a publish transition. Missing lists all
// unmet requirements, never only the first.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return "cannot publish, missing: " + strings.Join(e.Missing, ", ")
}

func check(val any) error {
	err := validate.Fields(val)
	if err == nil {
		return nil
	}

	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		return &ValidationError{Fields: fe}
	}
	return err
}

func invalid(field string, reason string) error {
	return &ValidationError{Fields: validate.FieldErrors{field: reason}}
}
