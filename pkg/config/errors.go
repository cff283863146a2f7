package config

import (
	"errors"
	"fmt"

	"github.com/olimci/architect/pkg/question"
)

var (
	// ErrSchemaValidation marks a malformed config document.
	ErrSchemaValidation = errors.New("schema validation error")
	// ErrSchemaConflict marks question names whose context paths collide.
	ErrSchemaConflict = question.ErrSchemaConflict
)

// SchemaError names the part of the document that failed validation. It
// matches ErrSchemaValidation as well as its cause.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrSchemaValidation, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrSchemaValidation, e.Path, e.Err)
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchemaValidation, e.Err}
}

func schemaErrorf(path, format string, args ...any) error {
	return &SchemaError{Path: path, Err: fmt.Errorf(format, args...)}
}
