package question

import (
	"errors"
	"fmt"

	"github.com/olimci/architect/pkg/answers"
)

var (
	// ErrInvalid marks a malformed question definition.
	ErrInvalid = errors.New("invalid question")
	// ErrValidation marks an answer or default that violates its question.
	ErrValidation = errors.New("validation error")
	// ErrMissingAnswer marks a question with neither an answer nor a default.
	ErrMissingAnswer = errors.New("missing answer")
	// ErrSchemaConflict marks colliding context paths.
	ErrSchemaConflict = answers.ErrConflict
)

// Error attributes a failure to a question.
type Error struct {
	Question string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("question %q: %v", e.Question, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(name string, err error) error {
	return &Error{Question: name, Err: fmt.Errorf("%w: %w", ErrInvalid, err)}
}
