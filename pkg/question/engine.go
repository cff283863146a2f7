package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/olimci/architect/pkg/answers"
)

// Engine asks questions in order and folds the answers into a context.
type Engine struct {
	source  Source
	options *options
}

func NewEngine(source Source, opts ...EngineOption) *Engine {
	if source == nil {
		source = Defaults
	}

	return &Engine{
		source:  source,
		options: defaultOptions().apply(opts...),
	}
}

// Run processes questions strictly in list order. Each answer is merged
// before the next question is asked.
func (e *Engine) Run(ctx context.Context, questions []Question) (answers.Context, error) {
	scope := answers.New()
	if e.options.seed != nil {
		scope = answers.Context(e.options.seed).Clone()
	}

	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := e.collect(ctx, q, scope)
		if err != nil {
			return nil, err
		}

		if err := scope.Insert(q.Path(), value); err != nil {
			return nil, &Error{Question: q.Name(), Err: err}
		}

		e.options.logger.Debug("answered question", "name", q.Name(), "type", q.Type(), "value", value)
	}

	return scope, nil
}

func (e *Engine) collect(ctx context.Context, q Question, scope answers.Context) (any, error) {
	raw, ok, err := e.source.Answer(ctx, q, scope)
	if err != nil {
		return nil, &Error{Question: q.Name(), Err: fmt.Errorf("supplying answer: %w", err)}
	}

	if !ok {
		raw, ok = fallback(q)
	}
	if !ok {
		return nil, &Error{Question: q.Name(), Err: ErrMissingAnswer}
	}

	value, err := Coerce(q, raw)
	if err != nil {
		return nil, &Error{Question: q.Name(), Err: err}
	}

	return value, nil
}

// fallback returns the value used when a source has no answer.
func fallback(q Question) (any, bool) {
	switch q := q.(type) {
	case *SimpleQuestion:
		if q.Default != nil {
			return *q.Default, true
		}
		if q.kind == Option {
			return false, true
		}
		return nil, false
	case *SelectionQuestion:
		return q.Default, true
	case *CustomQuestion:
		if q.Default != nil {
			return *q.Default, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Placeholder returns a value with the same shape as q's answer, used to
// check context paths before anything is asked.
func Placeholder(q Question) any {
	switch q.(type) {
	case *SelectionQuestion:
		return map[string]any{}
	default:
		return ""
	}
}

// DefaultString renders the default of q for display. ok is false when q
// has no default.
func DefaultString(q Question) (string, bool) {
	switch q := q.(type) {
	case *SimpleQuestion:
		if q.Default != nil {
			return *q.Default, true
		}
	case *SelectionQuestion:
		if len(q.Default) > 0 {
			return strings.Join(q.Default, ", "), true
		}
	case *CustomQuestion:
		if q.Default != nil {
			return *q.Default, true
		}
	}
	return "", false
}
