package question

import (
	"context"

	"github.com/olimci/architect/pkg/answers"
)

// Source supplies raw answers. ok is false when the source has no answer
// for the question, in which case the default applies. scope holds every
// answer collected so far.
type Source interface {
	Answer(ctx context.Context, q Question, scope answers.Context) (raw any, ok bool, err error)
}

type SourceFunc func(ctx context.Context, q Question, scope answers.Context) (any, bool, error)

func (f SourceFunc) Answer(ctx context.Context, q Question, scope answers.Context) (any, bool, error) {
	return f(ctx, q, scope)
}

// MapSource answers from a fixed set of values, either nested maps or
// dotted keys.
type MapSource struct {
	values map[string]any
}

func NewMapSource(values map[string]any) *MapSource {
	if values == nil {
		values = make(map[string]any)
	}
	return &MapSource{values: values}
}

func (m *MapSource) Answer(ctx context.Context, q Question, scope answers.Context) (any, bool, error) {
	if v, ok := answers.Context(m.values).Lookup(q.Path()); ok {
		return v, true, nil
	}

	if v, ok := m.values[q.Name()]; ok {
		return v, true, nil
	}

	return nil, false, nil
}

// Chain asks each source in turn and returns the first answer.
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, q Question, scope answers.Context) (any, bool, error) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			raw, ok, err := source.Answer(ctx, q, scope)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return raw, true, nil
			}
		}
		return nil, false, nil
	})
}

// Defaults never answers, so every question falls back to its default.
var Defaults Source = SourceFunc(func(context.Context, Question, answers.Context) (any, bool, error) {
	return nil, false, nil
})
