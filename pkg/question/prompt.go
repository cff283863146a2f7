package question

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/olimci/architect/pkg/answers"
)

// PromptSource asks questions interactively on the terminal.
type PromptSource struct {
	Theme      *huh.Theme
	Accessible bool
}

func NewPromptSource(accessible bool) *PromptSource {
	return &PromptSource{
		Theme:      huh.ThemeCharm(),
		Accessible: accessible,
	}
}

func (p *PromptSource) Answer(ctx context.Context, q Question, scope answers.Context) (any, bool, error) {
	switch q := q.(type) {
	case *SimpleQuestion:
		if q.kind == Option {
			return p.confirm(ctx, q)
		}
		return p.input(ctx, q, q.Default, "")

	case *SelectionQuestion:
		if q.Multi {
			return p.multiSelect(ctx, q)
		}
		return p.selectOne(ctx, q)

	case *CustomQuestion:
		return p.input(ctx, q, q.Default, "Expected format: "+q.Format)

	default:
		return nil, false, fmt.Errorf("unsupported question type %T", q)
	}
}

func (p *PromptSource) input(ctx context.Context, q Question, def *string, description string) (any, bool, error) {
	var value string
	if def != nil {
		value = *def
	}

	field := huh.NewInput().
		Title(q.Prompt()).
		Value(&value).
		Validate(func(s string) error {
			if s == "" {
				if def == nil {
					return errors.New("an answer is required")
				}
				return nil
			}
			_, err := Coerce(q, s)
			return err
		})
	if description != "" {
		field = field.Description(description)
	}

	if err := p.run(ctx, field); err != nil {
		return nil, false, err
	}

	if value == "" {
		return nil, false, nil
	}
	return value, true, nil
}

func (p *PromptSource) confirm(ctx context.Context, q *SimpleQuestion) (any, bool, error) {
	var value bool
	if q.Default != nil {
		value, _ = strconv.ParseBool(*q.Default)
	}

	field := huh.NewConfirm().
		Title(q.Prompt()).
		Value(&value)

	if err := p.run(ctx, field); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *PromptSource) selectOne(ctx context.Context, q *SelectionQuestion) (any, bool, error) {
	var value string
	if len(q.Default) > 0 {
		value = q.Default[0]
	}

	field := huh.NewSelect[string]().
		Title(q.Prompt()).
		Options(huh.NewOptions(q.Items...)...).
		Value(&value)

	if err := p.run(ctx, field); err != nil {
		return nil, false, err
	}
	return []string{value}, true, nil
}

func (p *PromptSource) multiSelect(ctx context.Context, q *SelectionQuestion) (any, bool, error) {
	value := append([]string(nil), q.Default...)

	field := huh.NewMultiSelect[string]().
		Title(q.Prompt()).
		Options(huh.NewOptions(q.Items...)...).
		Value(&value)

	if err := p.run(ctx, field); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *PromptSource) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.Accessible)
	if p.Theme != nil {
		form = form.WithTheme(p.Theme)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
