package question

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/olimci/architect/pkg/answers"
	"github.com/olimci/architect/pkg/condition"
)

// Coerce converts a raw answer into the value stored in the context and
// checks it against the question's constraints.
func Coerce(q Question, raw any) (any, error) {
	switch q := q.(type) {
	case *SimpleQuestion:
		switch q.kind {
		case Option:
			return coerceBool(raw)
		case Identifier:
			s, err := coerceString(raw)
			if err != nil {
				return nil, err
			}
			if _, err := answers.ParsePath(s); err != nil {
				return nil, fmt.Errorf("%w: %q is not a valid identifier", ErrValidation, s)
			}
			return s, nil
		default:
			return coerceString(raw)
		}

	case *SelectionQuestion:
		selected, err := q.selected(raw)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(selected))
		for _, item := range selected {
			out[item] = true
		}
		return out, nil

	case *CustomQuestion:
		s, err := coerceString(raw)
		if err != nil {
			return nil, err
		}
		if err := q.check(s); err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported question type %T", q)
	}
}

func (q *CustomQuestion) check(s string) error {
	if !q.Pattern.MatchString(s) {
		return fmt.Errorf("%w: %q does not match format %q", ErrValidation, s, q.Format)
	}
	return nil
}

// selected normalizes a raw selection, in item order.
func (q *SelectionQuestion) selected(raw any) ([]string, error) {
	var picked []string

	switch v := raw.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				picked = append(picked, part)
			}
		}
	case []string:
		picked = append(picked, v...)
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: selection item %v is not a string", ErrValidation, item)
			}
			picked = append(picked, s)
		}
	case map[string]any:
		for item, on := range v {
			if condition.Truthy(on) {
				picked = append(picked, item)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported selection value %T", ErrValidation, raw)
	}

	for i := range picked {
		picked[i] = strings.TrimSpace(picked[i])
	}

	out := make([]string, 0, len(picked))
	for _, item := range q.Items {
		if slices.Contains(picked, item) {
			out = append(out, item)
		}
	}

	for _, item := range picked {
		if !slices.Contains(q.Items, item) {
			return nil, fmt.Errorf("%w: %q is not one of %s", ErrValidation, item, strings.Join(q.Items, ", "))
		}
	}

	if !q.Multi && len(out) > 1 {
		return nil, fmt.Errorf("%w: only one item may be selected, got %s", ErrValidation, strings.Join(out, ", "))
	}

	return out, nil
}

func coerceString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: expected a string, got %T", ErrValidation, raw)
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := parseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: expected a boolean, got %T", ErrValidation, raw)
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "on":
		return true, nil
	case "n", "no", "off":
		return false, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", s)
	}
	return b, nil
}
