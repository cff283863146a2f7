// Package condition evaluates the boolean expressions attached to
// conditional files.
//
// Conditions are written as the body of a template expression: the raw text
// `useDocker` is treated as `{{ useDocker }}`. Results follow handlebars
// truthiness, so empty strings, zero, empty collections and missing values
// are all false.
package condition

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Evaluator decides whether a condition holds for the given scope.
// Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(condition string, scope map[string]any) (bool, error)
}

const (
	EngineExpr     = "expr"
	EngineTemplate = "template"
)

// Engines lists the names accepted by New.
var Engines = []string{EngineExpr, EngineTemplate}

// New returns the evaluator registered under name.
func New(name string) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineExpr:
		return NewExpr(), nil
	case EngineTemplate:
		return NewTemplate(), nil
	default:
		return nil, fmt.Errorf("unknown condition engine %q (supported: %s)", name, strings.Join(Engines, ", "))
	}
}

// Wrap turns a raw condition into a template expression.
func Wrap(condition string) string {
	return "{{ " + strings.TrimSpace(condition) + " }}"
}

// Unwrap strips one pair of expression delimiters, if present.
func Unwrap(expression string) string {
	s := strings.TrimSpace(expression)
	if strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") && len(s) >= 4 {
		return strings.TrimSpace(s[2 : len(s)-2])
	}
	return s
}

// Truthy applies handlebars truthiness to an evaluated value.
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Truthy(rv.Elem().Interface())
	default:
		return true
	}
}

var falsyOutputs = map[string]struct{}{
	"":           {},
	"0":          {},
	"false":      {},
	"null":       {},
	"{}":         {},
	"[]":         {},
	"map[]":      {},
	"<nil>":      {},
	"<no value>": {},
}

// TruthyString applies truthiness to rendered template output.
func TruthyString(rendered string) bool {
	_, falsy := falsyOutputs[strings.TrimSpace(rendered)]
	return !falsy
}
