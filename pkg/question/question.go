// Package question models template questions and collects their answers
// into a nested context.
package question

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/olimci/architect/pkg/answers"
)

type Type string

const (
	Identifier Type = "Identifier"
	Option     Type = "Option"
	Text       Type = "Text"
	Selection  Type = "Selection"
	Custom     Type = "Custom"
)

var Types = []Type{Identifier, Option, Text, Selection, Custom}

// Spec is the raw, decoded form of a question.
type Spec struct {
	Name    string   `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
	Type    Type     `json:"type" yaml:"type" toml:"type" mapstructure:"type"`
	Pretty  string   `json:"pretty,omitempty" yaml:"pretty,omitempty" toml:"pretty,omitempty" mapstructure:"pretty"`
	Default any      `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty" mapstructure:"default"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty" mapstructure:"items"`
	Multi   bool     `json:"multi,omitempty" yaml:"multi,omitempty" toml:"multi,omitempty" mapstructure:"multi"`
	Format  string   `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" mapstructure:"format"`
}

// Question is one of *SimpleQuestion, *SelectionQuestion or *CustomQuestion.
type Question interface {
	Name() string
	Path() answers.Path
	Prompt() string
	Type() Type

	question()
}

type base struct {
	name   string
	path   answers.Path
	pretty string
}

func (b base) Name() string       { return b.name }
func (b base) Path() answers.Path { return b.path }

// Prompt returns the pretty text, falling back to the name.
func (b base) Prompt() string {
	if b.pretty != "" {
		return b.pretty
	}
	return b.name
}

// SimpleQuestion covers Identifier, Option and Text questions.
type SimpleQuestion struct {
	base
	kind Type

	// Default is the normalized default; "true"/"false" for Option.
	Default *string
}

func (q *SimpleQuestion) Type() Type { return q.kind }
func (q *SimpleQuestion) question()  {}

type SelectionQuestion struct {
	base
	Items   []string
	Multi   bool
	Default []string
}

func (q *SelectionQuestion) Type() Type { return Selection }
func (q *SelectionQuestion) question()  {}

type CustomQuestion struct {
	base
	Format  string
	Pattern *regexp.Regexp
	Default *string
}

func (q *CustomQuestion) Type() Type { return Custom }
func (q *CustomQuestion) question()  {}

// New validates a spec and builds the matching question. Every structural
// check happens here so nothing invalid reaches the prompt.
func New(spec Spec) (Question, error) {
	name := strings.TrimSpace(spec.Name)

	path, err := answers.ParsePath(name)
	if err != nil {
		return nil, invalid(name, err)
	}
	if path[0] == answers.TemplateKey {
		return nil, invalid(name, fmt.Errorf("%s is reserved", answers.TemplateKey))
	}

	b := base{
		name:   name,
		path:   path,
		pretty: strings.TrimSpace(spec.Pretty),
	}

	switch spec.Type {
	case Identifier, Text:
		def, err := stringDefault(spec.Default)
		if err != nil {
			return nil, invalid(name, err)
		}
		if def != nil && spec.Type == Identifier {
			if _, err := answers.ParsePath(*def); err != nil {
				return nil, &Error{Question: name, Err: fmt.Errorf("%w: default %q is not an identifier", ErrValidation, *def)}
			}
		}
		return &SimpleQuestion{base: b, kind: spec.Type, Default: def}, nil

	case Option:
		def, err := optionDefault(spec.Default)
		if err != nil {
			return nil, invalid(name, err)
		}
		return &SimpleQuestion{base: b, kind: Option, Default: def}, nil

	case Selection:
		return newSelection(b, spec)

	case Custom:
		return newCustom(b, spec)

	case "":
		return nil, invalid(name, fmt.Errorf("missing type"))

	default:
		return nil, invalid(name, fmt.Errorf("unknown type %q", spec.Type))
	}
}

func newSelection(b base, spec Spec) (*SelectionQuestion, error) {
	if len(spec.Items) == 0 {
		return nil, invalid(b.name, fmt.Errorf("selection has no items"))
	}

	items := make([]string, 0, len(spec.Items))
	for _, item := range spec.Items {
		item = strings.TrimSpace(item)
		if !answers.IsIdentifier(item) {
			return nil, invalid(b.name, fmt.Errorf("item %q is not an identifier", item))
		}
		if slices.Contains(items, item) {
			return nil, invalid(b.name, fmt.Errorf("duplicate item %q", item))
		}
		items = append(items, item)
	}

	q := &SelectionQuestion{base: b, Items: items, Multi: spec.Multi}

	if spec.Default != nil {
		def, err := q.selected(spec.Default)
		if err != nil {
			return nil, &Error{Question: b.name, Err: fmt.Errorf("default: %w", err)}
		}
		q.Default = def
	}

	return q, nil
}

func newCustom(b base, spec Spec) (*CustomQuestion, error) {
	format := strings.TrimSpace(spec.Format)
	if format == "" {
		return nil, invalid(b.name, fmt.Errorf("custom question requires a format"))
	}

	pattern, err := regexp.Compile(`^(?:` + format + `)$`)
	if err != nil {
		return nil, invalid(b.name, fmt.Errorf("format %q: %w", format, err))
	}

	def, err := stringDefault(spec.Default)
	if err != nil {
		return nil, invalid(b.name, err)
	}

	q := &CustomQuestion{base: b, Format: format, Pattern: pattern, Default: def}

	if def != nil {
		if err := q.check(*def); err != nil {
			return nil, &Error{Question: b.name, Err: fmt.Errorf("default: %w", err)}
		}
	}

	return q, nil
}

func stringDefault(v any) (*string, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &d, nil
	case bool:
		s := strconv.FormatBool(d)
		return &s, nil
	default:
		return nil, fmt.Errorf("default must be a string or boolean, got %T", v)
	}
}

func optionDefault(v any) (*string, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case bool:
		s := strconv.FormatBool(d)
		return &s, nil
	case string:
		b, err := parseBool(d)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		s := strconv.FormatBool(b)
		return &s, nil
	default:
		return nil, fmt.Errorf("default must be a boolean, got %T", v)
	}
}
