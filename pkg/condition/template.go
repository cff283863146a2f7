package condition

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/olimci/architect/pkg/utils/lazy"
)

var funcs = lazy.New(sprig.TxtFuncMap)

// Template evaluates conditions by executing the wrapped expression with
// text/template and judging the rendered output.
type Template struct{}

func NewTemplate() *Template {
	return &Template{}
}

func (t *Template) Evaluate(condition string, scope map[string]any) (bool, error) {
	wrapped := Wrap(condition)

	tmpl, err := template.New("condition").
		Funcs(funcs.Get()).
		Option("missingkey=zero").
		Parse(wrapped)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", wrapped, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, scope); err != nil {
		return false, fmt.Errorf("executing %s: %w", wrapped, err)
	}

	return TruthyString(b.String()), nil
}
