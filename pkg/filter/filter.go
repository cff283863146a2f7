package filter

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/olimci/architect/pkg/answers"
	"github.com/olimci/architect/pkg/condition"
	"github.com/olimci/architect/pkg/config"
	"golang.org/x/sync/errgroup"
)

const gitDir = ".git"

type conditional struct {
	condition string
	matcher   *Matcher
}

// Decider holds compiled filters. It is read-only after New and safe for
// concurrent use.
type Decider struct {
	conditionals  []conditional
	includeHidden Patterns
	exclude       Patterns
	templates     Patterns
	nonTemplates  Patterns

	evaluator condition.Evaluator
	options   *options
}

// New compiles filters. A nil evaluator selects the expr engine.
func New(filters config.Filters, evaluator condition.Evaluator, opts ...Option) (*Decider, error) {
	if evaluator == nil {
		evaluator = condition.NewExpr()
	}

	d := &Decider{
		conditionals: make([]conditional, 0, len(filters.ConditionalFiles)),
		evaluator:    evaluator,
		options:      defaultOptions().apply(opts...),
	}

	for i, cf := range filters.ConditionalFiles {
		m, err := NewMatcher(cf.Matcher)
		if err != nil {
			return nil, &config.SchemaError{Path: fmt.Sprintf("filters.conditionalFiles[%d].matcher", i), Err: err}
		}
		d.conditionals = append(d.conditionals, conditional{condition: cf.Condition, matcher: m})
	}

	var err error
	for _, group := range []struct {
		name  string
		globs []string
		dst   *Patterns
	}{
		{"includeHidden", filters.IncludeHidden, &d.includeHidden},
		{"exclude", filters.Exclude, &d.exclude},
		{"templates", filters.Templates, &d.templates},
		{"nonTemplates", filters.NonTemplates, &d.nonTemplates},
	} {
		if *group.dst, err = compile(group.globs); err != nil {
			return nil, &config.SchemaError{Path: "filters." + group.name, Err: err}
		}
	}

	return d, nil
}

// Decide returns the decision for a single file. It has no side effects.
func (d *Decider) Decide(path string, scope answers.Context) (Decision, error) {
	exp, err := d.Explain(path, scope)
	return exp.Decision, err
}

// Explain applies the rules in precedence order and reports the first one
// that settles the decision.
func (d *Decider) Explain(path string, scope answers.Context) (Explanation, error) {
	path, err := Clean(path)
	if err != nil {
		return Explanation{}, err
	}

	if m, ok := d.exclude.MatchAny(path); ok {
		return Explanation{Skip, fmt.Sprintf("excluded by %q", m)}, nil
	}

	segments := strings.Split(path, "/")
	for _, segment := range segments {
		if segment == gitDir {
			return Explanation{Skip, "git metadata"}, nil
		}
	}

	for _, segment := range segments {
		if strings.HasPrefix(segment, ".") {
			if _, ok := d.includeHidden.MatchAny(path); !ok {
				return Explanation{Skip, "hidden"}, nil
			}
			break
		}
	}

	for _, c := range d.conditionals {
		if !c.matcher.Match(path) {
			continue
		}

		ok, err := d.evaluator.Evaluate(c.condition, scope)
		if err != nil {
			return Explanation{}, &EvaluationError{Path: path, Condition: c.condition, Err: err}
		}
		if !ok {
			return Explanation{Skip, fmt.Sprintf("condition %q is false", c.condition)}, nil
		}
	}

	if len(d.templates) > 0 {
		if m, ok := d.templates.MatchAny(path); ok {
			return Explanation{IncludeRender, fmt.Sprintf("template %q", m)}, nil
		}
		return Explanation{IncludeVerbatim, "not a template"}, nil
	}

	if m, ok := d.nonTemplates.MatchAny(path); ok {
		return Explanation{IncludeVerbatim, fmt.Sprintf("non-template %q", m)}, nil
	}
	return Explanation{IncludeRender, "rendered by default"}, nil
}

// Entry is one file of a Plan.
type Entry struct {
	Path string
	Explanation
}

// Plan holds decisions in the order the paths were given.
type Plan []Entry

// Included returns the entries that are not skipped.
func (p Plan) Included() Plan {
	out := make(Plan, 0, len(p))
	for _, e := range p {
		if e.Decision.Included() {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries have decision dec.
func (p Plan) Count(dec Decision) int {
	n := 0
	for _, e := range p {
		if e.Decision == dec {
			n++
		}
	}
	return n
}

// DecideAll decides every path concurrently. The first failure cancels the
// remaining work and no plan is returned.
func (d *Decider) DecideAll(ctx context.Context, paths []string, scope answers.Context) (Plan, error) {
	plan := make(Plan, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if d.options.workers > 0 {
		g.SetLimit(d.options.workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			exp, err := d.Explain(path, scope)
			if err != nil {
				return err
			}

			plan[i] = Entry{Path: path, Explanation: exp}
			d.options.logger.Debug("decided", "path", path, "decision", exp.Decision, "reason", exp.Reason)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Clean normalizes a template-relative path and rejects paths that are
// absolute or leave the template root.
func Clean(path string) (string, error) {
	p := strings.ReplaceAll(path, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}

	if !fs.ValidPath(p) || p == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return p, nil
}
