package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/olimci/architect/pkg/answers"
	"github.com/olimci/architect/pkg/question"
)

// Load reads the config file at the root of fsys. A template without a
// config file yields an empty configuration.
func Load(fsys fs.FS, opts ...Option) (*Config, error) {
	o := defaultOptions().apply(opts...)

	for _, name := range FileNames {
		file, err := fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}

		raw, err := Decode(name, file)
		file.Close()
		if err != nil {
			return nil, err
		}

		cfg, err := Build(raw)
		if err != nil {
			return nil, err
		}
		cfg.File = name

		o.logger.Debug("loaded template config", "file", name, "name", cfg.Name, "questions", len(cfg.Questions))
		return cfg, nil
	}

	o.logger.Debug("no template config found, using defaults")
	return Empty(), nil
}

// LoadFile decodes a single config file without validating it.
func LoadFile(path string) (Raw, error) {
	file, err := os.Open(path)
	if err != nil {
		return Raw{}, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	return Decode(filepath.Base(path), file)
}

// Build validates a raw document. Every question is checked before any is
// asked: names, types, defaults, and collisions between context paths.
func Build(raw Raw) (*Config, error) {
	cfg := &Config{
		Name:      strings.TrimSpace(raw.Name),
		Version:   strings.TrimSpace(raw.Version),
		Questions: make([]question.Question, 0, len(raw.Questions)),
	}

	tree := answers.New()
	for i, spec := range raw.Questions {
		at := fmt.Sprintf("questions[%d]", i)

		q, err := question.New(spec)
		if err != nil {
			return nil, &SchemaError{Path: at, Err: err}
		}

		if err := tree.Insert(q.Path(), question.Placeholder(q)); err != nil {
			return nil, &SchemaError{Path: at, Err: &question.Error{Question: q.Name(), Err: err}}
		}

		cfg.Questions = append(cfg.Questions, q)
	}

	if raw.Filters != nil {
		filters, err := buildFilters(*raw.Filters)
		if err != nil {
			return nil, err
		}
		cfg.Filters = filters
	}

	return cfg, nil
}

func buildFilters(f Filters) (Filters, error) {
	out := Filters{
		ConditionalFiles: make([]ConditionalFile, 0, len(f.ConditionalFiles)),
	}

	for i, cf := range f.ConditionalFiles {
		at := fmt.Sprintf("filters.conditionalFiles[%d]", i)

		cf.Condition = strings.TrimSpace(cf.Condition)
		if cf.Condition == "" {
			return Filters{}, schemaErrorf(at+".condition", "condition is empty")
		}

		matcher, err := pattern(at+".matcher", cf.Matcher)
		if err != nil {
			return Filters{}, err
		}
		cf.Matcher = matcher

		out.ConditionalFiles = append(out.ConditionalFiles, cf)
	}

	var err error
	if out.IncludeHidden, err = patterns("filters.includeHidden", f.IncludeHidden); err != nil {
		return Filters{}, err
	}
	if out.Exclude, err = patterns("filters.exclude", f.Exclude); err != nil {
		return Filters{}, err
	}
	if out.Templates, err = patterns("filters.templates", f.Templates); err != nil {
		return Filters{}, err
	}
	if out.NonTemplates, err = patterns("filters.nonTemplates", f.NonTemplates); err != nil {
		return Filters{}, err
	}

	return out, nil
}

func patterns(at string, in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for i, p := range in {
		p, err := pattern(fmt.Sprintf("%s[%d]", at, i), p)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func pattern(at, p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", schemaErrorf(at, "glob is empty")
	}
	if !doublestar.ValidatePattern(p) {
		return "", schemaErrorf(at, "invalid glob %q", p)
	}
	return p, nil
}
