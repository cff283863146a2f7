// Package config loads and validates the template configuration found at
// the root of a template.
package config

import (
	"slices"

	"github.com/olimci/architect/pkg/question"
)

// FileNames are the recognised config files, in lookup order.
var FileNames = []string{
	".architect.json",
	".architect.yaml",
	".architect.yml",
	".architect.toml",
}

// Config is a validated template configuration.
type Config struct {
	Name      string
	Version   string
	Questions []question.Question
	Filters   Filters

	// File is the config file name relative to the template root, empty when
	// the template has none.
	File string
}

// Empty returns the configuration of a template without a config file.
func Empty() *Config {
	return &Config{}
}

// Raw is the canonical decoded document, before validation.
type Raw struct {
	Name      string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" mapstructure:"name"`
	Version   string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty" mapstructure:"version"`
	Questions []question.Spec `json:"questions,omitempty" yaml:"questions,omitempty" toml:"questions,omitempty" mapstructure:"questions"`
	Filters   *Filters        `json:"filters,omitempty" yaml:"filters,omitempty" toml:"filters,omitempty" mapstructure:"filters"`
}

type Filters struct {
	ConditionalFiles []ConditionalFile `json:"conditionalFiles,omitempty" yaml:"conditionalFiles,omitempty" toml:"conditionalFiles,omitempty" mapstructure:"conditionalFiles"`
	IncludeHidden    []string          `json:"includeHidden,omitempty" yaml:"includeHidden,omitempty" toml:"includeHidden,omitempty" mapstructure:"includeHidden"`
	Exclude          []string          `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude"`
	Templates        []string          `json:"templates,omitempty" yaml:"templates,omitempty" toml:"templates,omitempty" mapstructure:"templates"`
	NonTemplates     []string          `json:"nonTemplates,omitempty" yaml:"nonTemplates,omitempty" toml:"nonTemplates,omitempty" mapstructure:"nonTemplates"`
}

// ConditionalFile gates the files matched by Matcher on Condition.
type ConditionalFile struct {
	Condition string `json:"condition" yaml:"condition" toml:"condition" mapstructure:"condition"`
	Matcher   string `json:"matcher" yaml:"matcher" toml:"matcher" mapstructure:"matcher"`
}

// Legacy is the older flat document shape, with filters at the top level.
type Legacy struct {
	Name             string            `mapstructure:"name"`
	Version          string            `mapstructure:"version"`
	Questions        []question.Spec   `mapstructure:"questions"`
	ConditionalFiles []ConditionalFile `mapstructure:"conditionalFiles"`
	IncludeHidden    []string          `mapstructure:"includeHidden"`
	Exclude          []string          `mapstructure:"exclude"`
}

func (l Legacy) hasFilters() bool {
	return l.ConditionalFiles != nil || l.IncludeHidden != nil || l.Exclude != nil
}

// Migrate converts a legacy document into the canonical shape.
func Migrate(l Legacy) Raw {
	raw := Raw{
		Name:      l.Name,
		Version:   l.Version,
		Questions: slices.Clone(l.Questions),
	}

	if l.hasFilters() {
		raw.Filters = &Filters{
			ConditionalFiles: slices.Clone(l.ConditionalFiles),
			IncludeHidden:    slices.Clone(l.IncludeHidden),
			Exclude:          slices.Clone(l.Exclude),
		}
	}

	return raw
}

// merge fills the fields of f that are unset from other.
func (f *Filters) merge(other *Filters) *Filters {
	if other == nil {
		return f
	}
	if f == nil {
		return other
	}

	out := *f
	if out.ConditionalFiles == nil {
		out.ConditionalFiles = other.ConditionalFiles
	}
	if out.IncludeHidden == nil {
		out.IncludeHidden = other.IncludeHidden
	}
	if out.Exclude == nil {
		out.Exclude = other.Exclude
	}
	if out.Templates == nil {
		out.Templates = other.Templates
	}
	if out.NonTemplates == nil {
		out.NonTemplates = other.NonTemplates
	}
	return &out
}
