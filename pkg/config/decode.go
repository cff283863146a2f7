package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// document accepts both the canonical and the legacy flat shape.
type document struct {
	Raw `mapstructure:",squash"`

	ConditionalFiles []ConditionalFile `mapstructure:"conditionalFiles"`
	IncludeHidden    []string          `mapstructure:"includeHidden"`
	Exclude          []string          `mapstructure:"exclude"`
}

// Decode reads a config document, choosing the format by the extension of
// filename. Legacy top-level filter keys are migrated into Filters, with
// keys from a nested filters object taking precedence.
func Decode(filename string, r io.Reader) (Raw, error) {
	var generic map[string]any
	if err := decodeConfigFile(filename, r, &generic); err != nil {
		return Raw{}, &SchemaError{Err: fmt.Errorf("decoding %s: %w", filename, err)}
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &doc,
		TagName: "mapstructure",
	})
	if err != nil {
		return Raw{}, err
	}

	if err := dec.Decode(generic); err != nil {
		return Raw{}, &SchemaError{Err: err}
	}

	raw := doc.Raw
	legacy := Legacy{
		Name:             doc.Name,
		Version:          doc.Version,
		Questions:        doc.Questions,
		ConditionalFiles: doc.ConditionalFiles,
		IncludeHidden:    doc.IncludeHidden,
		Exclude:          doc.Exclude,
	}
	if legacy.hasFilters() {
		raw.Filters = raw.Filters.merge(Migrate(legacy).Filters)
	}

	return raw, nil
}

func decodeConfigFile(filename string, r io.Reader, v any) error {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".toml":
		_, err := toml.NewDecoder(r).Decode(v)
		if err != nil {
			return err
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return fmt.Errorf("unexpected extra YAML document")
			}
			return err
		}
		return nil
	case ".json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return fmt.Errorf("unexpected extra content after JSON document")
			}
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config file type %q (supported: .json, .yaml, .yml, .toml)", ext)
	}
}

// Encode writes raw in the format chosen by the extension of filename.
func Encode(filename string, w io.Writer, raw Raw) error {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".toml":
		return toml.NewEncoder(w).Encode(raw)
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return err
		}
		return enc.Close()
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(raw)
	default:
		return fmt.Errorf("unsupported config file type %q (supported: .json, .yaml, .yml, .toml)", ext)
	}
}
