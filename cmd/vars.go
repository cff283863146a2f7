package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/olimci/architect/pkg/source"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// parseInitArgs reads `<source> [directory]`, where the source may instead
// come from --source. The directory defaults to the source's name.
func parseInitArgs(cmd *cli.Command) (string, string, error) {
	sourceFlag := strings.TrimSpace(cmd.String("source"))
	target := ""
	src := ""

	switch cmd.NArg() {
	case 0:
	case 1:
		arg := strings.TrimSpace(cmd.Args().Get(0))
		if sourceFlag != "" {
			target = arg
		} else {
			src = arg
		}
	case 2:
		if sourceFlag != "" {
			return "", "", fmt.Errorf("too many arguments when --source is set")
		}
		src = strings.TrimSpace(cmd.Args().Get(0))
		target = strings.TrimSpace(cmd.Args().Get(1))
	default:
		return "", "", fmt.Errorf("too many arguments")
	}

	if src == "" {
		src = sourceFlag
	} else if sourceFlag != "" {
		return "", "", fmt.Errorf("source provided both as arg and --source")
	}
	if src == "" {
		return "", "", fmt.Errorf("a template source is required")
	}

	if target == "" {
		target = defaultTarget(src, cmd.String("template"))
	}

	return src, target, nil
}

func defaultTarget(src, sub string) string {
	if sub = strings.Trim(strings.TrimSpace(sub), "/"); sub != "" {
		return source.Name(sub)
	}
	if name := source.Name(src); name != "" && name != "." && name != ".." {
		return name
	}
	return "."
}

func loadVars(varsFile string, pairs []string) (map[string]any, error) {
	vars := make(map[string]any)

	if varsFile != "" {
		fileVars, err := readVarsFile(varsFile)
		if err != nil {
			return nil, err
		}
		for key, value := range fileVars {
			vars[key] = value
		}
	}

	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q (expected key=value)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid --var %q (empty key)", pair)
		}
		vars[key] = strings.TrimSpace(val)
	}

	return vars, nil
}

func readVarsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vars file: %w", err)
	}

	var decoded map[string]any
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &decoded); err != nil {
			return nil, fmt.Errorf("parsing vars file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("parsing vars file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("parsing vars file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported vars file extension %q", ext)
	}

	if decoded == nil {
		return map[string]any{}, nil
	}

	if nested, ok := decoded["answers"]; ok {
		if asMap, ok := nested.(map[string]any); ok {
			return asMap, nil
		}
	}

	return decoded, nil
}
