package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olimci/architect/pkg/config"
	"github.com/olimci/architect/pkg/utils/fileutils"
	"github.com/urfave/cli/v3"
)

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("expected exactly one config file")
	}
	path := strings.TrimSpace(cmd.Args().First())

	raw, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := config.Build(raw); err != nil {
		return err
	}

	name, err := outputName(path, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	gen := func(w io.Writer) error {
		return config.Encode(name, w, raw)
	}

	output := strings.TrimSpace(cmd.String("output"))
	if output == "" {
		return gen(os.Stdout)
	}

	if err := fileutils.AtomicWrite(output, 0o644, gen); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

// outputName picks the file name whose extension selects the encoder: an
// explicit format wins, then the output file, then the input file.
func outputName(input, format, output string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "":
	case "json":
		return "config.json", nil
	case "yaml", "yml":
		return "config.yaml", nil
	case "toml":
		return "config.toml", nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: json, yaml, toml)", format)
	}

	if output = strings.TrimSpace(output); output != "" && filepath.Ext(output) != "" {
		return output, nil
	}
	return input, nil
}
