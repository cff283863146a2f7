package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/olimci/architect/pkg/config"
	"github.com/olimci/architect/pkg/question"
	"github.com/olimci/architect/pkg/source"
	"github.com/urfave/cli/v3"
)

// loadedTemplate is a resolved source together with its parsed config.
type loadedTemplate struct {
	src  source.Source
	tree fs.FS
	cfg  *config.Config

	// dir is the local template directory, empty for remote sources.
	dir string
	// rootDir is what templates see as __template__.file.rootDir.
	rootDir string
}

func (t *loadedTemplate) Close() error {
	return t.src.Close()
}

func openTemplate(ctx context.Context, cmd *cli.Command, target string, logger *log.Logger) (*loadedTemplate, error) {
	var opts []source.RemoteOption
	opts = append(opts, source.WithLogger(logger))
	if branch := strings.TrimSpace(cmd.String("branch")); branch != "" {
		opts = append(opts, source.WithBranch(branch))
	}
	if logger.GetLevel() <= log.DebugLevel {
		opts = append(opts, source.WithProgress(os.Stderr))
	}

	src, err := source.Resolve(target, opts...)
	if err != nil {
		return nil, err
	}

	sub := strings.TrimSpace(cmd.String("template"))

	t := &loadedTemplate{src: source.Sub(src, sub)}
	switch s := src.(type) {
	case *source.OSSource:
		dir, err := filepath.Abs(filepath.Join(s.Dir(), filepath.FromSlash(sub)))
		if err != nil {
			return nil, fmt.Errorf("resolving template directory: %w", err)
		}
		t.dir = dir
		t.rootDir = dir
	case *source.RemoteSource:
		t.rootDir = s.URL()
		if sub != "" {
			t.rootDir += "/" + sub
		}
	}

	if err := t.reload(ctx, logger); err != nil {
		t.Close()
		return nil, err
	}

	return t, nil
}

// reload reopens the tree and re-reads the config.
func (t *loadedTemplate) reload(ctx context.Context, logger *log.Logger) error {
	tree, err := source.Open(ctx, t.src)
	if err != nil {
		return err
	}

	cfg, err := config.Load(tree, config.WithLogger(logger))
	if err != nil {
		return err
	}

	t.tree = tree
	t.cfg = cfg
	return nil
}

func printQuestions(cfg *config.Config) error {
	name := cfg.Name
	if name == "" {
		name = "template"
	}
	fmt.Printf("Questions for %s:\n", name)

	if len(cfg.Questions) == 0 {
		fmt.Println("- (none)")
		return nil
	}

	for _, q := range cfg.Questions {
		line := fmt.Sprintf("- %s [%s]", q.Name(), q.Type())
		if q.Prompt() != q.Name() {
			line += fmt.Sprintf(" %q", q.Prompt())
		}
		if def, ok := question.DefaultString(q); ok {
			line += fmt.Sprintf(" (default: %s)", def)
		}
		fmt.Println(line)

		switch q := q.(type) {
		case *question.SelectionQuestion:
			mode := "one of"
			if q.Multi {
				mode = "any of"
			}
			fmt.Printf("  %s: %s\n", mode, strings.Join(q.Items, ", "))
		case *question.CustomQuestion:
			fmt.Printf("  format: %s\n", q.Format)
		}
	}

	return nil
}
