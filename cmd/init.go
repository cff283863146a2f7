package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/olimci/architect/pkg/question"
	"github.com/olimci/architect/pkg/render"
	"github.com/urfave/cli/v3"
)

func initFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Template source (local path or git URL; overrides positional source)",
		},
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "Template subdirectory within the source",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to clone for git sources",
		},
		&cli.StringSliceFlag{
			Name:  "var",
			Usage: "Answer (key=value, repeatable)",
		},
		&cli.StringFlag{
			Name:  "vars-file",
			Usage: "Answers file (.toml, .yaml, .yml, .json)",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Overwrite existing files",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Render and check everything but write nothing",
		},
		&cli.BoolFlag{
			Name:  "no-init",
			Usage: "Do not initialize a git repository in the new project",
		},
		&cli.BoolFlag{
			Name:  "list-questions",
			Usage: "List the template's questions and exit",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress output",
		},
		&cli.BoolFlag{
			Name:  "accessible",
			Usage: "Use plain prompts suitable for screen readers",
		},
	}
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	prompts := question.NewPromptSource(cmd.Bool("accessible") || os.Getenv("ACCESSIBLE") != "")
	return scaffold(ctx, cmd, prompts)
}

// scaffold runs the whole pipeline. Answers come from --var and --vars-file
// first, then from prompt; questions neither answers use their defaults.
func scaffold(ctx context.Context, cmd *cli.Command, prompt question.Source) error {
	logger := newLogger(cmd)

	src, target, err := parseInitArgs(cmd)
	if err != nil {
		return err
	}

	evaluator, err := newEvaluator(cmd)
	if err != nil {
		return err
	}

	vars, err := loadVars(strings.TrimSpace(cmd.String("vars-file")), cmd.StringSlice("var"))
	if err != nil {
		return err
	}

	tmpl, err := openTemplate(ctx, cmd, src, logger)
	if err != nil {
		return err
	}
	defer tmpl.Close()

	if cmd.Bool("list-questions") {
		return printQuestions(tmpl.cfg)
	}

	engine := question.NewEngine(
		question.Chain(question.NewMapSource(vars), prompt),
		question.WithLogger(logger),
	)
	scope, err := engine.Run(ctx, tmpl.cfg.Questions)
	if err != nil {
		return err
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving target directory: %w", err)
	}

	dryRun := cmd.Bool("dry-run")
	renderer := render.New(
		render.WithLogger(logger),
		render.WithEvaluator(evaluator),
		render.WithForce(cmd.Bool("force")),
		render.WithDryRun(dryRun),
		render.WithRootDir(tmpl.rootDir),
	)

	plan, err := renderer.Render(ctx, tmpl.tree, tmpl.cfg, scope, absTarget)
	if err != nil {
		return err
	}

	if !dryRun && !cmd.Bool("no-init") {
		if err := initRepository(absTarget, logger); err != nil {
			return err
		}
	}

	if !cmd.Bool("quiet") {
		newPlanPrinter(outputRich, os.Stdout).PrintResult(plan, target, dryRun)
	}

	return nil
}

// initRepository makes dir a git repository unless it already is one.
func initRepository(dir string, logger *log.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	_, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		logger.Debug("target is already a git repository", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("initializing git repository: %w", err)
	}

	logger.Debug("initialized git repository", "dir", dir)
	return nil
}
