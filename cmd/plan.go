package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/olimci/architect/pkg/question"
	"github.com/olimci/architect/pkg/render"
	"github.com/olimci/architect/pkg/watcher"
	"github.com/urfave/cli/v3"
)

func runPlan(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	if cmd.NArg() != 1 {
		return fmt.Errorf("expected exactly one template source")
	}
	src := strings.TrimSpace(cmd.Args().First())

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

	renderer := render.New(
		render.WithLogger(logger),
		render.WithEvaluator(evaluator),
		render.WithRootDir(tmpl.rootDir),
	)
	printer := newPlanPrinter(outputRich, os.Stdout)
	all := cmd.Bool("all")

	plan := func() error {
		engine := question.NewEngine(question.NewMapSource(vars), question.WithLogger(logger))
		scope, err := engine.Run(ctx, tmpl.cfg.Questions)
		if err != nil {
			return err
		}

		p, err := renderer.Plan(ctx, tmpl.tree, tmpl.cfg, scope)
		if err != nil {
			return err
		}

		printer.PrintPlan(p, all)
		return nil
	}

	if !cmd.Bool("watch") {
		return plan()
	}

	if tmpl.dir == "" {
		return fmt.Errorf("--watch needs a local template directory")
	}

	return watchPlan(ctx, tmpl, cmd, logger, plan)
}

func watchPlan(ctx context.Context, tmpl *loadedTemplate, cmd *cli.Command, logger *log.Logger, plan func() error) error {
	w, err := watcher.New(tmpl.dir, cmd.Duration("debounce"), watcher.DefaultIgnore...)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return err
	}

	logger.Info("watching template", "dir", tmpl.dir)
	if err := plan(); err != nil {
		logger.Error("plan failed", "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case event := <-w.Events:
			logger.Info("re-planning", "reason", event.Reason, "paths", strings.Join(event.Paths, ", "))
			if err := tmpl.reload(ctx, logger); err != nil {
				logger.Error("reloading template failed", "err", err)
				continue
			}
			if err := plan(); err != nil {
				logger.Error("plan failed", "err", err)
			}

		case err := <-w.Errors:
			logger.Warn("watch error", "err", err)
		}
	}
}
