package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olimci/architect/pkg/condition"
	"github.com/olimci/architect/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "architect",
		Usage: "Scaffold new projects from template directories and repositories",
		// --var values hold comma-separated selections.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output"},
			&cli.StringFlag{
				Name:  "condition-engine",
				Value: condition.EngineExpr,
				Usage: fmt.Sprintf("Engine for conditional file expressions (%s or %s)", condition.EngineExpr, condition.EngineTemplate),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "print version",
				Action: runVersion,
			},
			{
				Name:      "init",
				Usage:     "Scaffold a new project from a template",
				ArgsUsage: "<source> [directory]",
				Flags:     initFlags(),
				Action:    runInit,
			},
			{
				Name:      "plan",
				Usage:     "Show which files a template would produce, without writing anything",
				ArgsUsage: "<source>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "Template subdirectory within the source"},
					&cli.StringFlag{Name: "branch", Aliases: []string{"b"}, Usage: "Branch to clone for git sources"},
					&cli.StringSliceFlag{Name: "var", Usage: "Answer (key=value, repeatable)"},
					&cli.StringFlag{Name: "vars-file", Usage: "Answers file (.toml, .yaml, .yml, .json)"},
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Also list skipped files"},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "Re-plan whenever a local template changes"},
					&cli.DurationFlag{Name: "debounce", Value: 250 * time.Millisecond, Usage: "Debounce window for --watch"},
				},
				Action: runPlan,
			},
			{
				Name:      "migrate",
				Usage:     "Rewrite a legacy config file in the current shape",
				ArgsUsage: "<config file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format (json, yaml, toml); defaults to the input format"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
				},
				Action: runMigrate,
			},
			xCmd(),
		},
	}

	return app.Run(ctx, args)
}

func newLogger(cmd *cli.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})
	if cmd.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newEvaluator(cmd *cli.Command) (condition.Evaluator, error) {
	return condition.New(cmd.String("condition-engine"))
}
