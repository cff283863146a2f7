package cmd

import (
	"github.com/urfave/cli/v3"
)

// xCmd returns the non-interactive subcommand group
func xCmd() *cli.Command {
	return &cli.Command{
		Name:  "x",
		Usage: "Non-interactive commands (for scripts and CI)",
		Commands: []*cli.Command{
			xInitCmd(),
		},
	}
}

func xInitCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new project without prompting (answers from --var, --vars-file and defaults)",
		ArgsUsage: "<source> [directory]",
		Flags:     initFlags(),
		Action:    runXInit,
	}
}
