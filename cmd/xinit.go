package cmd

import (
	"context"

	"github.com/olimci/architect/pkg/question"
	"github.com/urfave/cli/v3"
)

func runXInit(ctx context.Context, cmd *cli.Command) error {
	return scaffold(ctx, cmd, question.Defaults)
}
