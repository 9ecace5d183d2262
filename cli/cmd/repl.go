package cmd

import (
	"context"

	"github.com/zlang-dev/zlang/cli/cmd/repl"
	"github.com/zlang-dev/zlang/log"
)

// Repl starts the interactive read-eval-print loop.
type Repl struct{}

// Run executes the repl command.
func (*Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, cacheDirFrom(ctx), log.Default())
}
