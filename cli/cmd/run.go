package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/zlang-dev/zlang/cli/cmd/repl"
	"github.com/zlang-dev/zlang/lang"
	"github.com/zlang-dev/zlang/log"
)

// Run executes a source file, or starts the REPL when no file is given.
type Run struct {
	Script string `arg:"" optional:"" help:"Source file to execute (.zlang by convention)" name:"script" type:"existingfile"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	if r.Script == "" {
		return repl.Run(ctx, cacheDirFrom(ctx), log.Default())
	}

	source, err := os.ReadFile(r.Script)
	if err != nil {
		return lang.ErrReadInput.Wrap(err).
			With(slog.String("script", r.Script))
	}

	log.TraceContext(ctx, "run script",
		slog.String("script", r.Script),
		slog.Int("bytes", len(source)),
	)

	// File execution uses a fresh top-level environment.
	in := lang.New(lang.WithLogger(log.Default()))

	if _, err := in.Execute(string(source)); err != nil {
		return err
	}

	return nil
}
