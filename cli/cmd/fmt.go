package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zlang-dev/zlang/lang"
)

// Fmt reads source, parses it, and reprints it with normalized layout.
type Fmt struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(_ context.Context) error {
	var file *os.File

	if f.Source == "-" {
		file = os.Stdin
	} else {
		var err error

		file, err = os.Open(f.Source)
		if err != nil {
			return err
		}
		defer file.Close()
	}

	source, err := io.ReadAll(file)
	if err != nil {
		return lang.ErrReadInput.Wrap(err).
			With(slog.String("source", f.Source))
	}

	formatted, err := lang.FormatSource(string(source), f.Indent)
	if err != nil {
		return err
	}

	fmt.Print(formatted)

	return nil
}
