package lang

import (
	"io"
	"math/rand"

	"github.com/zlang-dev/zlang/log"
)

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithStdout sets the destination for bruh output.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) {
		if w != nil {
			in.stdout = w
		}
	}
}

// WithLogger sets the trace logger.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithRand sets the generator backing the random() built-in. Tests use
// this to make random() deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(in *Interpreter) {
		in.rng = rng
	}
}
