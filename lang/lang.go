// Package lang implements the ZLang pipeline: a lexer over the slang
// keyword vocabulary, a recursive-descent parser, and a tree-walking
// evaluator with lexical scoping and first-class functions.
package lang

import (
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/zlang-dev/zlang/log"
)

// Interpreter executes programs against a persistent top-level environment
// seeded with the built-in registry. A single Interpreter serves an entire
// REPL session; file execution uses a fresh one.
type Interpreter struct {
	globals *Env
	stdout  io.Writer
	logger  log.Logger
	rng     *rand.Rand
}

// New creates an interpreter with a fresh top-level environment whose
// parent is the built-in registry.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		stdout: os.Stdout,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.rng == nil {
		in.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	in.globals = NewEnv(newBuiltinEnv(in.rng))

	return in
}

// Globals returns the persistent top-level environment.
func (in *Interpreter) Globals() *Env { return in.globals }

// Execute lexes, parses, and runs a source string in the persistent
// top-level environment. It returns the value of a trailing bare
// expression statement, the value of a top-level vibe, or Null.
//
// On error, bindings created by statements before the failing one are
// retained; the failing statement itself leaves no binding.
func (in *Interpreter) Execute(source string) (Value, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}

	return in.ExecuteProgram(program)
}

// ExecuteProgram runs an already-parsed program in the persistent
// top-level environment.
func (in *Interpreter) ExecuteProgram(program *Program) (Value, error) {
	in.logger.Trace(
		"execute program",
		slog.Int("statements", len(program.Stmts)),
	)

	result := Value(Null{})

	for _, stmt := range program.Stmts {
		out, err := in.execStmt(stmt, in.globals)
		if err != nil {
			in.logger.Trace("execute failed", slog.Any("error", err))

			return nil, err
		}

		switch out.sig {
		case sigReturn:
			// A top-level vibe ends the program with its value.
			return out.value, nil

		case sigBreak, sigContinue:
			// Absorbed at the statement-sequence boundary.
			return result, nil

		default:
			if _, ok := stmt.(*ExprStmt); ok {
				result = out.value
			} else {
				result = Null{}
			}
		}
	}

	return result, nil
}
