package lang

import (
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"unicode/utf8"
)

// newBuiltinEnv constructs the root environment holding the built-in
// function registry. Built-ins are ordinary bindings, so user code may
// shadow any of them with bet or flex.
func newBuiltinEnv(rng *rand.Rand) *Env {
	env := NewEnv(nil)

	for _, b := range []*Builtin{
		{Name: "sqrt", Arity: 1, Fn: builtinSqrt},
		{Name: "abs", Arity: 1, Fn: builtinAbs},
		{Name: "random", Arity: 0, Fn: builtinRandom(rng)},
		{Name: "length", Arity: 1, Fn: builtinLength},
		{Name: "uppercase", Arity: 1, Fn: builtinUppercase},
		{Name: "lowercase", Arity: 1, Fn: builtinLowercase},
		{Name: "split", Arity: 2, Fn: builtinSplit},
	} {
		env.Define(b.Name, b)
	}

	return env
}

// BuiltinNames returns the names registered in the root environment.
// Used by REPL completion.
func BuiltinNames() []string {
	return []string{
		"sqrt", "abs", "random", "length", "uppercase", "lowercase", "split",
	}
}

// builtinSqrt returns the square root of a number; NaN for negatives.
func builtinSqrt(args []Value) (Value, error) {
	n, ok := args[0].(Number)
	if !ok {
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "sqrt"),
			slog.String("want", "number"),
			slog.String("got", args[0].Kind().String()),
		)
	}

	return Number(math.Sqrt(float64(n))), nil
}

// builtinAbs returns the magnitude of a number.
func builtinAbs(args []Value) (Value, error) {
	n, ok := args[0].(Number)
	if !ok {
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "abs"),
			slog.String("want", "number"),
			slog.String("got", args[0].Kind().String()),
		)
	}

	return Number(math.Abs(float64(n))), nil
}

// builtinRandom returns a pseudo-random number in [0, 1).
func builtinRandom(rng *rand.Rand) BuiltinFunc {
	return func([]Value) (Value, error) {
		return Number(rng.Float64()), nil
	}
}

// builtinLength returns the char count of a string, element count of an
// array, or key count of an object.
func builtinLength(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case String:
		return Number(utf8.RuneCountInString(string(v))), nil
	case *Array:
		return Number(len(v.Elems)), nil
	case *Object:
		return Number(v.Len()), nil
	default:
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "length"),
			slog.String("want", "string, array, or object"),
			slog.String("got", args[0].Kind().String()),
		)
	}
}

// builtinUppercase ASCII upper-cases a string.
func builtinUppercase(args []Value) (Value, error) {
	s, ok := args[0].(String)
	if !ok {
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "uppercase"),
			slog.String("want", "string"),
			slog.String("got", args[0].Kind().String()),
		)
	}

	return String(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}

		return r
	}, string(s))), nil
}

// builtinLowercase ASCII lower-cases a string.
func builtinLowercase(args []Value) (Value, error) {
	s, ok := args[0].(String)
	if !ok {
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "lowercase"),
			slog.String("want", "string"),
			slog.String("got", args[0].Kind().String()),
		)
	}

	return String(strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r - 'A' + 'a'
		}

		return r
	}, string(s))), nil
}

// builtinSplit splits a string around a separator into an array of strings.
func builtinSplit(args []Value) (Value, error) {
	s, sok := args[0].(String)
	sep, pok := args[1].(String)

	if !sok || !pok {
		return nil, ErrTypeMismatch.With(
			slog.String("builtin", "split"),
			slog.String("want", "string, string"),
		)
	}

	parts := strings.Split(string(s), string(sep))

	elems := make([]Value, len(parts))
	for i, part := range parts {
		elems[i] = String(part)
	}

	return NewArray(elems...), nil
}
