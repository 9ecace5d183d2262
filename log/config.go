package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// Levels returns the names of all defined log levels.
func Levels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "trace", "debug", "info", "warn", and "error".
// Unrecognized strings yield [DefaultLevel].
func ParseLevel(s string) Level {
	// slog.Level.UnmarshalText doesn't recognize "trace"
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	l := new(slog.Level)

	err := l.UnmarshalText([]byte(s))
	if err != nil {
		return DefaultLevel
	}

	return Level(*l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// ParseFormat parses a string representation of a log format.
// Valid format strings are "json" and "text".
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// config holds the configuration options for a Logger.
type config struct {
	output     io.Writer
	timeLayout string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// makeConfig creates a new config with defaults applied, overridden by any
// provided options.
func makeConfig(w io.Writer, opts ...Option) config {
	if w == nil {
		w = io.Discard
	}

	cfg := config{
		output:     w,
		timeLayout: DefaultTimeLayout,
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     false,
		pretty:     true,
	}

	return apply(cfg, opts...)
}

// WithOutput returns a functional option that sets the output [io.Writer]
// for log messages.
// If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel returns a functional option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat returns a functional option that sets the output format
// for log messages.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout returns a functional option that sets the layout used to
// format log timestamps. An empty layout disables timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.timeLayout = resolveTimeLayout(layout)

		return c
	}
}

// WithCaller returns a functional option that controls whether caller
// information is included in log output.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty returns a functional option that controls whether text output
// uses colorized pretty printing.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// handler creates a slog.Handler based on the current configuration.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					if c.timeLayout == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(t.Format(c.timeLayout))
				}
			}

			// Show "trace" instead of "DEBUG-4".
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(
						strings.ToUpper(Level(level).String()),
					)
				}
			}

			return a
		},
	}

	if c.format == FormatJSON {
		return slog.NewJSONHandler(c.output, opts)
	}

	if c.pretty {
		return newPrettyTextHandler(c.output, opts, c.timeLayout)
	}

	return slog.NewTextHandler(c.output, opts)
}

// timeLayout maps named layouts to their corresponding time.Time constants.
var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"none":        "",
}

// resolveTimeLayout maps a named layout (case-insensitive) to its time
// package constant. Custom layouts pass through verbatim.
func resolveTimeLayout(layout string) string {
	if std, ok := timeLayout[strings.ToLower(strings.TrimSpace(layout))]; ok {
		return std
	}

	return layout
}
