package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/zlang-dev/zlang/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"    enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start finalizes the logger configuration with all parsed values,
// including TimeLayout and Caller which don't use TextUnmarshaler.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured regardless of flag position on the command line.
//
// logFormat and logLevel configure the logger as flags are encountered
// during parsing, but boolean flags like Pretty don't go through
// TextUnmarshaler; this pre-scan catches them.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		// Non-boolean flags consume the next argument when unassigned.
		takeValue := func() string {
			if assigned {
				return value
			}

			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return ""
		}

		// Boolean flags only parse a value when explicitly assigned.
		takeBool := func() bool {
			if !assigned {
				return true
			}

			v, err := strconv.ParseBool(value)
			if err != nil {
				return true
			}

			return v
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(takeValue()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(takeValue()))

		case "--log-pretty":
			f.Pretty = takeBool()

			log.Config(log.WithPretty(f.Pretty))

		case "--no-log-pretty":
			f.Pretty = !takeBool()

			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller":
			f.Caller = takeBool()

			log.Config(log.WithCaller(f.Caller))

		case "--no-log-caller":
			f.Caller = !takeBool()

			log.Config(log.WithCaller(f.Caller))
		}
	}
}
