package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/zlang-dev/zlang/cli/cmd"
	"github.com/zlang-dev/zlang/pkg"
)

// CLI is the top-level command-line interface for zlang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Execute a script, or start the REPL with no arguments"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Reformat source code"`
	Repl cmd.Repl `cmd:""                    help:"Start the interactive REPL"`
	Web  cmd.Web  `cmd:""                    help:"Serve the browser playground"`
}

// Run executes the zlang CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless
	// of flag position.
	cli.Log.scan(args)

	vars := kong.Vars{}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
			}),
		kong.Configuration(resolve, configPath(baseConfig)+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCacheDir(ctx, cacheDir())

	cli.Log.start(ctx)

	// start is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
