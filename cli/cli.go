package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/criterion/cli/cmd"
	"github.com/ardnew/criterion/pkg"
	"github.com/ardnew/criterion/table"
)

// CLI is the top-level command-line interface for criterion.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source []string `help:"Sample table file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
	Check cmd.Check `cmd:"" help:"Validate a formula against the sample columns"`
	Fmt   cmd.Fmt   `cmd:"" help:"Print a formula in canonical form"`
	Funcs cmd.Funcs `cmd:"" help:"List builtin functions"`
	Repl  cmd.Repl  `cmd:"" help:"Edit and evaluate formulas interactively"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a formula against each sample row"`
}

// Run executes the criterion CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
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

	configFilePath := configPath()

	vars := kong.Vars{
		"version":                  pkg.Version(),
		cmd.ConfigIdentifier:       configFilePath,
		cmd.CacheIdentifier:        cacheDir(),
		cmd.HistoryIdentifier:      pkg.HistoryPath(),
		cmd.TableFormatsIdentifier: strings.Join(table.Formats(), ","),
		cmd.EvalOutputsIdentifier:  strings.Join(cmd.EvalOutputs(), ","),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
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
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
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
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
