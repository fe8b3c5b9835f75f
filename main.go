package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/jqalt/config"
	"github.com/chrisuehlinger/jqalt/state"
)

const appName = "jqalt"

// initializeAppContext prepares application context before command execution
// but after command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(cmd.Bool("debug")); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
		if er := env.Log.Sync(); er != nil && !isSyncNoise(er) {
			err = multierr.Append(err, fmt.Errorf("unable to flush log: %w", er))
		}
	}
	env.RestoreStdLog()
	return
}

// errWasHandled is set once the error has been logged, so main does not
// report it a second time.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "query, script and inspect HTML documents with a jQuery-style collection API",
		Version:         runtime.Version(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log selector resolution and script errors to console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "query",
				Usage:        "Resolves a selector against a document and prints the matches",
				OnUsageError: usageErrorHandler,
				Action:       runQuery,
				ArgsUsage:    "FILE SELECTOR",
				CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    HTML document to load: path, file://, data: or http(s):// URL, "-" reads STDIN

SELECTOR:
    CSS selector, XPath expression (starting with "/", "./" or "("), HTML
    markup or literal text - resolved in that order
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "run",
				Usage:        "Runs a script with $ bound to the document and prints the result",
				OnUsageError: usageErrorHandler,
				Action:       runScript,
				ArgsUsage:    "FILE SCRIPT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write resulting document to `FILE` instead of STDOUT"},
					&cli.BoolFlag{Name: "page-scripts", Aliases: []string{"ps"}, Usage: "run the document's own scripts before SCRIPT"},
				},
			},
			{
				Name:         "tree",
				Usage:        "Prints document outline, optionally for selected elements only",
				OnUsageError: usageErrorHandler,
				Action:       runTree,
				ArgsUsage:    "FILE [SELECTOR]",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	app := newApp()

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
