package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/prizmlabs/slipway/internal"
)

// Represents the root command for the slipwayd binary.
var RootCmd struct {
	Quiet    bool        `short:"q" help:"Suppress informational output."`
	Debug    bool        `short:"d" help:"Enable debug output."`
	Socket   string      `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`
	Start    StartCmd    `cmd:"" help:"Start the daemon."`
	Build    BuildCmd    `cmd:"" help:"Build a service image."`
	Run      RunCmd      `cmd:"" help:"Import a service image and run it attached."`
	Status   StatusCmd   `cmd:"" help:"Show daemon status."`
	Clean    CleanCmd    `cmd:"" help:"Remove a service image and its containers."`
	Shutdown ShutdownCmd `cmd:"" help:"Stop a running daemon."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The Slipway daemon.\n\nBuilds and runs containerized web services."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Reconfigures the global logger based on CLI flags.
//
// Flags are merged with build-time defaults and persisted so other
// packages observe the effective modes.
func configureLogger() {
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Debug {
		internal.SetDebug(true)
	}

	slog.SetDefault(slog.New(Handler(os.Stderr)))
}

// Creates a log handler for the given stream honoring the effective modes.
//
// Output is colorized only when the stream is an interactive terminal.
func Handler(f *os.File) slog.Handler {
	return tint.NewHandler(f, &tint.Options{
		Level:      logLevel(),
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(f.Fd()),
	})
}

// Returns the log level derived from the effective modes.
func logLevel() slog.Level {
	if internal.IsDebug() {
		return slog.LevelDebug
	}
	if internal.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
