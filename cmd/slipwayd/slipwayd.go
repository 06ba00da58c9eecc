package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/prizmlabs/slipway/internal"
	"github.com/prizmlabs/slipway/internal/cli"
)

// The entry point for the slipwayd binary.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs during execution, it exits with a non-zero code.
func main() {
	slog.SetDefault(slog.New(cli.Handler(os.Stderr)))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("slipwayd starting",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())

		// A service run passes its process's exit code through.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
