package cli

import (
	"context"
	"log/slog"

	"github.com/prizmlabs/slipway/internal/client"
)

// Represents the 'slipwayd shutdown' command.
type ShutdownCmd struct{}

// Executes the shutdown command against a running daemon.
func (c *ShutdownCmd) Run(ctx context.Context) error {
	if err := client.New(RootCmd.Socket).Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("daemon shutdown requested")
	return nil
}
