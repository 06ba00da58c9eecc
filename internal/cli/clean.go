package cli

import (
	"context"
	"log/slog"

	"github.com/prizmlabs/slipway/internal/client"
	"github.com/prizmlabs/slipway/internal/manifest"
)

// Represents the 'slipwayd clean' command.
type CleanCmd struct {
	Service string `arg:"" default:"service.yml" help:"Path to the service definition." placeholder:"PATH"`
}

// Executes the clean command.
//
// Asks a running daemon to remove the service's image together with any
// containers created from it.
func (c *CleanCmd) Run(ctx context.Context) error {
	svc, err := manifest.LoadService(c.Service)
	if err != nil {
		return err
	}

	if err := client.New(RootCmd.Socket).DestroyImage(ctx, svc.Name); err != nil {
		return err
	}

	slog.Info("service image removed", "service", svc.Name)
	return nil
}
