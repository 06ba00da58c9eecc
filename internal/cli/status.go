package cli

import (
	"context"
	"fmt"

	"github.com/prizmlabs/slipway/internal/client"
)

// Represents the 'slipwayd status' command.
type StatusCmd struct{}

// Executes the status command against a running daemon.
func (c *StatusCmd) Run(ctx context.Context) error {
	status, err := client.New(RootCmd.Socket).Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s\n", status.Version)
	fmt.Printf("pid:     %d\n", status.Pid)
	fmt.Printf("uptime:  %s\n", status.Uptime)
	fmt.Printf("builds:  %d\n", status.Builds)
	return nil
}
