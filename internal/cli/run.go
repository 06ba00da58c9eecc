package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prizmlabs/slipway/internal/manifest"
	"github.com/prizmlabs/slipway/internal/paths"
	"github.com/prizmlabs/slipway/internal/runtime"
	"github.com/prizmlabs/slipway/internal/server"
)

// Grace period for stopping the service container after an interrupt.
const stopTimeout = 10 * time.Second

// Represents the 'slipwayd run' command.
type RunCmd struct {
	Service string `arg:"" default:"service.yml" help:"Path to the service definition." placeholder:"PATH"`
	Image   string `short:"i" help:"Path to the image archive. Defaults to the service's build output." placeholder:"PATH"`
}

// Returned when the service process exits with a non-zero code. main
// unwraps it with errors.As and exits with the same code, so the
// service's exit status passes through unchanged.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("service exited with code %d", e.Code)
}

// Executes the run command.
//
// Imports the service's exported image archive and starts its entrypoint
// attached to the terminal. The container runs in the host network
// namespace, so a launcher that finds its port already bound exits
// immediately; the exit code is propagated. Interrupting the command
// stops the container.
func (c *RunCmd) Run(ctx context.Context) error {
	svc, err := manifest.LoadService(c.Service)
	if err != nil {
		return err
	}

	image := c.Image
	if image == "" {
		image = filepath.Join(paths.BuildOutput(svc.Name), runtime.ExportFilename)
	}

	rt, err := runtime.New(server.DefaultContainerdAddress, server.DefaultContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.ImportImage(ctx, image, svc.Name); err != nil {
		return err
	}

	ctr, err := rt.StartService(ctx, svc.Name, svc.Name, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	slog.Info("service running", "service", svc.Name, "port", svc.Port)

	code, err := ctr.Wait(ctx)
	if err != nil {
		// Interrupted: stop the container before returning.
		if ctx.Err() != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if stopErr := ctr.Stop(stopCtx); stopErr != nil {
				slog.Warn("failed to stop service container", "error", stopErr)
			}
			return nil
		}
		return err
	}

	if code != 0 {
		return &ExitError{Code: code}
	}

	return nil
}
