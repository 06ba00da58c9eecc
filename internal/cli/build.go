package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prizmlabs/slipway/internal/build"
	"github.com/prizmlabs/slipway/internal/manifest"
	"github.com/prizmlabs/slipway/internal/paths"
	"github.com/prizmlabs/slipway/internal/runtime"
	"github.com/prizmlabs/slipway/internal/server"
)

// Represents the 'slipwayd build' command.
type BuildCmd struct {
	Service   string   `arg:"" default:"service.yml" help:"Path to the service definition." placeholder:"PATH"`
	Output    string   `short:"o" help:"Output directory for the exported image." placeholder:"DIR"`
	Platforms []string `short:"p" help:"Target platforms (e.g. linux/amd64). Defaults to the host." placeholder:"PLATFORM"`
}

// Executes the build command.
//
// Loads the service definition, validates its dependency manifest, and
// executes the synthesized two-stage recipe directly against containerd.
// The dependency manifest is parsed up front so a malformed entry fails
// the build before any container is created. The parsed entries are
// staged back out in canonical order and that staged file is what the
// builder stage installs from, so unchanged dependency sets build
// identically regardless of source line order.
func (c *BuildCmd) Run(ctx context.Context) error {
	svc, err := manifest.LoadService(c.Service)
	if err != nil {
		return err
	}

	root := filepath.Dir(c.Service)

	reqs, err := manifest.LoadRequirements(filepath.Join(root, svc.Requirements))
	if err != nil {
		return err
	}
	slog.Info("dependency manifest validated", "requirements", len(reqs))

	staging, err := os.MkdirTemp("", "slipway-manifest-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	staged := filepath.Join(staging, "requirements.txt")
	if err := manifest.WriteRequirements(staged, reqs); err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = paths.BuildOutput(svc.Name)
	}

	rt, err := runtime.New(server.DefaultContainerdAddress, server.DefaultContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := build.Run(ctx, rt, build.Options{
		Recipe:    build.ServiceRecipe(svc, staged),
		Service:   svc.Name,
		Output:    output,
		Root:      root,
		Platforms: c.Platforms,
	})
	if err != nil {
		return err
	}

	slog.Info("build complete", "service", svc.Name, "output", result.Output)
	return nil
}
