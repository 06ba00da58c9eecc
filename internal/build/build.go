package build

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"

	"github.com/prizmlabs/slipway/internal/fault"
	"github.com/prizmlabs/slipway/internal/manifest"
	"github.com/prizmlabs/slipway/internal/paths"
	"github.com/prizmlabs/slipway/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe    *manifest.Recipe // Recipe to execute.
	Service   string           // Service name, used as a prefix for container IDs.
	Output    string           // Directory for the exported image.
	Root      string           // Build context, for resolving copy sources.
	Platforms []string         // Target platforms (e.g., ["linux/amd64"]). Defaults to host.
}

// Returned after successful recipe execution.
type Result struct {
	Output string // Directory containing the exported image.
}

// Executes a recipe against the container runtime.
//
// Stages are built in declaration order. Each stage starts a container
// from its base image, executes the stage's steps, and the non-transient
// stage is exported as the final image to the output directory. Any step
// failure aborts the whole build; no partial image is produced.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if err := opts.Recipe.Validate(); err != nil {
		return nil, err
	}

	if len(opts.Platforms) == 0 {
		opts.Platforms = []string{"linux/" + goruntime.GOARCH}
	}

	slog.Info("executing recipe",
		"service", opts.Service,
		"output", opts.Output,
		"stages", len(opts.Recipe.Stages),
		"platforms", opts.Platforms,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fault.Wrap(ErrFileSystemOperation, err)
	}

	return newPipeline(rt, opts).build(ctx, opts.Recipe.Stages)
}
