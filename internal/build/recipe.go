package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prizmlabs/slipway/internal/fault"
	"github.com/prizmlabs/slipway/internal/manifest"
	"github.com/prizmlabs/slipway/internal/paths"
	"github.com/prizmlabs/slipway/internal/runtime"
)

// Holds shared state for building all stages of a recipe.
type pipeline struct {
	rt         *runtime.Runtime     // Container runtime for image and container operations.
	service    string               // Service name, used as a prefix for container IDs.
	output     string               // Output directory for the final build artifact.
	context    string               // Build context, root for resolving copy sources.
	platforms  []string             // Target platforms to build for.
	containers []*runtime.Container // All stage containers across all platforms, destroyed after the build completes.
}

// Creates a new [pipeline] from the given options.
func newPipeline(rt *runtime.Runtime, opts Options) *pipeline {
	return &pipeline{
		rt:        rt,
		service:   opts.Service,
		output:    opts.Output,
		context:   opts.Root,
		platforms: opts.Platforms,
	}
}

// Builds the recipe end-to-end against the container runtime.
//
// Each target platform is built independently. Stages are built in
// declaration order for each platform. The non-transient stage is exported
// as the final image to the platform's output directory. All stage
// containers are destroyed when the build completes.
func (p *pipeline) build(ctx context.Context, recipeStages []manifest.Stage) (*Result, error) {
	defer p.destroyContainers(ctx)

	for _, platform := range p.platforms {
		if err := p.buildPlatform(ctx, recipeStages, platform); err != nil {
			return nil, err
		}
	}

	return &Result{Output: p.output}, nil
}

// Builds all stages of the recipe for a single platform.
//
// Each platform maintains its own set of named stage containers for
// cross-stage copy lookups. The output is written to a platform-specific
// subdirectory when building for multiple platforms.
func (p *pipeline) buildPlatform(ctx context.Context, recipeStages []manifest.Stage, platform string) error {
	slog.Info("building platform", "platform", platform)

	output := p.platformOutput(platform)
	if err := os.MkdirAll(output, paths.DefaultDirMode); err != nil {
		return fault.Wrap(ErrFileSystemOperation, err)
	}

	stages := make(map[string]*runtime.Container)

	for i, stage := range recipeStages {
		if err := p.buildStage(ctx, stage, i, platform, output, stages); err != nil {
			return fault.Wrapf(ErrBuild, "platform %s, stage %s: %w", platform, stage.Label(i), err)
		}
	}

	return nil
}

// Builds a single stage of a recipe for a specific platform.
//
// Starts a build container from the stage's base image, executes the
// stage's steps, then commits the result. The non-transient stage is
// exported to the output directory together with its launch
// configuration.
func (p *pipeline) buildStage(ctx context.Context, stage manifest.Stage, index int, platform, output string, stages map[string]*runtime.Container) error {
	slog.Info(fmt.Sprintf("building stage %s", stage.Label(index)), "platform", platform)

	id := p.containerID(stage.Name, index, platform)
	ctr, err := p.rt.StartBuildContainer(ctx, stage.From, id, platform)
	if err != nil {
		return fault.Wrap(runtime.ErrRuntime, err)
	}

	p.containers = append(p.containers, ctr)
	if stage.Name != "" {
		stages[stage.Name] = ctr
	}

	if err := executeSteps(ctx, ctr, stage.Steps, newStepState(), p.context, stages); err != nil {
		return err
	}

	if !stage.Transient {
		if err := ctr.Stop(ctx); err != nil {
			return fault.Wrap(runtime.ErrRuntime, err)
		}

		if err := ctr.Export(ctx, output, exportConfig(stage)); err != nil {
			return fault.Wrap(runtime.ErrRuntime, err)
		}
	}

	return nil
}

// Builds the launch configuration for an exported stage.
//
// Returns nil when the stage declares no launch metadata, leaving the base
// image's config untouched.
func exportConfig(stage manifest.Stage) *runtime.ImageConfig {
	cfg := &runtime.ImageConfig{
		Entrypoint:  stage.Entrypoint,
		PathPrepend: stage.PathPrepend,
		WorkingDir:  stage.Workdir,
	}

	// Map iteration is randomized; sort for a deterministic image config.
	if len(stage.Env) > 0 {
		keys := make([]string, 0, len(stage.Env))
		for k := range stage.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cfg.Env = append(cfg.Env, k+"="+stage.Env[k])
		}
	}

	for _, port := range stage.Expose {
		cfg.ExposedPorts = append(cfg.ExposedPorts, fmt.Sprintf("%d", port))
	}

	if len(cfg.Entrypoint) == 0 && len(cfg.Env) == 0 && len(cfg.PathPrepend) == 0 &&
		cfg.WorkingDir == "" && len(cfg.ExposedPorts) == 0 {
		return nil
	}

	return cfg
}

// Destroys all stage containers.
func (p *pipeline) destroyContainers(ctx context.Context) {
	for _, ctr := range p.containers {
		ctr.Destroy(ctx)
	}
}

// Returns a unique container ID for a stage, scoped to this service and
// platform.
func (p *pipeline) containerID(name string, index int, platform string) string {
	slug := platformSlug(platform)
	if name != "" {
		return fmt.Sprintf("%s-%s-stage-%s", p.service, slug, name)
	}
	return fmt.Sprintf("%s-%s-stage-%d", p.service, slug, index+1)
}

// Returns the output directory for a specific platform.
//
// When building for a single platform, the output directory is left as-is
// to preserve the {output}/image.tar convention. For multi-platform
// builds, each platform gets a subdirectory (e.g., {output}/linux-amd64).
func (p *pipeline) platformOutput(platform string) string {
	if len(p.platforms) == 1 {
		return p.output
	}
	return filepath.Join(p.output, platformSlug(platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}
