package build

import (
	"fmt"

	"github.com/prizmlabs/slipway/internal/manifest"
)

const (

	// Name of the transient builder stage, referenced by the runtime
	// stage's cross-stage copy.
	builderStageName = "builder"

	// User-local install prefix populated by the builder stage. pip's
	// --user mode installs here, and the prefix is self-contained: the
	// runtime stage imports it without the toolchain that produced it.
	installPrefix = "/root/.local"

	// Executable directory within the install prefix, prepended to the
	// runtime image's PATH so console entry points resolve by name.
	installBin = installPrefix + "/bin"

	// Working directory of the runtime image, holding the application
	// source tree.
	appDir = "/app"

	// Requirements manifest path inside the builder stage.
	builderManifest = "/build/requirements.txt"

	// Provisions the C and C++ compiler toolchain inside the builder
	// stage and clears the package-index cache so the intermediate layer
	// stays small. The toolchain never reaches the runtime stage.
	toolchainCommand = "apt-get update && apt-get install -y --no-install-recommends gcc g++ && rm -rf /var/lib/apt/lists/*"
)

// Synthesizes the standard two-stage recipe for a web service.
//
// requirements is the path to the staged dependency manifest copied into
// the builder stage; callers produce it from the parsed entries (see
// [manifest.WriteRequirements]) so the install step consumes the
// deduplicated, canonically ordered list rather than the source file.
//
// The builder stage is transient: it provisions the compiler toolchain,
// copies in the staged manifest, and installs every requirement into the
// user-local prefix with pip's cache disabled, compiling native
// components as needed. The runtime stage starts from the slim base,
// imports only the populated prefix and the application sources, and
// carries the launch contract: working directory /app, the prefix's bin
// directory on PATH, the service port exposed, and the launcher as
// entrypoint bound to all interfaces.
func ServiceRecipe(svc *manifest.Service, requirements string) *manifest.Recipe {
	return &manifest.Recipe{
		Stages: []manifest.Stage{
			{
				Name:      builderStageName,
				From:      svc.BuilderImage,
				Transient: true,
				Steps: []manifest.Step{
					{Run: toolchainCommand},
					{Copy: requirements + " " + builderManifest},
					{Run: installCommand(), Workdir: "/build"},
				},
			},
			{
				From: svc.RuntimeImage,
				Steps: []manifest.Step{
					{Copy: builderStageName + ":" + installPrefix + " " + installPrefix},
					{Copy: svc.Source + " " + appDir},
				},
				Entrypoint:  launchCommand(svc),
				Expose:      []int{svc.Port},
				PathPrepend: []string{installBin},
				Workdir:     appDir,
			},
		},
	}
}

// Returns the dependency install command for the builder stage.
//
// --user scopes the install to the invoking user's local prefix rather
// than a system-wide one; --no-cache-dir keeps the package cache out of
// the stage's filesystem layer. A failing resolve or compile fails the
// command, and with it the whole build.
func installCommand() string {
	return fmt.Sprintf("pip install --user --no-cache-dir -r %s", builderManifest)
}

// Returns the entrypoint that launches the service.
//
// The launcher is resolved from PATH (the install prefix's bin directory
// is prepended), binds all interfaces on the service port, and resolves
// the application object from its module:attribute target.
func launchCommand(svc *manifest.Service) []string {
	return []string{
		svc.Launcher,
		svc.App,
		"--host", "0.0.0.0",
		"--port", fmt.Sprintf("%d", svc.Port),
	}
}
