// Package build orchestrates recipe execution against container runtimes.
//
// A recipe is an ordered sequence of stages, each backed by a container
// created from a base image. The build pipeline starts a container for
// each stage, dispatches its steps (shell commands, file copies, and
// inter-stage transfers), and exports the final non-transient stage as an
// OCI image carrying its launch configuration. Multi-platform builds
// repeat the pipeline per platform, writing each result to a
// platform-specific output directory.
//
// ServiceRecipe synthesizes the standard two-stage recipe for a web
// service: a transient builder stage that provisions a compiler toolchain
// and installs the dependency manifest into a user-local prefix, and a
// runtime stage that imports only that prefix plus the application
// sources and bakes in the launch contract (entrypoint, port, PATH).
//
// Container operations are delegated to the runtime package. Step state
// (environment variables, working directory, shell) is accumulated across
// steps within a stage and reset between stages.
//
// Example usage:
//
//	recipe := build.ServiceRecipe(svc, "staged/requirements.txt")
//	result, err := build.Run(ctx, rt, build.Options{
//	    Recipe:  recipe,
//	    Service: svc.Name,
//	    Output:  "dist",
//	    Root:    ".",
//	})
//	if err != nil {
//	    return err
//	}
package build
