// Package manifest defines the declarative inputs to the build pipeline.
//
// Three kinds of documents live here. A [Recipe] is an ordered sequence of
// build stages, each started from a base image and driven by a list of
// steps (shell commands, file copies, and modifier declarations). A
// [Service] describes one deployable web service: where its sources live,
// which dependency manifest to install, and the launch contract (port,
// application target, launcher). A requirements manifest is the plain-text
// dependency list consumed by the builder stage, one requirement per line
// with an optional version specifier.
//
// Recipes and services are YAML documents. Requirements follow the
// conventional pip format. All three parsers fail fast: a malformed entry
// anywhere rejects the whole document.
package manifest
