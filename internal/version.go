package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Name used for the binary, socket files, and log group.
const Name = "slipwayd"

// Placeholder shown when a build variable was not injected.
const undefined = "(undefined)"

var (
	version   = "" // Release version (e.g., "0.4.1"), set via ldflags.
	gitCommit = "" // Git commit hash, set via ldflags.

	rawQuiet = "false" // Default quiet mode, set via ldflags.
	rawDebug = "false" // Default debug mode, set via ldflags.
)

// Returns the release version without any "v" prefix.
//
// Returns "(undefined)" for local builds where no version was injected.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the git commit hash, or "(undefined)" when not injected.
func Commit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return undefined
	}
	return c
}

// Reports whether this binary was built outside the release pipeline.
//
// Release builds inject both the version and the commit hash; a missing
// value of either marks the build as local.
func IsLocalBuild() bool {
	return strings.TrimSpace(version) == "" || strings.TrimSpace(gitCommit) == ""
}

// Returns a human-readable version string.
//
// Local builds report "(local)". Release builds report
// "<version> <commit> [<arch>]".
func VersionString() string {
	if IsLocalBuild() {
		return "(local)"
	}
	return fmt.Sprintf("%s %s [%s]", Version(), Commit(), runtime.GOARCH)
}
