// Parses flags and dispatches commands for the slipwayd binary.
//
// The binary accepts the following flags:
//
//	-q, --quiet     Suppress informational output.
//	-d, --debug     Enable debug output.
//	-s, --socket    Unix socket path.
//
// Subcommands either run the daemon (start), drive containerd directly
// (build, run), or talk to a running daemon over its socket (status,
// clean, shutdown). Flags override build-time defaults set via linker
// flags. After parsing, the global logger is reconfigured to reflect the
// final level before the selected command runs.
package cli
