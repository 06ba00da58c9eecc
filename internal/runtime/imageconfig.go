package runtime

import (
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// PATH used when the base image config declares none.
const defaultPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Launch configuration applied to an exported image.
//
// All fields are optional; zero values leave the base image's config
// untouched. The configuration is deterministic: the same inputs always
// produce the same image config, so rebuilding from unchanged inputs
// yields an equivalent image.
type ImageConfig struct {
	Entrypoint   []string // Process started when a container is instantiated. Clears any inherited Cmd.
	Env          []string // KEY=value entries merged over the base image's environment.
	PathPrepend  []string // Directories prepended to the image's PATH.
	WorkingDir   string   // Working directory of the launched process.
	ExposedPorts []string // Ports the image declares, e.g. "8000/tcp". Bare numbers default to TCP.
}

// Applies the launch configuration to an OCI image config.
func (ic *ImageConfig) apply(config *ocispec.Image) {
	if len(ic.Entrypoint) > 0 {
		config.Config.Entrypoint = ic.Entrypoint
		config.Config.Cmd = nil
	}

	if len(ic.Env) > 0 {
		config.Config.Env = overlayEnv(config.Config.Env, ic.Env)
	}

	if len(ic.PathPrepend) > 0 {
		config.Config.Env = prependPath(config.Config.Env, ic.PathPrepend)
	}

	if ic.WorkingDir != "" {
		config.Config.WorkingDir = ic.WorkingDir
	}

	if len(ic.ExposedPorts) > 0 {
		if config.Config.ExposedPorts == nil {
			config.Config.ExposedPorts = make(map[string]struct{}, len(ic.ExposedPorts))
		}
		for _, port := range ic.ExposedPorts {
			config.Config.ExposedPorts[normalizePort(port)] = struct{}{}
		}
	}
}

// Merges override entries over a base environment, preserving order.
//
// Base entries keep their position; overridden keys are replaced in place
// and new keys are appended in the order given. Stable ordering keeps the
// exported config byte-identical across rebuilds.
func overlayEnv(base, overrides []string) []string {
	result := make([]string, len(base), len(base)+len(overrides))
	copy(result, base)

	for _, entry := range overrides {
		key, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}

		replaced := false
		for i, existing := range result {
			if k, _, ok := strings.Cut(existing, "="); ok && k == key {
				result[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, entry)
		}
	}

	return result
}

// Prepends directories to the PATH entry of an environment.
//
// When the environment has no PATH, one is synthesized from the standard
// default so the prepended directories always resolve.
func prependPath(env []string, dirs []string) []string {
	prefix := strings.Join(dirs, ":")

	for i, entry := range env {
		if k, v, ok := strings.Cut(entry, "="); ok && k == "PATH" {
			out := make([]string, len(env))
			copy(out, env)
			out[i] = "PATH=" + prefix + ":" + v
			return out
		}
	}

	out := make([]string, len(env), len(env)+1)
	copy(out, env)
	return append(out, "PATH="+prefix+":"+defaultPath)
}

// Normalizes an exposed-port entry to the OCI "port/proto" form.
func normalizePort(port string) string {
	if strings.ContainsRune(port, '/') {
		return port
	}
	return port + "/tcp"
}
