package protocol

import (
	"encoding/json"

	"github.com/prizmlabs/slipway/internal/fault"
	"github.com/prizmlabs/slipway/internal/manifest"
)

// A command carried by an envelope.
type Command string

const (
	// Requests sent by clients.
	CmdBuild           Command = "build"            // Execute a recipe and export the image.
	CmdImageImport     Command = "image.import"     // Import an OCI archive under a tag.
	CmdImageDestroy    Command = "image.destroy"    // Remove an image and its containers.
	CmdServiceStart    Command = "service.start"    // Start a service container from an imported image.
	CmdContainerStop   Command = "container.stop"   // Stop a container's task.
	CmdContainerStatus Command = "container.status" // Query a container's state.
	CmdContainerWait   Command = "container.wait"   // Block until a container's task exits.
	CmdStatus          Command = "status"           // Query daemon status.
	CmdShutdown        Command = "shutdown"         // Stop the daemon.

	// Responses sent by the daemon.
	CmdOK    Command = "ok"
	CmdError Command = "error"
)

// Lifecycle state of a container.
type ContainerState string

const (
	ContainerNotCreated ContainerState = "not-created"
	ContainerStopped    ContainerState = "stopped"
	ContainerRunning    ContainerState = "running"
)

// Wire framing for one message: a command and its payload.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Asks the daemon to execute a recipe.
type BuildRequest struct {
	Recipe    *manifest.Recipe `json:"recipe"`              // Recipe to execute.
	Service   string           `json:"service"`             // Service name, used as the container ID prefix.
	Output    string           `json:"output"`              // Directory for the exported image.
	Root      string           `json:"root"`                // Build context for resolving copy sources.
	Platforms []string         `json:"platforms,omitempty"` // Target platforms. Empty means host.
}

// Reports where a successful build wrote its image.
type BuildResult struct {
	Output string `json:"output"`
}

// Asks the daemon to import an OCI archive.
type ImageImportRequest struct {
	Path string `json:"path"` // Path to the OCI archive.
	Tag  string `json:"tag"`  // Tag to store the image under.
}

// Asks the daemon to remove an image and its containers.
type ImageDestroyRequest struct {
	Tag string `json:"tag"`
}

// Asks the daemon to start a service container.
type ServiceStartRequest struct {
	Tag       string `json:"tag"`       // Image tag to start from.
	Container string `json:"container"` // Container ID to assign.
}

// Identifies a container for stop, status, and wait commands.
type ContainerRequest struct {
	ID string `json:"id"`
}

// Reports a container's current state.
type ContainerStatusResult struct {
	State ContainerState `json:"state"`
}

// Reports a container task's exit code.
type ContainerWaitResult struct {
	ExitCode int `json:"exit_code"`
}

// Reports daemon health and counters.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
}

// Carries a failure message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}

// Serializes a command and payload into an envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fault.Wrap(ErrProtocol, err)
		}
		env.Payload = data
	}

	return json.Marshal(env)
}

// Parses an envelope, returning the command and the raw payload.
func Decode(data []byte) (*Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fault.Wrap(ErrProtocol, err)
	}
	if env.Command == "" {
		return nil, nil, fault.Wrapf(ErrProtocol, "missing command")
	}
	return &env, env.Payload, nil
}

// Parses a raw payload into a typed request or result.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	var v T
	if len(payload) == 0 {
		return nil, fault.Wrapf(ErrProtocol, "missing payload")
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fault.Wrap(ErrProtocol, err)
	}
	return &v, nil
}
