package client

import (
	"bufio"
	"context"
	"errors"
	"net"

	"github.com/prizmlabs/slipway/internal/fault"
	"github.com/prizmlabs/slipway/internal/paths"
	"github.com/prizmlabs/slipway/internal/protocol"
)

var (
	ErrClient = errors.New("client error")

	// The daemon answered with an error envelope.
	ErrDaemon = errors.New("daemon error")
)

// Talks to the slipwayd daemon over its Unix socket.
type Client struct {
	socketPath string
}

// Creates a client for the given socket path. Empty uses the default.
func New(socketPath string) *Client {
	if socketPath == "" {
		socketPath = paths.Socket()
	}
	return &Client{socketPath: socketPath}
}

// Asks the daemon to execute a recipe.
func (c *Client) Build(ctx context.Context, req *protocol.BuildRequest) (*protocol.BuildResult, error) {
	payload, err := c.exchange(ctx, protocol.CmdBuild, req)
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.BuildResult](payload)
}

// Asks the daemon to import an OCI archive under a tag.
func (c *Client) ImportImage(ctx context.Context, path, tag string) error {
	_, err := c.exchange(ctx, protocol.CmdImageImport, &protocol.ImageImportRequest{Path: path, Tag: tag})
	return err
}

// Asks the daemon to remove an image and its containers.
func (c *Client) DestroyImage(ctx context.Context, tag string) error {
	_, err := c.exchange(ctx, protocol.CmdImageDestroy, &protocol.ImageDestroyRequest{Tag: tag})
	return err
}

// Asks the daemon to start a detached service container.
func (c *Client) StartService(ctx context.Context, tag, container string) error {
	_, err := c.exchange(ctx, protocol.CmdServiceStart, &protocol.ServiceStartRequest{Tag: tag, Container: container})
	return err
}

// Asks the daemon to stop a container's task.
func (c *Client) StopContainer(ctx context.Context, id string) error {
	_, err := c.exchange(ctx, protocol.CmdContainerStop, &protocol.ContainerRequest{ID: id})
	return err
}

// Queries a container's state.
func (c *Client) ContainerStatus(ctx context.Context, id string) (protocol.ContainerState, error) {
	payload, err := c.exchange(ctx, protocol.CmdContainerStatus, &protocol.ContainerRequest{ID: id})
	if err != nil {
		return "", err
	}
	result, err := protocol.DecodePayload[protocol.ContainerStatusResult](payload)
	if err != nil {
		return "", err
	}
	return result.State, nil
}

// Blocks until a container's task exits and returns its exit code.
func (c *Client) WaitContainer(ctx context.Context, id string) (int, error) {
	payload, err := c.exchange(ctx, protocol.CmdContainerWait, &protocol.ContainerRequest{ID: id})
	if err != nil {
		return 0, err
	}
	result, err := protocol.DecodePayload[protocol.ContainerWaitResult](payload)
	if err != nil {
		return 0, err
	}
	return result.ExitCode, nil
}

// Queries daemon status.
func (c *Client) Status(ctx context.Context) (*protocol.StatusResult, error) {
	payload, err := c.exchange(ctx, protocol.CmdStatus, nil)
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.StatusResult](payload)
}

// Asks the daemon to shut down.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.exchange(ctx, protocol.CmdShutdown, nil)
	return err
}

// Performs one request-response exchange with the daemon.
//
// An error envelope from the daemon is surfaced as [ErrDaemon] carrying
// the daemon's message.
func (c *Client) exchange(ctx context.Context, cmd protocol.Command, payload any) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fault.Wrapf(ErrClient, "daemon not reachable at %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		return nil, fault.Wrap(ErrClient, err)
	}
	data = append(data, byte(10))

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(data); err != nil {
		return nil, fault.Wrap(ErrClient, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes(byte(10))
	if err != nil {
		return nil, fault.Wrap(ErrClient, err)
	}

	env, responsePayload, err := protocol.Decode(line)
	if err != nil {
		return nil, err
	}

	if env.Command == protocol.CmdError {
		result, err := protocol.DecodePayload[protocol.ErrorResult](responsePayload)
		if err != nil {
			return nil, fault.Wrapf(ErrDaemon, "malformed error response")
		}
		return nil, fault.Wrapf(ErrDaemon, "%s", result.Message)
	}

	return responsePayload, nil
}
