package runtime

import (
	"context"
	"io"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"

	"github.com/prizmlabs/slipway/internal/fault"
)

// Starts a service container from a previously imported image tag.
//
// The container's task runs the image's own entrypoint in the host network
// namespace. stdout and stderr, when non-nil, receive the process's output
// so startup diagnostics are visible; nil writers discard it. Any stale
// container with the same ID is removed first.
//
// Start reports errors in creating the container and task only. A process
// that exits immediately after starting (unresolvable application module,
// port already bound) is observed through [Container.Wait] or
// [Container.Status], not here; there is no in-runtime retry.
func (rt *Runtime) StartService(ctx context.Context, tag, id string, stdout, stderr io.Writer) (*Container, error) {
	c := &Container{
		client:   rt.client,
		id:       id,
		platform: hostPlatform(),
	}

	c.remove(ctx)

	image, err := rt.resolveImage(ctx, tag, c.platform)
	if err != nil {
		return nil, fault.Wrap(ErrRuntime, err)
	}

	ctr, err := c.createService(ctx, image)
	if err != nil {
		return nil, fault.Wrap(ErrRuntime, err)
	}

	var creator cio.Creator
	if stdout != nil || stderr != nil {
		if stdout == nil {
			stdout = io.Discard
		}
		if stderr == nil {
			stderr = io.Discard
		}
		creator = cio.NewCreator(cio.WithStreams(nil, stdout, stderr))
	}

	if err := c.startTask(ctx, ctr, creator); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fault.Wrap(ErrRuntime, err)
	}

	slog.Debug("service container started", "id", id, "image", tag)
	return c, nil
}
