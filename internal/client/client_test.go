package client

import (
	"bufio"
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/prizmlabs/slipway/internal/manifest"
	"github.com/prizmlabs/slipway/internal/protocol"
)

// Serves exactly one exchange on a Unix socket, answering every command
// with the given response envelope.
func serveOnce(t *testing.T, cmd protocol.Command, payload any) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "d.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		if _, err := bufio.NewReader(conn).ReadBytes(byte(10)); err != nil {
			return
		}

		data, err := protocol.Encode(cmd, payload)
		if err != nil {
			return
		}
		conn.Write(append(data, byte(10)))
	}()

	return socketPath
}

func TestClientStatus(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Pid:     42,
		Uptime:  "1m0s",
	})

	status, err := New(socketPath).Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.Running || status.Pid != 42 || status.Uptime != "1m0s" {
		t.Errorf("Status() = %+v", status)
	}
}

func TestClientBuild(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdOK, &protocol.BuildResult{Output: "dist"})

	result, err := New(socketPath).Build(context.Background(), &protocol.BuildRequest{
		Recipe: &manifest.Recipe{Stages: []manifest.Stage{
			{From: "python-slim.tar"},
		}},
		Service: "llm-service",
		Output:  "dist",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Output != "dist" {
		t.Errorf("Build() output = %q, want %q", result.Output, "dist")
	}
}

func TestClientStartService(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdOK, nil)

	if err := New(socketPath).StartService(context.Background(), "llm-service", "llm-service"); err != nil {
		t.Fatalf("StartService() error = %v", err)
	}
}

func TestClientDaemonError(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdError, &protocol.ErrorResult{Message: "image not found"})

	err := New(socketPath).DestroyImage(context.Background(), "llm-service")
	if !errors.Is(err, ErrDaemon) {
		t.Fatalf("DestroyImage() error = %v, want ErrDaemon", err)
	}
}

func TestClientWaitContainer(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdOK, &protocol.ContainerWaitResult{ExitCode: 3})

	code, err := New(socketPath).WaitContainer(context.Background(), "llm-service")
	if err != nil {
		t.Fatalf("WaitContainer() error = %v", err)
	}
	if code != 3 {
		t.Errorf("WaitContainer() = %d, want 3", code)
	}
}

func TestClientUnreachable(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing.sock"))

	if _, err := c.Status(context.Background()); !errors.Is(err, ErrClient) {
		t.Fatalf("Status() error = %v, want ErrClient", err)
	}
}
