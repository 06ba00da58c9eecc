package runtime

import (
	"reflect"
	"testing"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestOverlayEnv(t *testing.T) {
	tests := []struct {
		name      string
		base      []string
		overrides []string
		want      []string
	}{
		{
			name:      "replace in place",
			base:      []string{"A=1", "B=2"},
			overrides: []string{"A=9"},
			want:      []string{"A=9", "B=2"},
		},
		{
			name:      "append new keys in order",
			base:      []string{"A=1"},
			overrides: []string{"C=3", "B=2"},
			want:      []string{"A=1", "C=3", "B=2"},
		},
		{
			name:      "empty base",
			base:      nil,
			overrides: []string{"A=1"},
			want:      []string{"A=1"},
		},
		{
			name:      "malformed override skipped",
			base:      []string{"A=1"},
			overrides: []string{"NOEQUALS"},
			want:      []string{"A=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlayEnv(tt.base, tt.overrides)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlayEnvDeterministic(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root"}
	overrides := []string{"APP_ENV=prod", "HOME=/app"}

	first := overlayEnv(base, overrides)
	second := overlayEnv(base, overrides)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("overlayEnv not deterministic: %v vs %v", first, second)
	}
}

func TestPrependPath(t *testing.T) {
	env := []string{"HOME=/root", "PATH=/usr/local/bin:/usr/bin"}
	got := prependPath(env, []string{"/root/.local/bin"})

	want := "PATH=/root/.local/bin:/usr/local/bin:/usr/bin"
	if got[1] != want {
		t.Fatalf("PATH = %q, want %q", got[1], want)
	}

	// Original slice is not mutated.
	if env[1] != "PATH=/usr/local/bin:/usr/bin" {
		t.Fatal("input env mutated")
	}
}

func TestPrependPathNoExisting(t *testing.T) {
	got := prependPath([]string{"HOME=/root"}, []string{"/root/.local/bin"})

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	want := "PATH=/root/.local/bin:" + defaultPath
	if got[1] != want {
		t.Fatalf("PATH = %q, want %q", got[1], want)
	}
}

func TestPrependPathMultipleDirs(t *testing.T) {
	env := []string{"PATH=/bin"}
	got := prependPath(env, []string{"/a", "/b"})
	if got[0] != "PATH=/a:/b:/bin" {
		t.Fatalf("PATH = %q", got[0])
	}
}

func TestNormalizePort(t *testing.T) {
	if got := normalizePort("8000"); got != "8000/tcp" {
		t.Fatalf("normalizePort(8000) = %q", got)
	}
	if got := normalizePort("53/udp"); got != "53/udp" {
		t.Fatalf("normalizePort(53/udp) = %q", got)
	}
}

func TestImageConfigApply(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Cmd = []string{"/bin/sh"}
	config.Config.Env = []string{"PATH=/usr/bin"}

	ic := &ImageConfig{
		Entrypoint:   []string{"uvicorn", "main:app", "--host", "0.0.0.0", "--port", "8000"},
		PathPrepend:  []string{"/root/.local/bin"},
		WorkingDir:   "/app",
		ExposedPorts: []string{"8000"},
	}
	ic.apply(&config)

	if !reflect.DeepEqual(config.Config.Entrypoint, ic.Entrypoint) {
		t.Fatalf("entrypoint = %v", config.Config.Entrypoint)
	}
	if config.Config.Cmd != nil {
		t.Fatal("inherited Cmd not cleared")
	}
	if config.Config.WorkingDir != "/app" {
		t.Fatalf("workdir = %q", config.Config.WorkingDir)
	}
	if config.Config.Env[0] != "PATH=/root/.local/bin:/usr/bin" {
		t.Fatalf("env = %v", config.Config.Env)
	}
	if _, ok := config.Config.ExposedPorts["8000/tcp"]; !ok {
		t.Fatalf("exposed ports = %v", config.Config.ExposedPorts)
	}
}

func TestImageConfigApplyZeroValue(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Entrypoint = []string{"/bin/sh"}
	config.Config.Env = []string{"PATH=/usr/bin"}
	config.Config.WorkingDir = "/"

	(&ImageConfig{}).apply(&config)

	if config.Config.Entrypoint[0] != "/bin/sh" {
		t.Fatal("entrypoint changed by zero-value config")
	}
	if config.Config.Env[0] != "PATH=/usr/bin" {
		t.Fatal("env changed by zero-value config")
	}
	if config.Config.WorkingDir != "/" {
		t.Fatal("workdir changed by zero-value config")
	}
}
