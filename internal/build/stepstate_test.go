package build

import (
	"slices"
	"testing"

	"github.com/prizmlabs/slipway/internal/manifest"
)

func TestStepStateDefaults(t *testing.T) {
	state := newStepState()

	if state.shell != defaultShell {
		t.Errorf("shell = %q, want %q", state.shell, defaultShell)
	}
	if state.workdir != "" {
		t.Errorf("workdir = %q, want empty", state.workdir)
	}
	if len(state.env) != 0 {
		t.Errorf("env = %v, want empty", state.env)
	}
}

func TestStepStateApply(t *testing.T) {
	state := newStepState()

	state.apply(manifest.Step{Shell: "/bin/bash", Workdir: "/build"})
	state.apply(manifest.Step{Env: map[string]string{"CC": "gcc"}})

	if state.shell != "/bin/bash" {
		t.Errorf("shell = %q, want /bin/bash", state.shell)
	}
	if state.workdir != "/build" {
		t.Errorf("workdir = %q, want /build", state.workdir)
	}
	if state.env["CC"] != "gcc" {
		t.Errorf("env[CC] = %q, want gcc", state.env["CC"])
	}

	// Empty fields leave prior values intact.
	state.apply(manifest.Step{})
	if state.shell != "/bin/bash" || state.workdir != "/build" {
		t.Error("apply of empty step should not reset state")
	}
}

func TestStepStateResolve(t *testing.T) {
	state := newStepState()
	state.apply(manifest.Step{Workdir: "/build", Env: map[string]string{"CC": "gcc", "LANG": "C"}})

	resolved := state.resolve(manifest.Step{
		Workdir: "/tmp",
		Env:     map[string]string{"CC": "clang"},
	})

	if resolved.workdir != "/tmp" {
		t.Errorf("resolved workdir = %q, want /tmp", resolved.workdir)
	}
	if resolved.env["CC"] != "clang" {
		t.Errorf("resolved env[CC] = %q, want clang", resolved.env["CC"])
	}
	if resolved.env["LANG"] != "C" {
		t.Errorf("resolved env[LANG] = %q, want C", resolved.env["LANG"])
	}

	// The persistent state is untouched.
	if state.workdir != "/build" {
		t.Errorf("state workdir = %q, want /build", state.workdir)
	}
	if state.env["CC"] != "gcc" {
		t.Errorf("state env[CC] = %q, want gcc", state.env["CC"])
	}
}

func TestStepStateEnviron(t *testing.T) {
	state := newStepState()
	state.apply(manifest.Step{Env: map[string]string{"A": "1", "B": "2"}})

	env := state.environ()
	slices.Sort(env)

	want := []string{"A=1", "B=2"}
	if !slices.Equal(env, want) {
		t.Errorf("environ() = %v, want %v", env, want)
	}
}
