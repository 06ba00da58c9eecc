package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/prizmlabs/slipway/internal/fault"
)

// An ordered sequence of build stages.
//
// Stages execute in declaration order. Earlier stages can be referenced by
// name from later stages' cross-stage copy steps. Exactly one stage must be
// non-transient; its filesystem becomes the exported image.
type Recipe struct {
	Stages []Stage `yaml:"stages"`
}

// A single build stage backed by a container.
type Stage struct {
	Name        string            `yaml:"name,omitempty"`         // Optional name, referenced by cross-stage copies.
	From        string            `yaml:"from"`                   // Base image: path to an OCI archive.
	Transient   bool              `yaml:"transient,omitempty"`    // Transient stages are discarded after the build.
	Steps       []Step            `yaml:"steps,omitempty"`        // Steps executed in order inside the stage container.
	Entrypoint  []string          `yaml:"entrypoint,omitempty"`   // OCI entrypoint for the exported image.
	Expose      []int             `yaml:"expose,omitempty"`       // TCP ports the exported image declares (metadata only).
	Env         map[string]string `yaml:"env,omitempty"`          // Environment variables set on the exported image.
	PathPrepend []string          `yaml:"path_prepend,omitempty"` // Directories prepended to the exported image's PATH.
	Workdir     string            `yaml:"workdir,omitempty"`      // Working directory of the exported image.
}

// A single instruction within a stage.
//
// A step is either an operation (Run or Copy), a group of nested steps, or
// a standalone modifier (Shell, Workdir, Env). Modifiers on an operation
// step apply to that operation only; standalone modifiers persist for the
// rest of the stage.
type Step struct {
	Run     string            `yaml:"run,omitempty"`     // Shell command executed in the stage container.
	Copy    string            `yaml:"copy,omitempty"`    // "src dest" host copy or "stage:src dest" cross-stage copy.
	Shell   string            `yaml:"shell,omitempty"`   // Shell used for subsequent run steps.
	Workdir string            `yaml:"workdir,omitempty"` // Working directory for subsequent operations.
	Env     map[string]string `yaml:"env,omitempty"`     // Environment variables for subsequent operations.
	Steps   []Step            `yaml:"steps,omitempty"`   // Nested step group sharing this step's modifiers.
}

// Reads and validates a recipe from a YAML file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(ErrRecipe, err)
	}

	var r Recipe
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return nil, fault.Wrap(ErrRecipe, err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &r, nil
}

// Checks the recipe for structural errors.
//
// A valid recipe has at least one stage, every stage names a base image,
// stage names are unique, and exactly one stage is non-transient. A nil
// recipe is invalid; decoded requests may carry a null recipe field.
func (r *Recipe) Validate() error {
	if r == nil {
		return fault.Wrapf(ErrRecipe, "no recipe")
	}
	if len(r.Stages) == 0 {
		return fault.Wrapf(ErrRecipe, "no stages defined")
	}

	seen := make(map[string]bool, len(r.Stages))
	output := 0

	for i, stage := range r.Stages {
		if stage.From == "" {
			return fault.Wrapf(ErrRecipe, "stage %d: missing base image", i+1)
		}
		if stage.Name != "" {
			if seen[stage.Name] {
				return fault.Wrapf(ErrRecipe, "duplicate stage name %q", stage.Name)
			}
			seen[stage.Name] = true
		}
		if !stage.Transient {
			output++
		}
		for j, port := range stage.Expose {
			if port < 1 || port > 65535 {
				return fault.Wrapf(ErrRecipe, "stage %d: expose entry %d: port %d out of range", i+1, j+1, port)
			}
		}
	}

	if output != 1 {
		return fault.Wrapf(ErrRecipe, "expected exactly one non-transient stage, found %d", output)
	}

	return nil
}

// Returns the stage whose filesystem becomes the exported image.
func (r *Recipe) OutputStage() *Stage {
	for i := range r.Stages {
		if !r.Stages[i].Transient {
			return &r.Stages[i]
		}
	}
	return nil
}

// Returns a label for a stage, preferring the name when available and
// falling back to the 1-based index.
func (s *Stage) Label(index int) string {
	if s.Name != "" {
		return fmt.Sprintf("%q", s.Name)
	}
	return fmt.Sprintf("%d", index+1)
}
