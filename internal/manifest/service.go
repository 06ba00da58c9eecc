package manifest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/prizmlabs/slipway/internal/fault"
)

const (

	// Port the exported image declares when the service does not set one.
	DefaultPort = 8000

	// Application target served when the service does not set one: the
	// "app" attribute of the top-level "main" module.
	DefaultApp = "main:app"

	// Server used to launch the application.
	DefaultLauncher = "uvicorn"
)

// Describes one deployable web service.
//
// A service ties together the application source tree, the dependency
// manifest installed during the builder stage, the base images for both
// stages, and the launch contract baked into the exported image.
type Service struct {
	Name         string `yaml:"name"`                   // Service name, used for container IDs and output paths.
	Source       string `yaml:"source,omitempty"`       // Application source tree. Defaults to ".".
	Requirements string `yaml:"requirements,omitempty"` // Dependency manifest path. Defaults to "requirements.txt".
	BuilderImage string `yaml:"builder_image"`          // Base image for the builder stage (OCI archive path).
	RuntimeImage string `yaml:"runtime_image"`          // Base image for the runtime stage (OCI archive path).
	Port         int    `yaml:"port,omitempty"`         // TCP port the service listens on. Defaults to 8000.
	App          string `yaml:"app,omitempty"`          // module:attribute reference to the application object.
	Launcher     string `yaml:"launcher,omitempty"`     // Server binary resolved from the install prefix.
}

// Reads and validates a service definition from a YAML file.
//
// Missing optional fields are filled with defaults before validation.
func LoadService(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(ErrService, err)
	}

	var svc Service
	if err := yaml.UnmarshalStrict(data, &svc); err != nil {
		return nil, fault.Wrap(ErrService, err)
	}

	svc.applyDefaults()
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	return &svc, nil
}

// Fills unset optional fields with their defaults.
func (s *Service) applyDefaults() {
	if s.Source == "" {
		s.Source = "."
	}
	if s.Requirements == "" {
		s.Requirements = "requirements.txt"
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.App == "" {
		s.App = DefaultApp
	}
	if s.Launcher == "" {
		s.Launcher = DefaultLauncher
	}
}

// Checks the service definition for errors.
func (s *Service) Validate() error {
	if s.Name == "" {
		return fault.Wrapf(ErrService, "missing service name")
	}
	if s.BuilderImage == "" {
		return fault.Wrapf(ErrService, "missing builder base image")
	}
	if s.RuntimeImage == "" {
		return fault.Wrapf(ErrService, "missing runtime base image")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fault.Wrapf(ErrService, "port %d out of range", s.Port)
	}
	if _, _, err := ParseApp(s.App); err != nil {
		return err
	}
	return nil
}

// Splits an application target into its module and attribute parts.
//
// The target has the form "module:attribute", e.g. "main:app". The module
// may be dotted ("api.server:app"). Both parts must be non-empty.
func ParseApp(target string) (module, attr string, err error) {
	module, attr, ok := strings.Cut(target, ":")
	if !ok || module == "" || attr == "" {
		return "", "", fault.Wrapf(ErrService, "application target %q must have the form module:attribute", target)
	}
	return module, attr, nil
}
