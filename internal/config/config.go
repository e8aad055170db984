package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the publish target. Only the project has no sensible
// default and must be configured.
const (
	DefaultDataset = "patstat"
	DefaultTable   = "tls_cpc_hierarchy"
)

// Target identifies the warehouse table a publish run loads into.
type Target struct {
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
	Table   string `yaml:"table"`

	// CredentialsEnv optionally names the environment variable holding
	// service-account JSON or a credentials file path. When empty the
	// standard GOOGLE_APPLICATION_CREDENTIALS* variables are consulted.
	CredentialsEnv string `yaml:"credentials_env"`
}

// LoadTarget reads a publish target from a YAML file and applies defaults.
func LoadTarget(path string) (*Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading target config: %w", err)
	}

	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if t.Project == "" {
		return nil, fmt.Errorf("%s: project is required", path)
	}
	if t.Dataset == "" {
		t.Dataset = DefaultDataset
	}
	if t.Table == "" {
		t.Table = DefaultTable
	}
	return &t, nil
}

// TableID returns the fully qualified table identifier.
func (t *Target) TableID() string {
	return fmt.Sprintf("%s.%s.%s", t.Project, t.Dataset, t.Table)
}
