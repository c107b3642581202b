package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FixtureConfig describes a fixture executable the runner may launch.
type FixtureConfig struct {
	Name        string            `yaml:"name" json:"name" mapstructure:"name"`
	Command     string            `yaml:"command" json:"command" mapstructure:"command"`
	Args        []string          `yaml:"args" json:"args" mapstructure:"args"`
	Environment map[string]string `yaml:"env" json:"env" mapstructure:"env"`
	Description string            `yaml:"description" json:"description" mapstructure:"description"`
}

// ConfigFile represents the structure of fixtures.yaml.
type ConfigFile struct {
	Fixtures []FixtureConfig `yaml:"fixtures" json:"fixtures"`
}

// LoadFixtures reads a configuration file (YAML or JSON) and returns the
// fixtures keyed by name. A missing file yields an empty map.
func LoadFixtures(path string) (map[string]FixtureConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]FixtureConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read fixtures config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return Index(cfg.Fixtures), nil
}

// Index keys fixture configs by name, skipping unnamed entries.
func Index(fixtures []FixtureConfig) map[string]FixtureConfig {
	out := make(map[string]FixtureConfig, len(fixtures))
	for _, f := range fixtures {
		if f.Name == "" || f.Command == "" {
			continue
		}
		out[f.Name] = f
	}
	return out
}
