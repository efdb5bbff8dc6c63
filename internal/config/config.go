package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds server settings loaded from godot-mcp.yml.
type ProjectConfig struct {
	ProjectRoot string   `yaml:"projectRoot,omitempty"`
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
	Verbose     bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read godot-mcp.yml or godot-mcp.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"godot-mcp.yml", "godot-mcp.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
