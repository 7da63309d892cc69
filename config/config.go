// Package config loads generation settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up when none is given.
const DefaultFile = "seleq.yml"

// Config holds the settings for one generation run.
type Config struct {
	// Schema is the path of the GraphQL schema file.
	Schema string `yaml:"schema"`
	// Output describes the generated client placement.
	Output Output `yaml:"output"`
	// Client is the generated client type name.
	Client string `yaml:"client"`
	// Scalars maps custom scalar names to Go types.
	Scalars map[string]string `yaml:"scalars"`
	// Queries describes the selector call site scan.
	Queries Queries `yaml:"queries"`
}

// Output describes where the generated client goes.
type Output struct {
	Path    string `yaml:"path"`
	Package string `yaml:"package"`
}

// Queries describes the package scanned for selector call sites and where
// the registration file goes.
type Queries struct {
	Dir    string `yaml:"dir"`
	Output string `yaml:"output"`
}

// Load reads and validates a config file. Relative paths inside the file
// resolve against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Schema == "" {
		return nil, fmt.Errorf("%s: schema path is required", path)
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = filepath.Join("api", "client.gen.go")
	}
	if cfg.Output.Package == "" {
		cfg.Output.Package = filepath.Base(filepath.Dir(cfg.Output.Path))
	}
	if cfg.Client == "" {
		cfg.Client = "Client"
	}
	base := filepath.Dir(path)
	cfg.Schema = resolve(base, cfg.Schema)
	cfg.Output.Path = resolve(base, cfg.Output.Path)
	if cfg.Queries.Dir != "" {
		cfg.Queries.Dir = resolve(base, cfg.Queries.Dir)
		if cfg.Queries.Output == "" {
			cfg.Queries.Output = filepath.Join(cfg.Queries.Dir, "queries.gen.go")
		} else {
			cfg.Queries.Output = resolve(base, cfg.Queries.Output)
		}
	}
	return &cfg, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
