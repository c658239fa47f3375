package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"go-progression/sequencer"
)

// OutputConfig defines where generated notes go
type OutputConfig struct {
	PortName string           `json:"portName,omitempty" yaml:"portName,omitempty"`
	Voices   sequencer.Voices `json:"voices" yaml:"voices"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Palette  string `json:"palette,omitempty" yaml:"palette,omitempty"` // path to a GIMP .gpl palette
}

// StatusConfig configures the read-only HTTP state endpoint
type StatusConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // empty disables it
}

// Config is the main configuration structure
type Config struct {
	Generator sequencer.Params `json:"generator" yaml:"generator"`
	Output    OutputConfig     `json:"output" yaml:"output"`
	UI        UIConfig         `json:"ui,omitempty" yaml:"ui,omitempty"`
	Status    StatusConfig     `json:"status,omitempty" yaml:"status,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Generator: sequencer.DefaultParams(),
		Output: OutputConfig{
			Voices: sequencer.DefaultVoices(),
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-progression"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path. An empty path means ConfigPath, and a
// missing file there yields the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, cfg)
	}
	// unknown extension: try both
	jerr := json.Unmarshal(data, cfg)
	if jerr == nil {
		return nil
	}
	*cfg = *DefaultConfig()
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		return errors.Join(jerr, yerr)
	}
	return nil
}

// Save writes the config to path (ConfigPath if empty) as indented JSON, or
// YAML for .yaml/.yml files
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal(isYAML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the config as indented JSON or as YAML
func (c *Config) Marshal(asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(c)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Validate checks the generator settings and the voices together
func (c *Config) Validate() error {
	return errors.Join(c.Generator.Validate(), c.Output.Voices.Validate())
}
