package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk CLI configuration, stored at
// ~/.voxaide/config.yaml by default. Every field is optional; missing
// services degrade to their textual fallbacks.
type Config struct {
	Deepgram struct {
		APIKey string `yaml:"api_key"`
		Voice  string `yaml:"voice"`
	} `yaml:"deepgram"`

	News struct {
		APIKey  string `yaml:"api_key"`
		Country string `yaml:"country"`
	} `yaml:"news"`

	Classifier struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"classifier"`

	Simplifier struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"simplifier"`

	// ProfilePath overrides where the accessibility profile is persisted.
	ProfilePath string `yaml:"profile_path"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".voxaide", "config.yaml")
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profile.yaml"
	}
	return filepath.Join(home, ".voxaide", "profile.yaml")
}

// loadConfig reads the config file at path. A missing file at the default
// location yields an empty config; an explicitly given path must exist.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &config, nil
}
