package toolchat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries conversation defaults loaded from a YAML file, so that
// deployment knobs like the model name stay out of code. Zero values are
// ignored when applied, letting a partial file override only what it names.
type Config struct {
	Model         string `yaml:"model"`
	MaxTokens     int    `yaml:"max_tokens"`
	System        string `yaml:"system"`
	MaxIterations int    `yaml:"max_iterations"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
