package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML plan the -config mode executes: a document to
// load and a list of init requests to dispatch against it.
type fileConfig struct {
	HTML        string            `yaml:"html"`
	URL         string            `yaml:"url"`
	Debug       bool              `yaml:"debug"`
	SearchDelay time.Duration     `yaml:"search_delay"`
	Components  []componentConfig `yaml:"components"`
}

// componentConfig is one init request.
type componentConfig struct {
	ElementID string         `yaml:"element_id"`
	Selector  string         `yaml:"selector"`
	Type      string         `yaml:"type"`
	Options   map[string]any `yaml:"options"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if cfg.HTML == "" && cfg.URL == "" {
		return nil, fmt.Errorf("%s: either html or url is required", path)
	}
	return &cfg, nil
}

func (c *fileConfig) applyDefaults() {
	if c.SearchDelay <= 0 {
		c.SearchDelay = 50 * time.Millisecond
	}
}
