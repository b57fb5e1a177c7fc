// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the CLI configuration from
// ~/.skillsphere/config.yaml, creating a commented default on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape.
type Config struct {
	Server struct {
		// URL is the SkillSphere backend base URL.
		URL string `yaml:"url"`
		// TimeoutSeconds bounds each request.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"server"`

	// DataDir holds the session store and other local state.
	DataDir string `yaml:"data_dir"`

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
		// Dir enables JSON file logging when set.
		Dir string `yaml:"dir"`
	} `yaml:"log"`
}

// SessionDir returns the directory for the badger session store.
func (c Config) SessionDir() string {
	return filepath.Join(expand(c.DataDir), "session")
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	var c Config
	c.Server.URL = "http://localhost:8080"
	c.Server.TimeoutSeconds = 15
	c.DataDir = "~/.skillsphere"
	c.Log.Level = "info"
	c.Log.Dir = ""
	return c
}

var (
	// Global is the singleton instance populated by Load.
	Global Config
	once   sync.Once
)

// Load ensures the config is loaded into Global. First call wins.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal()
	})
	return err
}

func loadInternal() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not find the user's home directory: %w", err)
	}
	configPath := filepath.Join(home, ".skillsphere", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf(" First run detected, creating the config at %s\n", configPath)
		if err := createDefault(configPath); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	Global = DefaultConfig()
	if err = yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	return nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// expand expands a leading ~ to the user's home directory.
func expand(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
